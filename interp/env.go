package interp

import "github.com/jgrier/brili/ir"

// Env maps identifiers to values within a single function call's frame.
// Insertion order is irrelevant, so a plain map suffices.
type Env struct {
	vars map[string]ir.Value
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{vars: make(map[string]ir.Value)}
}

// Get returns the value bound to name, if any.
func (e *Env) Get(name string) (ir.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds name to v, overwriting any prior binding.
func (e *Env) Set(name string, v ir.Value) {
	e.vars[name] = v
}

// Delete removes any binding for name, making it unbound.
func (e *Env) Delete(name string) {
	delete(e.vars, name)
}

// Clone returns an independent copy of e, so that mutations to the copy
// do not affect e. Used when entering speculation, so that the
// speculative region's writes diverge from the snapshot.
func (e *Env) Clone() *Env {
	cp := make(map[string]ir.Value, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Env{vars: cp}
}
