// Package trace implements a hotness-triggered call tracer. It is
// recording-only: it never alters execution, only observes it.
package trace

import "github.com/jgrier/brili/ir"

// Tracer counts calls per function, activates recording once a
// function's count reaches a hotness threshold, and records the
// instructions executed while a trace is active. At most one function
// is traced at a time.
type Tracer struct {
	hot     int
	calls   map[string]int
	full    map[string]bool
	active  bool
	current string
	logs    map[string][]ir.Code
}

// New returns a Tracer that activates a function's trace once its call
// count reaches hot.
func New(hot int) *Tracer {
	return &Tracer{
		hot:   hot,
		calls: make(map[string]int),
		full:  make(map[string]bool),
		logs:  make(map[string][]ir.Code),
	}
}

// BeforeCall records a new call to fn. If fn is not yet fully traced, its
// call count is incremented; if that reaches the hotness threshold and no
// trace is currently active, fn's trace is activated.
func (t *Tracer) BeforeCall(fn string) {
	if t.full[fn] {
		return
	}
	t.calls[fn]++
	if !t.active && t.calls[fn] >= t.hot {
		t.active = true
		t.current = fn
		t.logs[fn] = nil
	}
}

// Record appends instr to the active trace's log, if one is active.
func (t *Tracer) Record(instr ir.Code) {
	if t.active {
		t.logs[t.current] = append(t.logs[t.current], instr)
	}
}

// AfterCall deactivates tracing and marks fn fully traced, if fn is the
// function whose call most recently activated the active trace.
func (t *Tracer) AfterCall(fn string) {
	if t.active && t.current == fn {
		t.active = false
		t.full[fn] = true
	}
}

// Active reports whether a trace is currently being recorded.
func (t *Tracer) Active() bool { return t.active }

// Traces returns the recorded instruction log for every function that
// was, at some point, actively traced.
func (t *Tracer) Traces() map[string][]ir.Code { return t.logs }
