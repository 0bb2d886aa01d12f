package interp

import "github.com/jgrier/brili/ir"

// callFields unifies the shape of a call instruction, which may appear as
// either a ValueInstr (its result is bound to Dst) or an EffectInstr
// (its result, if any, is discarded).
type callFields struct {
	Args  []string
	Funcs []string

	HasDst bool
	Dst    string
	Type   ir.Type
}

func fieldsOf(instr ir.Instr) callFields {
	switch c := instr.(type) {
	case *ir.ValueInstr:
		return callFields{Args: c.Args, Funcs: c.Funcs, HasDst: true, Dst: c.Dst, Type: c.Type}
	case *ir.EffectInstr:
		return callFields{Args: c.Args, Funcs: c.Funcs}
	default:
		return callFields{}
	}
}

// evalCall resolves the callee uniquely, binds a fresh child Environment
// by position with type checking, recurses into the function evaluator
// with a child State that shares every resource but Env/ICount/labels/
// SpecParent, propagates the child's instruction count back into the
// parent, and binds (or discards) the result with its own type check.
func evalCall(instr ir.Instr, state *State) (Action, error) {
	cf := fieldsOf(instr)
	if len(cf.Funcs) != 1 {
		return Action{}, errMalformed("call: want exactly 1 function reference, got %d", len(cf.Funcs))
	}
	callee, ok := state.Prog.Func(cf.Funcs[0])
	if !ok {
		return Action{}, errName("undefined function: %s", cf.Funcs[0])
	}
	if len(cf.Args) != len(callee.Parms) {
		return Action{}, errType("call to %s: got %d arguments, want %d", callee.Name, len(cf.Args), len(callee.Parms))
	}

	childEnv := NewEnv()
	for i, argName := range cf.Args {
		v, ok := state.Env.Get(argName)
		if !ok {
			return Action{}, errName("undefined variable: %s", argName)
		}
		if err := ir.CheckType(v, callee.Parms[i].Type); err != nil {
			return Action{}, errType("call to %s: argument %d: %s", callee.Name, i, err)
		}
		childEnv.Set(callee.Parms[i].Name, v)
	}

	child := &State{
		Env:    childEnv,
		Heap:   state.Heap,
		RC:     state.RC,
		Tracer: state.Tracer,
		Prog:   state.Prog,
		Opts:   state.Opts,
		Out:    state.Out,
	}

	if state.Tracer != nil {
		state.Tracer.BeforeCall(callee.Name)
	}
	ret, err := EvalFunc(callee, child)
	state.ICount += child.ICount
	if state.Tracer != nil {
		state.Tracer.AfterCall(callee.Name)
	}
	if err != nil {
		return Action{}, err
	}

	if cf.HasDst {
		if cf.Type == nil || callee.Ret == nil {
			return Action{}, errType("call to %s: missing declared return type", callee.Name)
		}
		if ret == nil {
			return Action{}, errType("call to %s: expected a return value but got none", callee.Name)
		}
		if err := ir.CheckType(ret, cf.Type); err != nil {
			return Action{}, errType("call to %s: %s", callee.Name, err)
		}
		if !ir.SameType(cf.Type, callee.Ret) {
			return Action{}, errType("call to %s: declared return type does not match callee's", callee.Name)
		}
		state.Env.Set(cf.Dst, ret)
	} else if ret != nil || callee.Ret != nil {
		return Action{}, errType("call to %s: result discarded but function returns a value", callee.Name)
	}
	return next(), nil
}
