package interp

import (
	"fmt"
	"math"
	"strings"

	"github.com/jgrier/brili/heap"
	"github.com/jgrier/brili/ir"
)

// evalInstr advances state by exactly one instruction and reports the
// Action the caller (the function evaluator in func.go) should take.
func evalInstr(instr ir.Instr, state *State) (Action, error) {
	state.ICount++
	if state.Tracer != nil && state.Tracer.Active() {
		state.Tracer.Record(instr)
	}

	op := instr.Op()
	if op != ir.OpConst {
		n, fixed, ok := ir.Arity(op)
		if !ok {
			return Action{}, errMalformed("unknown opcode: %s", op)
		}
		if fixed {
			args := argsOf(instr)
			if len(args) != n {
				return Action{}, errMalformed("%s: got %d arguments, want %d", op, len(args), n)
			}
		}
	}

	if state.SpecParent != nil && (op == ir.OpCall || op == ir.OpRet) {
		return Action{}, errControl("%s is not allowed during speculation", op)
	}

	switch c := instr.(type) {
	case *ir.ConstInstr:
		return evalConst(c, state)
	case *ir.ValueInstr:
		return evalValueInstr(c, state)
	case *ir.EffectInstr:
		return evalEffectInstr(c, state)
	default:
		panic(fmt.Sprintf("unrecognized instruction shape: %T", instr))
	}
}

func evalConst(c *ir.ConstInstr, state *State) (Action, error) {
	var v ir.Value
	switch c.Literal.Kind {
	case ir.BoolLiteral:
		v = ir.Bool(c.Literal.Bool)
	case ir.NumberLiteral:
		if _, isFloat := c.Type.(ir.FloatType); isFloat {
			v = ir.Float(c.Literal.Number)
		} else {
			v = ir.Int(int64(math.Floor(c.Literal.Number)))
		}
	default:
		return Action{}, errMalformed("const: unrecognized literal kind")
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalValueInstr(c *ir.ValueInstr, state *State) (Action, error) {
	switch c.OpKind {
	case ir.OpID:
		return evalID(c, state)
	case ir.OpAdd, ir.OpMul, ir.OpSub, ir.OpDiv, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe, ir.OpEq:
		return evalIntBinOp(c, state)
	case ir.OpNot:
		b, err := getBool(state.Env, c.Args[0])
		if err != nil {
			return Action{}, err
		}
		state.Env.Set(c.Dst, ir.Bool(!b))
		return next(), nil
	case ir.OpAnd, ir.OpOr:
		return evalBoolBinOp(c, state)
	case ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFLt, ir.OpFLe, ir.OpFGt, ir.OpFGe, ir.OpFEq:
		return evalFloatBinOp(c, state)
	case ir.OpAlloc:
		return evalAlloc(c, state)
	case ir.OpLoad:
		return evalLoad(c, state)
	case ir.OpPtrAdd:
		return evalPtrAdd(c, state)
	case ir.OpPhi:
		return evalPhi(c, state)
	case ir.OpCall:
		return evalCall(c, state)
	default:
		return Action{}, errMalformed("unexpected value opcode: %s", c.OpKind)
	}
}

func evalEffectInstr(c *ir.EffectInstr, state *State) (Action, error) {
	switch c.OpKind {
	case ir.OpPrint:
		return evalPrint(c, state)
	case ir.OpJmp:
		if len(c.Labels) != 1 {
			return Action{}, errMalformed("jmp: want 1 label, got %d", len(c.Labels))
		}
		return jump(c.Labels[0]), nil
	case ir.OpBr:
		return evalBr(c, state)
	case ir.OpRet:
		return evalRet(c, state)
	case ir.OpNop:
		return next(), nil
	case ir.OpCall:
		return evalCall(c, state)
	case ir.OpFree:
		return evalFree(c, state)
	case ir.OpStore:
		return evalStore(c, state)
	case ir.OpSpeculate:
		return speculate(), nil
	case ir.OpGuard:
		return evalGuard(c, state)
	case ir.OpCommit:
		return commit(), nil
	default:
		return Action{}, errMalformed("unexpected effect opcode: %s", c.OpKind)
	}
}

func evalID(c *ir.ValueInstr, state *State) (Action, error) {
	v, ok := state.Env.Get(c.Args[0])
	if !ok {
		return Action{}, errName("undefined variable: %s", c.Args[0])
	}
	if state.Opts.GC {
		if p, isPtr := v.(ir.Pointer); isPtr {
			old := priorBase(state.Env, c.Dst)
			if err := state.RC.OnAssign(old, p.Key.Base); err != nil {
				return Action{}, errMemory("%s", err)
			}
		}
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

// priorBase returns the heap Base the destination dst currently holds, if
// it is bound to a Pointer, for use as the "old" argument to OnAssign.
func priorBase(env *Env, dst string) *heap.Base {
	cur, ok := env.Get(dst)
	if !ok {
		return nil
	}
	p, ok := cur.(ir.Pointer)
	if !ok {
		return nil
	}
	b := p.Key.Base
	return &b
}

func evalIntBinOp(c *ir.ValueInstr, state *State) (Action, error) {
	x, err := getInt(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	y, err := getInt(state.Env, c.Args[1])
	if err != nil {
		return Action{}, err
	}
	var v ir.Value
	switch c.OpKind {
	case ir.OpAdd:
		v = ir.Int(int64(x) + int64(y))
	case ir.OpMul:
		v = ir.Int(int64(x) * int64(y))
	case ir.OpSub:
		v = ir.Int(int64(x) - int64(y))
	case ir.OpDiv:
		if y == 0 {
			return Action{}, errMemory("division by zero")
		}
		v = ir.Int(int64(x) / int64(y))
	case ir.OpLt:
		v = ir.Bool(x < y)
	case ir.OpLe:
		v = ir.Bool(x <= y)
	case ir.OpGt:
		v = ir.Bool(x > y)
	case ir.OpGe:
		v = ir.Bool(x >= y)
	case ir.OpEq:
		v = ir.Bool(x == y)
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalBoolBinOp(c *ir.ValueInstr, state *State) (Action, error) {
	x, err := getBool(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	y, err := getBool(state.Env, c.Args[1])
	if err != nil {
		return Action{}, err
	}
	var v ir.Bool
	if c.OpKind == ir.OpAnd {
		v = x && y
	} else {
		v = x || y
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalFloatBinOp(c *ir.ValueInstr, state *State) (Action, error) {
	x, err := getFloat(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	y, err := getFloat(state.Env, c.Args[1])
	if err != nil {
		return Action{}, err
	}
	var v ir.Value
	switch c.OpKind {
	case ir.OpFAdd:
		v = ir.Float(x + y)
	case ir.OpFSub:
		v = ir.Float(x - y)
	case ir.OpFMul:
		v = ir.Float(x * y)
	case ir.OpFDiv:
		v = ir.Float(x / y)
	case ir.OpFLt:
		v = ir.Bool(x < y)
	case ir.OpFLe:
		v = ir.Bool(x <= y)
	case ir.OpFGt:
		v = ir.Bool(x > y)
	case ir.OpFGe:
		v = ir.Bool(x >= y)
	case ir.OpFEq:
		v = ir.Bool(x == y)
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalPrint(c *ir.EffectInstr, state *State) (Action, error) {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		v, ok := state.Env.Get(a)
		if !ok {
			return Action{}, errName("undefined variable: %s", a)
		}
		parts[i] = v.String()
	}
	fmt.Fprintln(state.Out, strings.Join(parts, " "))
	return next(), nil
}

func evalBr(c *ir.EffectInstr, state *State) (Action, error) {
	if len(c.Labels) != 2 {
		return Action{}, errMalformed("br: want 2 labels, got %d", len(c.Labels))
	}
	cond, err := getBool(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	if cond {
		return jump(c.Labels[0]), nil
	}
	return jump(c.Labels[1]), nil
}

func evalRet(c *ir.EffectInstr, state *State) (Action, error) {
	switch len(c.Args) {
	case 0:
		return end(nil, false), nil
	case 1:
		v, ok := state.Env.Get(c.Args[0])
		if !ok {
			return Action{}, errName("undefined variable: %s", c.Args[0])
		}
		return end(v, true), nil
	default:
		return Action{}, errMalformed("ret: want 0 or 1 arguments, got %d", len(c.Args))
	}
}

func evalAlloc(c *ir.ValueInstr, state *State) (Action, error) {
	pt, ok := c.Type.(*ir.PtrType)
	if !ok {
		return Action{}, errType("alloc: declared type must be ptr<T>")
	}
	n, err := getInt(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	key, err := state.Heap.Alloc(int64(n))
	if err != nil {
		return Action{}, errMemory("%s", err)
	}
	p := ir.Pointer{Key: key, Elem: pt.Elem}
	if state.Opts.GC {
		old := priorBase(state.Env, c.Dst)
		if err := state.RC.OnAssign(old, key.Base); err != nil {
			return Action{}, errMemory("%s", err)
		}
	}
	state.Env.Set(c.Dst, p)
	return next(), nil
}

func evalFree(c *ir.EffectInstr, state *State) (Action, error) {
	if state.Opts.DeferFree {
		return next(), nil
	}
	p, err := getPointer(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	if err := state.Heap.Free(p.Key); err != nil {
		return Action{}, errMemory("%s", err)
	}
	if state.Opts.GC {
		state.RC.OnFree(p.Key.Base)
	}
	return next(), nil
}

func evalStore(c *ir.EffectInstr, state *State) (Action, error) {
	p, err := getPointer(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	v, ok := state.Env.Get(c.Args[1])
	if !ok {
		return Action{}, errName("undefined variable: %s", c.Args[1])
	}
	if err := ir.CheckType(v, p.Elem); err != nil {
		return Action{}, errType("store: %s", err)
	}
	if err := state.Heap.Write(p.Key, v); err != nil {
		return Action{}, errMemory("%s", err)
	}
	return next(), nil
}

func evalLoad(c *ir.ValueInstr, state *State) (Action, error) {
	p, err := getPointer(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	v, err := state.Heap.Read(p.Key)
	if err != nil {
		return Action{}, errMemory("%s", err)
	}
	if v == nil {
		return Action{}, errMemory("load: uninitialized data at %s", p.Key)
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalPtrAdd(c *ir.ValueInstr, state *State) (Action, error) {
	p, err := getPointer(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	n, err := getInt(state.Env, c.Args[1])
	if err != nil {
		return Action{}, err
	}
	state.Env.Set(c.Dst, p.Add(int64(n)))
	return next(), nil
}

func evalPhi(c *ir.ValueInstr, state *State) (Action, error) {
	if len(c.Labels) != len(c.Args) {
		return Action{}, errMalformed("phi: %d labels but %d args", len(c.Labels), len(c.Args))
	}
	idx := -1
	if state.LastLabel != "" {
		for i, l := range c.Labels {
			if l == state.LastLabel {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		state.Env.Delete(c.Dst)
		return next(), nil
	}
	v, ok := state.Env.Get(c.Args[idx])
	if !ok {
		state.Env.Delete(c.Dst)
		return next(), nil
	}
	state.Env.Set(c.Dst, v)
	return next(), nil
}

func evalGuard(c *ir.EffectInstr, state *State) (Action, error) {
	if len(c.Labels) != 1 {
		return Action{}, errMalformed("guard: want 1 label, got %d", len(c.Labels))
	}
	cond, err := getBool(state.Env, c.Args[0])
	if err != nil {
		return Action{}, err
	}
	if cond {
		return next(), nil
	}
	return abort(c.Labels[0]), nil
}
