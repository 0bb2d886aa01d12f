package interp

import (
	"bytes"
	"testing"

	"github.com/jgrier/brili/heap"
	"github.com/jgrier/brili/ir"
)

// doubleProgram defines "double(n: int): int { r = add n n; ret r }" and a
// "main" that calls it, exercising the full call protocol.
func doubleProgram(t *testing.T) (*ir.Program, *ir.Function) {
	t.Helper()
	double := &ir.Function{
		Name:  "double",
		Parms: []ir.Parm{{Name: "n", Type: ir.IntType{}}},
		Ret:   ir.IntType{},
		Code: []ir.Code{
			&ir.ValueInstr{OpKind: ir.OpAdd, Dst: "r", Args: []string{"n", "n"}},
			&ir.EffectInstr{OpKind: ir.OpRet, Args: []string{"r"}},
		},
	}
	main := &ir.Function{
		Name:  "main",
		Parms: []ir.Parm{{Name: "x", Type: ir.IntType{}}},
		Ret:   ir.IntType{},
		Code: []ir.Code{
			&ir.ValueInstr{OpKind: ir.OpCall, Dst: "y", Type: ir.IntType{}, Funcs: []string{"double"}, Args: []string{"x"}},
			&ir.EffectInstr{OpKind: ir.OpRet, Args: []string{"y"}},
		},
	}
	prog, err := ir.NewProgram([]*ir.Function{double, main})
	if err != nil {
		t.Fatalf("NewProgram: %s", err)
	}
	return prog, main
}

func TestCallProtocolHappyPath(t *testing.T) {
	prog, main := doubleProgram(t)
	state := &State{
		Env:  NewEnv(),
		Heap: heap.New[ir.Value](),
		Prog: prog,
		Out:  &bytes.Buffer{},
	}
	state.Env.Set("x", ir.Int(21))
	got, err := EvalFunc(main, state)
	if err != nil {
		t.Fatalf("EvalFunc: %s", err)
	}
	if got != ir.Int(42) {
		t.Errorf("double(21) via main=%v, want 42", got)
	}
}

func TestCallPropagatesChildInstructionCount(t *testing.T) {
	prog, main := doubleProgram(t)
	state := &State{
		Env:  NewEnv(),
		Heap: heap.New[ir.Value](),
		Prog: prog,
		Out:  &bytes.Buffer{},
	}
	state.Env.Set("x", ir.Int(1))
	if _, err := EvalFunc(main, state); err != nil {
		t.Fatalf("EvalFunc: %s", err)
	}
	// main: call, ret = 2; double: add, ret = 2. Total 4.
	if state.ICount != 4 {
		t.Errorf("ICount=%d, want 4", state.ICount)
	}
}

func TestCallUndefinedFunctionIsNameError(t *testing.T) {
	prog, err := ir.NewProgram(nil)
	if err != nil {
		t.Fatalf("NewProgram: %s", err)
	}
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	_, err = evalInstr(&ir.EffectInstr{OpKind: ir.OpCall, Funcs: []string{"nope"}}, state)
	wantErrKind(t, err, NameErr)
}

func TestCallArgumentArityMismatchIsTypeError(t *testing.T) {
	prog, _ := doubleProgram(t)
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	_, err := evalInstr(&ir.ValueInstr{OpKind: ir.OpCall, Dst: "y", Type: ir.IntType{}, Funcs: []string{"double"}}, state)
	wantErrKind(t, err, TypeErr)
}

func TestCallArgumentTypeMismatchIsTypeError(t *testing.T) {
	prog, _ := doubleProgram(t)
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	state.Env.Set("x", ir.Bool(true))
	_, err := evalInstr(&ir.ValueInstr{OpKind: ir.OpCall, Dst: "y", Type: ir.IntType{}, Funcs: []string{"double"}, Args: []string{"x"}}, state)
	wantErrKind(t, err, TypeErr)
}

func TestCallResultDiscardedWhenCalleeReturnsIsTypeError(t *testing.T) {
	prog, _ := doubleProgram(t)
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	state.Env.Set("x", ir.Int(1))
	_, err := evalInstr(&ir.EffectInstr{OpKind: ir.OpCall, Funcs: []string{"double"}, Args: []string{"x"}}, state)
	wantErrKind(t, err, TypeErr)
}

func TestCallDeclaredReturnTypeMismatchIsTypeError(t *testing.T) {
	prog, _ := doubleProgram(t)
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	state.Env.Set("x", ir.Int(1))
	_, err := evalInstr(&ir.ValueInstr{OpKind: ir.OpCall, Dst: "y", Type: ir.BoolType{}, Funcs: []string{"double"}, Args: []string{"x"}}, state)
	wantErrKind(t, err, TypeErr)
}

func TestCallAmbiguousFuncsListIsMalformed(t *testing.T) {
	prog, _ := doubleProgram(t)
	state := &State{Env: NewEnv(), Heap: heap.New[ir.Value](), Prog: prog, Out: &bytes.Buffer{}}
	_, err := evalInstr(&ir.EffectInstr{OpKind: ir.OpCall, Funcs: []string{"double", "double"}}, state)
	wantErrKind(t, err, Malformed)
}
