package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jgrier/brili/interp"
	"github.com/jgrier/brili/ir"
)

func mustDecode(t *testing.T, src string) *ir.Program {
	t.Helper()
	prog, err := ir.Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %s", err)
	}
	return prog
}

const printProgram = `{
  "functions": [
    {
      "name": "main",
      "args": [{"name": "a", "type": "int"}, {"name": "b", "type": "int"}],
      "instrs": [
        {"dest": "c", "type": "int", "op": "add", "args": ["a", "b"]},
        {"op": "print", "args": ["c"]}
      ]
    }
  ]
}`

func TestRunPrintsAndExitsCleanly(t *testing.T) {
	prog := mustDecode(t, printProgram)
	var out, errOut bytes.Buffer
	if err := Run(prog, []string{"3", "4"}, Options{}, &out, &errOut); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if out.String() != "7\n" {
		t.Errorf("stdout=%q, want %q", out.String(), "7\n")
	}
}

func TestRunMissingMainFails(t *testing.T) {
	prog, _ := ir.NewProgram(nil)
	var out, errOut bytes.Buffer
	err := Run(prog, nil, Options{}, &out, &errOut)
	if err == nil {
		t.Fatalf("Run with no main function succeeded, want error")
	}
}

func TestRunArityMismatchIsInputError(t *testing.T) {
	prog := mustDecode(t, printProgram)
	var out, errOut bytes.Buffer
	err := Run(prog, []string{"3"}, Options{}, &out, &errOut)
	if err == nil {
		t.Fatalf("Run with wrong entry-argument count succeeded, want error")
	}
	if ierr, ok := err.(*interp.Error); !ok || ierr.Kind() != interp.InputErr {
		t.Errorf("err=%v, want an interp.Error of kind %s", err, interp.InputErr)
	}
}

func TestRunProfileEmitsInstructionCount(t *testing.T) {
	prog := mustDecode(t, printProgram)
	var out, errOut bytes.Buffer
	if err := Run(prog, []string{"1", "2"}, Options{Profile: true}, &out, &errOut); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if !strings.HasPrefix(errOut.String(), "total_dyn_inst: ") {
		t.Errorf("stderr=%q, want total_dyn_inst prefix", errOut.String())
	}
}

const leakyProgram = `{
  "functions": [
    {
      "name": "main",
      "args": [{"name": "n", "type": "int"}],
      "instrs": [
        {"dest": "p", "type": {"ptr": "int"}, "op": "alloc", "args": ["n"]}
      ]
    }
  ]
}`

func TestRunResidualAllocationIsMemoryError(t *testing.T) {
	prog := mustDecode(t, leakyProgram)
	var out, errOut bytes.Buffer
	err := Run(prog, []string{"1"}, Options{}, &out, &errOut)
	if err == nil {
		t.Fatalf("Run with an unfreed allocation succeeded, want error")
	}
	if ierr, ok := err.(*interp.Error); !ok || ierr.Kind() != interp.MemoryErr {
		t.Errorf("err=%v, want an interp.Error of kind %s", err, interp.MemoryErr)
	}
}

func TestParseArgsTypes(t *testing.T) {
	parms := []ir.Parm{
		{Name: "i", Type: ir.IntType{}},
		{Name: "f", Type: ir.FloatType{}},
		{Name: "b", Type: ir.BoolType{}},
	}
	vals, err := ParseArgs(parms, []string{"42", "3.5", "true"})
	if err != nil {
		t.Fatalf("ParseArgs: %s", err)
	}
	if vals[0] != ir.Int(42) || vals[1] != ir.Float(3.5) || vals[2] != ir.Bool(true) {
		t.Errorf("ParseArgs=%v", vals)
	}
}

func TestParseArgsRejectsNaNFloat(t *testing.T) {
	parms := []ir.Parm{{Name: "f", Type: ir.FloatType{}}}
	if _, err := ParseArgs(parms, []string{"nan"}); err == nil {
		t.Errorf("ParseArgs accepted NaN, want error")
	}
}

func TestParseArgsRejectsNonTrueFalseBool(t *testing.T) {
	parms := []ir.Parm{{Name: "b", Type: ir.BoolType{}}}
	if _, err := ParseArgs(parms, []string{"1"}); err == nil {
		t.Errorf("ParseArgs accepted \"1\" as a bool, want error")
	}
}

func TestParseArgsArityMismatch(t *testing.T) {
	parms := []ir.Parm{{Name: "i", Type: ir.IntType{}}}
	if _, err := ParseArgs(parms, nil); err == nil {
		t.Errorf("ParseArgs accepted wrong arity, want error")
	}
}
