// Package driver locates the entry function, parses its arguments from
// the command line, runs it to completion, and reports the ambient
// outputs (profile counts, trace dumps) the CLI promises.
//
// Run is a reusable entry point: cmd/brili calls it with real
// os.Stdout/os.Stderr (after decoding the program from os.Stdin or a
// file itself), and tests call it with in-memory buffers.
package driver

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/jgrier/brili/heap"
	"github.com/jgrier/brili/interp"
	"github.com/jgrier/brili/ir"
	"github.com/jgrier/brili/refcount"
	"github.com/jgrier/brili/trace"
)

// Options holds the driver's configuration flags: the four flags exposed
// on the CLI, plus the tracer's hotness threshold.
type Options struct {
	Profile   bool // -p
	GC        bool // -gc
	DeferFree bool // -df
	Trace     bool // -tr
	Hot       int  // -hot, default 100
}

// DefaultHot is the tracer hotness threshold used when Options.Hot is
// left at its zero value.
const DefaultHot = 100

// Run locates prog's "main" function, parses args against its declared
// parameter types, executes it, and reports the ambient outputs to out
// (print, trace dump) and errOut (profile count). It returns a non-nil
// error for any Malformed, Type, Name, Memory, Control, or Input
// failure.
func Run(prog *ir.Program, args []string, opts Options, out, errOut io.Writer) error {
	main, ok := prog.Func("main")
	if !ok {
		return interp.NewNameError("undefined function: main")
	}

	hot := opts.Hot
	if hot <= 0 {
		hot = DefaultHot
	}

	entryVals, err := ParseArgs(main.Parms, args)
	if err != nil {
		return err
	}

	h := heap.New[ir.Value]()
	var rc *refcount.Counter
	if opts.GC {
		rc = refcount.New(h)
	}
	var tr *trace.Tracer
	if opts.Trace {
		tr = trace.New(hot)
	}

	env := interp.NewEnv()
	for i, p := range main.Parms {
		env.Set(p.Name, entryVals[i])
	}
	state := &interp.State{
		Env:  env,
		Heap: h,
		RC:   rc,
		Tracer: tr,
		Prog: prog,
		Opts: interp.Options{GC: opts.GC, DeferFree: opts.DeferFree, Hot: hot},
		Out:  out,
	}

	_, err = interp.EvalFunc(main, state)
	if err != nil {
		return err
	}

	if opts.GC {
		if err := rc.Sweep(); err != nil {
			return err
		}
	}
	if !h.IsEmpty() {
		return interp.NewMemoryError("Some memory locations have not been freed…")
	}

	if opts.Profile {
		fmt.Fprintf(errOut, "total_dyn_inst: %d\n", state.ICount)
	}
	if opts.Trace {
		writeTraces(out, tr.Traces())
	}
	return nil
}

// writeTraces serializes the tracer's recorded traces deterministically:
// functions sorted by name, instructions rendered with ir's debug String
// methods.
func writeTraces(out io.Writer, traces map[string][]ir.Code) {
	names := make([]string, 0, len(traces))
	for name := range traces {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "trace %s:\n", name)
		for _, c := range traces[name] {
			switch c := c.(type) {
			case *ir.Label:
				fmt.Fprintf(out, "%s:\n", c.Name)
			case fmt.Stringer:
				fmt.Fprintf(out, "\t%s\n", c)
			}
		}
	}
}

// ParseArgs parses args positionally against parms's declared types: int
// via strconv.ParseInt to a 64-bit value, float via strconv.ParseFloat
// (a NaN result fails), bool accepting only the literal strings "true"
// or "false". Arity must match exactly.
func ParseArgs(parms []ir.Parm, args []string) ([]ir.Value, error) {
	if len(args) != len(parms) {
		return nil, interp.NewInputError("main: got %d arguments, want %d", len(args), len(parms))
	}
	vals := make([]ir.Value, len(parms))
	for i, p := range parms {
		v, err := parseArg(p.Type, args[i])
		if err != nil {
			return nil, interp.NewInputError("argument %d (%s): %s", i, p.Name, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseArg(t ir.Type, s string) (ir.Value, error) {
	switch t.(type) {
	case ir.IntType:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a valid int: %s", s)
		}
		return ir.Int(n), nil
	case ir.FloatType:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return nil, fmt.Errorf("not a valid float: %s", s)
		}
		return ir.Float(f), nil
	case ir.BoolType:
		switch s {
		case "true":
			return ir.Bool(true), nil
		case "false":
			return ir.Bool(false), nil
		default:
			return nil, fmt.Errorf("not a valid bool: %s", s)
		}
	default:
		return nil, fmt.Errorf("entry parameter has unsupported type %s", t)
	}
}
