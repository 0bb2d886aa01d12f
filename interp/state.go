package interp

import (
	"io"

	"github.com/jgrier/brili/heap"
	"github.com/jgrier/brili/ir"
	"github.com/jgrier/brili/refcount"
	"github.com/jgrier/brili/trace"
)

// Options holds the execution flags that affect evaluator semantics
// rather than just ambient reporting: whether reference counting is
// tracked (-gc) and whether free is a no-op (-df). Hot records the
// tracer's hotness threshold (-hot); the evaluator itself does not read
// it, since the Tracer in State was already built with that threshold.
type Options struct {
	GC        bool
	DeferFree bool
	Hot       int
}

// State is the per-call evaluation frame: an Environment plus the
// resources threaded through every nested call. Heap, RC, Tracer, Prog,
// Opts, and Out are shared verbatim with every child call's State; Env,
// ICount, LastLabel, CurLabel, and SpecParent are frame-local and never
// shared, since a speculation snapshot captures only frame-local fields.
type State struct {
	Env *Env

	Heap   *heap.Heap[ir.Value]
	RC     *refcount.Counter // nil when Opts.GC is false
	Tracer *trace.Tracer     // nil when tracing is disabled
	Prog   *ir.Program
	Opts   Options
	Out    io.Writer

	ICount int64

	LastLabel string
	CurLabel  string

	SpecParent *Snapshot
}

// Snapshot is the frame-local state captured by a speculate action.
// Parent chains to an outer, still-pending speculation, if this
// speculate was itself nested inside one.
type Snapshot struct {
	Env       *Env
	LastLabel string
	CurLabel  string
	Parent    *Snapshot
}
