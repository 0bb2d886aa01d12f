// Command brili reads a JSON-encoded Program from standard input (or a
// named file) and runs its "main" function.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jgrier/brili/driver"
	"github.com/jgrier/brili/ir"
)

var (
	profile   = flag.Bool("p", false, "print total dynamic instruction count to stderr")
	gc        = flag.Bool("gc", false, "enable the reference counter")
	deferFree = flag.Bool("df", false, "treat free as a no-op")
	tracing   = flag.Bool("tr", false, "enable tracing and dump the trace map at end")
	hot       = flag.Int("hot", driver.DefaultHot, "call count at which a function's trace activates")
	file      = flag.String("f", "", "path to a JSON-encoded program (default: read from stdin)")
)

func main() {
	flag.Parse()
	args := flag.Args()

	in := os.Stdin
	path := "<stdin>"
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			die("%s: %s", *file, err)
		}
		defer f.Close()
		in = f
		path = *file
	}

	prog, err := ir.Decode(in)
	if err != nil {
		die("%s: %s", path, err)
	}

	opts := driver.Options{
		Profile:   *profile,
		GC:        *gc,
		DeferFree: *deferFree,
		Trace:     *tracing,
		Hot:       *hot,
	}
	if err := driver.Run(prog, args, opts, os.Stdout, os.Stderr); err != nil {
		die("%s", err)
	}
}

func die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
