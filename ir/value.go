package ir

import (
	"fmt"

	"github.com/jgrier/brili/heap"
)

// Value is the tagged union of the four runtime value shapes: Int, Bool,
// Float, and Pointer.
type Value interface {
	Type() Type
	String() string
}

// Int is a 64-bit two's-complement signed integer value.
type Int int64

func (Int) Type() Type        { return IntType{} }
func (v Int) String() string  { return fmt.Sprintf("%d", int64(v)) }

// Bool is a boolean value.
type Bool bool

func (Bool) Type() Type { return BoolType{} }
func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

// Float is an IEEE-754 double-precision value.
type Float float64

func (Float) Type() Type       { return FloatType{} }
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }

// Pointer is a pair of a heap Key and the pointee Type.
type Pointer struct {
	Key  heap.Key
	Elem Type
}

func (p Pointer) Type() Type { return &PtrType{Elem: p.Elem} }
func (p Pointer) String() string {
	return fmt.Sprintf("&%s", p.Key)
}

// Add returns the Pointer obtained by advancing p's Key by n, preserving
// the pointee type, per the ptradd instruction.
func (p Pointer) Add(n int64) Pointer {
	return Pointer{Key: p.Key.Add(n), Elem: p.Elem}
}
