package ir

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decode reads a JSON-encoded Program from r, in the wire format used by
// the bril toolchain this IR is modeled on: functions carrying a flat
// "instrs" list of either {"label": ...} or opcode objects.
//
// Decode is boundary plumbing for cmd/brili, not part of the evaluator's
// core contract, which takes an already-decoded Program value; this is
// one concrete way to produce one.
func Decode(r io.Reader) (*Program, error) {
	var wire struct {
		Functions []jsonFunc `json:"functions"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	funcs := make([]*Function, len(wire.Functions))
	for i, jf := range wire.Functions {
		f, err := jf.toFunction()
		if err != nil {
			return nil, fmt.Errorf("function %d: %w", i, err)
		}
		funcs[i] = f
	}
	return NewProgram(funcs)
}

type jsonFunc struct {
	Name   string          `json:"name"`
	Args   []jsonParm      `json:"args"`
	Type   json.RawMessage `json:"type,omitempty"`
	Instrs []jsonCode      `json:"instrs"`
}

type jsonParm struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type jsonCode struct {
	// Label is set when this code item is a label rather than an
	// instruction.
	Label string `json:"label,omitempty"`

	Op     string          `json:"op,omitempty"`
	Dest   string          `json:"dest,omitempty"`
	Type   json.RawMessage `json:"type,omitempty"`
	Args   []string        `json:"args,omitempty"`
	Funcs  []string        `json:"funcs,omitempty"`
	Labels []string        `json:"labels,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

func (jf jsonFunc) toFunction() (*Function, error) {
	parms := make([]Parm, len(jf.Args))
	for i, a := range jf.Args {
		t, err := decodeType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
		}
		parms[i] = Parm{Name: a.Name, Type: t}
	}
	var ret Type
	if len(jf.Type) > 0 {
		t, err := decodeType(jf.Type)
		if err != nil {
			return nil, fmt.Errorf("return type: %w", err)
		}
		ret = t
	}
	code := make([]Code, len(jf.Instrs))
	for i, jc := range jf.Instrs {
		c, err := jc.toCode()
		if err != nil {
			return nil, fmt.Errorf("instr %d: %w", i, err)
		}
		code[i] = c
	}
	return &Function{Name: jf.Name, Parms: parms, Ret: ret, Code: code}, nil
}

func (jc jsonCode) toCode() (Code, error) {
	if jc.Op == "" {
		if jc.Label == "" {
			return nil, fmt.Errorf("code item has neither label nor op")
		}
		return &Label{Name: jc.Label}, nil
	}
	op := Op(jc.Op)
	if op == OpConst {
		lit, err := decodeLiteral(jc.Value)
		if err != nil {
			return nil, err
		}
		var typ Type
		if len(jc.Type) > 0 {
			t, err := decodeType(jc.Type)
			if err != nil {
				return nil, err
			}
			typ = t
		}
		return &ConstInstr{Dst: jc.Dest, Type: typ, Literal: lit}, nil
	}
	if jc.Dest != "" {
		var typ Type
		if len(jc.Type) > 0 {
			t, err := decodeType(jc.Type)
			if err != nil {
				return nil, err
			}
			typ = t
		}
		return &ValueInstr{
			OpKind: op,
			Dst:    jc.Dest,
			Type:   typ,
			Args:   jc.Args,
			Funcs:  jc.Funcs,
			Labels: jc.Labels,
		}, nil
	}
	return &EffectInstr{
		OpKind: op,
		Args:   jc.Args,
		Funcs:  jc.Funcs,
		Labels: jc.Labels,
	}, nil
}

func decodeType(raw json.RawMessage) (Type, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("missing type")
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		switch name {
		case "int":
			return IntType{}, nil
		case "bool":
			return BoolType{}, nil
		case "float":
			return FloatType{}, nil
		default:
			return nil, fmt.Errorf("unknown type: %s", name)
		}
	}
	var ptr struct {
		Ptr json.RawMessage `json:"ptr"`
	}
	if err := json.Unmarshal(raw, &ptr); err == nil && len(ptr.Ptr) > 0 {
		elem, err := decodeType(ptr.Ptr)
		if err != nil {
			return nil, err
		}
		return &PtrType{Elem: elem}, nil
	}
	return nil, fmt.Errorf("malformed type: %s", raw)
}

func decodeLiteral(raw json.RawMessage) (Literal, error) {
	if len(raw) == 0 {
		return Literal{}, fmt.Errorf("const instruction missing value")
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Literal{Kind: BoolLiteral, Bool: b}, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return Literal{Kind: NumberLiteral, Number: n}, nil
	}
	return Literal{}, fmt.Errorf("malformed literal: %s", raw)
}
