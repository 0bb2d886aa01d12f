package interp

import (
	"fmt"

	"github.com/jgrier/brili/ir"
)

// EvalFunc walks fn's code from the top, threading state through each
// instruction's Action, resolving labels, and handling speculation
// snapshot/restore, until an ActionEnd action (or an implicit
// fall-off-the-end) produces fn's result.
func EvalFunc(fn *ir.Function, state *State) (ir.Value, error) {
	idx := 0
	for idx < len(fn.Code) {
		item := fn.Code[idx]

		if lbl, ok := item.(*ir.Label); ok {
			state.LastLabel = state.CurLabel
			state.CurLabel = lbl.Name
			idx++
			continue
		}

		instr, ok := item.(ir.Instr)
		if !ok {
			return nil, errMalformed("code item is neither a label nor an instruction: %T", item)
		}

		action, err := evalInstr(instr, state)
		if err != nil {
			return nil, err
		}

		switch action.Kind {
		case ActionNext:
			idx++

		case ActionEnd:
			if action.HasValue {
				return action.Value, nil
			}
			return nil, nil

		case ActionJump:
			next, err := findLabel(fn, action.Label)
			if err != nil {
				return nil, err
			}
			idx = next

		case ActionSpeculate:
			state.SpecParent = &Snapshot{
				Env:       state.Env,
				LastLabel: state.LastLabel,
				CurLabel:  state.CurLabel,
				Parent:    state.SpecParent,
			}
			state.Env = state.Env.Clone()
			idx++

		case ActionCommit:
			if state.SpecParent == nil {
				return nil, errControl("commit with no active speculation")
			}
			state.SpecParent = nil
			idx++

		case ActionAbort:
			if state.SpecParent == nil {
				return nil, errControl("abort with no active speculation")
			}
			snap := state.SpecParent
			state.Env = snap.Env
			state.LastLabel = snap.LastLabel
			state.CurLabel = snap.CurLabel
			state.SpecParent = snap.Parent
			next, err := findLabel(fn, action.Label)
			if err != nil {
				return nil, err
			}
			idx = next

		default:
			panic(fmt.Sprintf("unrecognized action kind: %d", action.Kind))
		}
	}
	if state.SpecParent != nil {
		return nil, errControl("function fell off its end while still speculating")
	}
	return nil, nil
}

// findLabel returns the index in fn.Code of the Label named name.
func findLabel(fn *ir.Function, name string) (int, error) {
	for i, c := range fn.Code {
		if lbl, ok := c.(*ir.Label); ok && lbl.Name == name {
			return i, nil
		}
	}
	return 0, errMalformed("undefined label: %s", name)
}
