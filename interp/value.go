package interp

import "github.com/jgrier/brili/ir"

// getInt, getBool, getFloat, and getPointer fetch name from env and
// assert it holds the matching Value shape, producing a Name or Type
// error on failure.

func getInt(env *Env, name string) (ir.Int, error) {
	v, ok := env.Get(name)
	if !ok {
		return 0, errName("undefined variable: %s", name)
	}
	i, ok := v.(ir.Int)
	if !ok {
		return 0, errType("%s: want int, got %s", name, v.Type())
	}
	return i, nil
}

func getBool(env *Env, name string) (ir.Bool, error) {
	v, ok := env.Get(name)
	if !ok {
		return false, errName("undefined variable: %s", name)
	}
	b, ok := v.(ir.Bool)
	if !ok {
		return false, errType("%s: want bool, got %s", name, v.Type())
	}
	return b, nil
}

func getFloat(env *Env, name string) (ir.Float, error) {
	v, ok := env.Get(name)
	if !ok {
		return 0, errName("undefined variable: %s", name)
	}
	f, ok := v.(ir.Float)
	if !ok {
		return 0, errType("%s: want float, got %s", name, v.Type())
	}
	return f, nil
}

func getPointer(env *Env, name string) (ir.Pointer, error) {
	v, ok := env.Get(name)
	if !ok {
		return ir.Pointer{}, errName("undefined variable: %s", name)
	}
	p, ok := v.(ir.Pointer)
	if !ok {
		return ir.Pointer{}, errType("%s: want pointer, got %s", name, v.Type())
	}
	return p, nil
}

// argsOf returns the argument list of a ValueInstr or EffectInstr; a
// ConstInstr has none, since it is exempt from the arity check entirely.
func argsOf(instr ir.Instr) []string {
	switch c := instr.(type) {
	case *ir.ValueInstr:
		return c.Args
	case *ir.EffectInstr:
		return c.Args
	default:
		return nil
	}
}
