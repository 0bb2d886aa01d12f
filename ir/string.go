package ir

import (
	"fmt"
	"strings"
)

// String renders a Program in a debug-only textual form, used for error
// messages and the -tr trace dump, never for round-tripping; there is no
// parser that reads this format back into a Program.
func (p *Program) String() string {
	var s strings.Builder
	for i, f := range p.Funcs {
		if i > 0 {
			s.WriteString("\n\n")
		}
		f.buildString(&s)
	}
	return s.String()
}

func (f *Function) String() string {
	var s strings.Builder
	f.buildString(&s)
	return s.String()
}

func (f *Function) buildString(s *strings.Builder) {
	s.WriteString(f.Name)
	s.WriteRune('(')
	for i, p := range f.Parms {
		if i > 0 {
			s.WriteString(", ")
		}
		s.WriteString(p.Name)
		s.WriteString(": ")
		s.WriteString(p.Type.String())
	}
	s.WriteRune(')')
	if f.Ret != nil {
		s.WriteString(": ")
		s.WriteString(f.Ret.String())
	}
	s.WriteString(" {\n")
	for _, c := range f.Code {
		switch c := c.(type) {
		case *Label:
			fmt.Fprintf(s, "%s:\n", c.Name)
		default:
			s.WriteString("\t")
			s.WriteString(c.(fmt.Stringer).String())
			s.WriteRune('\n')
		}
	}
	s.WriteString("}")
}

func (c *ConstInstr) String() string {
	var lit string
	switch c.Literal.Kind {
	case BoolLiteral:
		lit = fmt.Sprintf("%v", c.Literal.Bool)
	default:
		lit = fmt.Sprintf("%g", c.Literal.Number)
	}
	if c.Type != nil {
		return fmt.Sprintf("%s: %s = const %s", c.Dst, c.Type, lit)
	}
	return fmt.Sprintf("%s = const %s", c.Dst, lit)
}

func (v *ValueInstr) String() string {
	var s strings.Builder
	fmt.Fprintf(&s, "%s", v.Dst)
	if v.Type != nil {
		fmt.Fprintf(&s, ": %s", v.Type)
	}
	fmt.Fprintf(&s, " = %s", v.OpKind)
	writeRefs(&s, v.Funcs, v.Labels, v.Args)
	return s.String()
}

func (e *EffectInstr) String() string {
	var s strings.Builder
	s.WriteString(string(e.OpKind))
	writeRefs(&s, e.Funcs, e.Labels, e.Args)
	return s.String()
}

func writeRefs(s *strings.Builder, funcs, labels, args []string) {
	for _, f := range funcs {
		fmt.Fprintf(s, " @%s", f)
	}
	for _, l := range labels {
		fmt.Fprintf(s, " .%s", l)
	}
	for _, a := range args {
		fmt.Fprintf(s, " %s", a)
	}
}
