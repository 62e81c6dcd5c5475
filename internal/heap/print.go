package heap

import (
	"fmt"
	"strings"

	"github.com/funvibe/noirvm/internal/value"
)

// Print renders v for diagnostic output. It never allocates heap objects or
// triggers user code, so the collector and the disassembler can call it at
// any point, including mid-collection.
func Print(v value.Value) string {
	switch v.Tag {
	case value.None:
		return "none"
	case value.Bool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case value.Int:
		return fmt.Sprintf("%d", v.AsInt())
	case value.Float:
		return fmt.Sprintf("%g", v.AsFloat())
	case value.Object:
		return printObject(v.AsObject())
	default:
		return "?"
	}
}

func printObject(o value.Obj) string {
	switch obj := o.(type) {
	case *String:
		return quoteString(obj.Bytes())
	case *Function:
		if obj.Name == nil {
			return "<module>"
		}
		return "<def " + obj.Name.Text() + ">"
	case *Native:
		return "<native bind>"
	case *Closure:
		name := "unknown"
		if obj.Function != nil {
			if obj.Function.Name != nil {
				name = obj.Function.Name.Text()
			} else {
				name = "module"
			}
		}
		return "<closure <def " + name + ">>"
	case *Upvalue:
		return "<upvalue>"
	case *Class:
		return "<class " + obj.Name.Text() + ">"
	case *Instance:
		return "<instance of " + obj.Class.Name.Text() + ">"
	case *BoundMethod:
		switch m := obj.Method.(type) {
		case *Closure:
			name := "unknown"
			if m.Function != nil && m.Function.Name != nil {
				name = m.Function.Name.Text()
			}
			return "<bound <def " + name + ">>"
		case *Native:
			return "<bound <native>>"
		default:
			return "<bound <unknown>>"
		}
	default:
		return "<object>"
	}
}

// quoteString double-quotes s, escaping \n \r \t \" and rendering the
// ANSI escape byte 0x1B as "\[" — a deliberate diagnostic convenience for
// terminal-safe dumps of strings containing raw escape sequences, not a
// general-purpose escaping mechanism. Do not attempt to round-trip it.
func quoteString(s []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range s {
		switch c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '"':
			sb.WriteString(`\"`)
		case 0x1B:
			sb.WriteString(`\[`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
