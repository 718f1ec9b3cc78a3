// printer.go
//
// Rendering of values back to surface syntax. prStr is the engine behind
// the pr-str primitive and the REPL echo. Strings round-trip through the
// reader's escape rules; objects print a friendly header using their
// optional *object-name* property.
package shi

import (
	"strconv"
	"strings"
)

func (rt *Runtime) prStr(v Value) string {
	switch v.Tag {
	case TCell:
		var b strings.Builder
		b.WriteByte('(')
		for {
			b.WriteString(rt.prStr(rt.car(v)))
			cdr := rt.cdr(v)
			if cdr.Tag == TNil {
				break
			}
			if cdr.Tag != TCell {
				b.WriteString(" . ")
				b.WriteString(rt.prStr(cdr))
				break
			}
			b.WriteByte(' ')
			v = cdr
		}
		b.WriteByte(')')
		return b.String()
	case TStr:
		return quoteString(rt.strVal(v))
	case TObj:
		name := "nil"
		if pair, ok, _ := rt.objFind(v, rt.intern("*object-name*")); ok {
			if nv := rt.cdr(pair); nv.Tag == TStr {
				name = rt.strVal(nv)
			}
		}
		return "<object " + name + " #" + strconv.Itoa(v.Addr) + ">"
	case TInt:
		return strconv.FormatInt(v.Num, 10)
	case TSym:
		return rt.strVal(v)
	case TPri:
		return "<primitive>"
	case TFun:
		return "<function>"
	case TMac:
		return "<macro>"
	case TMoved:
		return "<moved>"
	case TTrue:
		return "t"
	case TNil:
		return "()"
	}
	panic(&FatalError{Msg: "bug: print: unknown tag type"})
}

// quoteString renders s in double quotes with the reader's escape set.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
