// reader.go
//
// The reader turns a byte stream into canonical expression trees, one
// expression per call. Surface sugar is lowered as it is read:
//
//	'x       -> (quote x)
//	`x       -> (quasiquote x)
//	,x       -> (unquote x)          ,@x -> (unquote-splicing x)
//	@x       -> (unbox x)
//	{k v ..} -> (list (cons k v) ..)
//	obj:key  -> (: obj (quote key))
//
// Close delimiters and the dotted-tail marker surface internally as the
// sentinel values; readSexp guarantees they never escape.
package shi

const (
	symbolMaxLen = 200
	stringMaxLen = 1000
)

const symbolChars = "~!#$%^&*-_=+:/?<>"

func validSymbolStartChar(c byte) bool {
	return isAlpha(c) || indexByte(symbolChars, c)
}

func validSymbolChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || indexByte(symbolChars, c)
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func indexByte(s string, c byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return true
		}
	}
	return false
}

// reader scans one input buffer. pos indexes the last consumed byte.
type reader struct {
	rt    *Runtime
	pos   int
	input string
}

const eof = -1

func newReader(rt *Runtime, input string) *reader {
	return &reader{rt: rt, pos: -1, input: input}
}

func (r *reader) peek() int {
	if r.pos+1 >= len(r.input) {
		return eof
	}
	return int(r.input[r.pos+1])
}

func (r *reader) next() int {
	r.pos++
	if r.pos >= len(r.input) {
		return eof
	}
	return int(r.input[r.pos])
}

// skipLine consumes input through the next newline (\n, \r or \r\n).
func (r *reader) skipLine() {
	for {
		c := r.next()
		if c == eof || c == '\n' {
			return
		}
		if c == '\r' {
			if r.peek() == '\n' {
				r.next()
			}
			return
		}
	}
}

// expr reads the next expression. It returns ok=false at end of input. The
// sentinels Cparen, Ccurly and Dot are returned to the list readers and
// must not leak past readSexp.
func (r *reader) expr() (Value, bool, error) {
	for {
		c := r.next()
		switch {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			continue
		case c == eof:
			return Nil, false, nil
		case c == ';' || (r.pos == 0 && c == '#'):
			r.skipLine()
			continue
		case c == '(':
			v, err := r.list()
			return v, true, err
		case c == ')':
			return Cparen, true, nil
		case c == '{':
			v, err := r.alist()
			return v, true, err
		case c == '}':
			return Ccurly, true, nil
		case c == '.':
			return Dot, true, nil
		case c == '@':
			v, err := r.wrap("unbox")
			return v, true, err
		case c == '\'':
			v, err := r.wrap("quote")
			return v, true, err
		case c == '`':
			v, err := r.wrap("quasiquote")
			return v, true, err
		case c == ',':
			v, err := r.unquote()
			return v, true, err
		case c == '"':
			v, err := r.string()
			return v, true, err
		case isDigit(byte(c)):
			return Int(r.number(int64(c - '0'))), true, nil
		case c == '-' && r.peek() != eof && isDigit(byte(r.peek())):
			return Int(-r.number(0)), true, nil
		case validSymbolStartChar(byte(c)):
			v, err := r.symbol(byte(c))
			return v, true, err
		}
		return Nil, false, r.rt.errorf(ErrReader, "Don't know how to handle %c", c)
	}
}

// list reads the elements after '('. A standalone dot marks the tail.
func (r *reader) list() (Value, error) {
	rt := r.rt
	f := rt.newFrame()
	defer f.end()
	head := f.slot(Nil)

	for {
		obj, ok, err := r.expr()
		if err != nil {
			return Nil, err
		}
		if !ok {
			return Nil, rt.errorf(ErrReader, "Unclosed parenthesis")
		}
		if obj.Tag == TCparen {
			return rt.reverse(head.val()), nil
		}
		if obj.Tag == TDot {
			last, ok, err := r.expr()
			if err != nil {
				return Nil, err
			}
			if !ok {
				return Nil, rt.errorf(ErrReader, "Unclosed parenthesis")
			}
			if head.val().Tag == TNil {
				return Nil, rt.errorf(ErrReader, "Stray dot")
			}
			tail := f.slot(last)
			cl, ok, err := r.expr()
			if err != nil {
				return Nil, err
			}
			if !ok || cl.Tag != TCparen {
				return Nil, rt.errorf(ErrReader, "Closed parenthesis expected after dot")
			}
			ret := rt.reverse(head.val())
			rt.setCdr(head.val(), tail.val())
			return ret, nil
		}
		head.set(rt.cons(obj, head.val()))
	}
}

// alist reads the elements after '{' and lowers the literal into
// (list (cons k1 v1) (cons k2 v2) ...). The element count must be even.
func (r *reader) alist() (Value, error) {
	rt := r.rt
	f := rt.newFrame()
	defer f.end()
	head := f.slot(Nil)

	for {
		obj, ok, err := r.expr()
		if err != nil {
			return Nil, err
		}
		if !ok {
			return Nil, rt.errorf(ErrReader, "Unclosed curly brace")
		}
		if obj.Tag == TDot {
			return Nil, rt.errorf(ErrReader, "Stray dot in alist")
		}
		if obj.Tag == TCparen {
			return Nil, rt.errorf(ErrReader, "Stray closing paren in alist")
		}
		if obj.Tag == TCcurly {
			if rt.length(head.val())%2 != 0 {
				return Nil, rt.errorf(ErrReader, "Alist contains un-even number of elements")
			}
			if head.val().Tag == TNil {
				return Nil, nil
			}

			ahead := f.slot(Nil)
			pair := f.slot(Nil)
			listSym := f.slot(rt.intern("list"))
			consSym := f.slot(rt.intern("cons"))
			for head.val().Tag != TNil {
				// Elements are reversed: value first, then its key.
				pair.set(rt.cons(rt.car(head.val()), Nil))
				head.set(rt.cdr(head.val()))
				pair.set(rt.cons(rt.car(head.val()), pair.val()))
				head.set(rt.cdr(head.val()))
				pair.set(rt.cons(consSym.val(), pair.val()))
				ahead.set(rt.cons(pair.val(), ahead.val()))
			}
			return rt.cons(listSym.val(), ahead.val()), nil
		}
		head.set(rt.cons(obj, head.val()))
	}
}

// wrap reads one expression and wraps it as (name expr).
func (r *reader) wrap(name string) (Value, error) {
	rt := r.rt
	f := rt.newFrame()
	defer f.end()
	sym := f.slot(rt.intern(name))

	v, ok, err := r.expr()
	if err != nil {
		return Nil, err
	}
	if !ok {
		return Nil, rt.errorf(ErrReader, "Unexpected end of input after %s", name)
	}
	tmp := f.slot(rt.cons(v, Nil))
	return rt.cons(sym.val(), tmp.val()), nil
}

// unquote handles both ,x and ,@x.
func (r *reader) unquote() (Value, error) {
	if r.peek() == '@' {
		r.next()
		return r.wrap("unquote-splicing")
	}
	return r.wrap("unquote")
}

func (r *reader) number(val int64) int64 {
	for r.peek() != eof && isDigit(byte(r.peek())) {
		val = val*10 + int64(r.next()-'0')
	}
	return val
}

// string reads a double-quoted literal, applying the escape set
// \n \r \t \" \\.
func (r *reader) string() (Value, error) {
	rt := r.rt
	var buf []byte
	for {
		c := r.next()
		if c == eof {
			return Nil, rt.errorf(ErrReader, "Unterminated string")
		}
		if c == '"' {
			break
		}
		if len(buf) >= stringMaxLen {
			return Nil, rt.errorf(ErrReader, "String too long")
		}
		if c == '\\' {
			e := r.next()
			switch e {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case eof:
				return Nil, rt.errorf(ErrReader, "Unterminated string")
			default:
				buf = append(buf, byte(e))
			}
			continue
		}
		buf = append(buf, byte(c))
	}
	return rt.makeStr(string(buf)), nil
}

// symbol reads a symbol, splitting at the first ':' into the object-access
// form (: obj (quote prop)).
func (r *reader) symbol(c byte) (Value, error) {
	rt := r.rt
	var buf1, buf2 []byte
	foundColon := false
	buf1 = append(buf1, c)

	for r.peek() != eof && validSymbolChar(byte(r.peek())) {
		if len(buf1)+len(buf2) >= symbolMaxLen {
			return Nil, rt.errorf(ErrReader, "Symbol name too long")
		}
		b := byte(r.next())
		if !foundColon && b == ':' && len(buf1) > 0 {
			foundColon = true
			continue
		}
		if foundColon {
			buf2 = append(buf2, b)
		} else {
			buf1 = append(buf1, b)
		}
	}

	if foundColon && len(buf2) > 0 {
		f := rt.newFrame()
		defer f.end()
		quoteSym := f.slot(rt.intern("quote"))
		colonSym := f.slot(rt.intern(":"))
		objSym := f.slot(rt.intern(string(buf1)))
		propSym := f.slot(rt.intern(string(buf2)))

		expr := f.slot(rt.cons(propSym.val(), Nil))
		expr.set(rt.cons(quoteSym.val(), expr.val()))
		expr.set(rt.cons(expr.val(), Nil))
		expr.set(rt.cons(objSym.val(), expr.val()))
		return rt.cons(colonSym.val(), expr.val()), nil
	}

	return rt.intern(string(buf1)), nil
}

// readSexp parses src in full. One expression returns itself; several wrap
// in (do ...); none is Nil. Stray sentinels are syntax errors here.
func (rt *Runtime) readSexp(src string) (Value, error) {
	r := newReader(rt, src)
	f := rt.newFrame()
	defer f.end()
	exprs := f.slot(Nil)

	for {
		expr, ok, err := r.expr()
		if err != nil {
			return Nil, err
		}
		if !ok {
			if exprs.val().Tag == TNil {
				return Nil, nil
			}
			if rt.length(exprs.val()) == 1 {
				return rt.car(exprs.val()), nil
			}
			doSym := f.slot(rt.intern("do"))
			exprs.set(rt.reverse(exprs.val()))
			return rt.cons(doSym.val(), exprs.val()), nil
		}
		switch expr.Tag {
		case TCparen:
			return Nil, rt.errorf(ErrReader, "Stray close parenthesis")
		case TCcurly:
			return Nil, rt.errorf(ErrReader, "Stray close curly bracket")
		case TDot:
			return Nil, rt.errorf(ErrReader, "Stray dot")
		}
		exprs.set(rt.cons(expr, exprs.val()))
	}
}
