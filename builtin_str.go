// builtin_str.go
package shi

import "strings"

// (str str0 str1 ...) - concatenation; every argument must be a string.
func primStr(rt *Runtime, env, args handle) (Value, error) {
	var b strings.Builder
	for a := args.val(); a.Tag != TNil; a = rt.cdr(a) {
		if rt.car(a).Tag != TStr {
			return Nil, rt.errorf(ErrType, "str: argument not a string")
		}
		b.WriteString(rt.strVal(rt.car(a)))
	}
	return rt.makeStr(b.String()), nil
}

// (str-len str) - byte length.
func primStrLen(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 1 || rt.car(args.val()).Tag != TStr {
		return Nil, rt.errorf(ErrType, "str-len: 1st arg is not a string")
	}
	return Int(int64(len(rt.strVal(rt.car(args.val()))))), nil
}

// (pr-str expr)
func primPrStr(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("pr-str", args.val(), 1); err != nil {
		return Nil, err
	}
	return rt.makeStr(rt.prStr(rt.arg(args.val(), 0))), nil
}
