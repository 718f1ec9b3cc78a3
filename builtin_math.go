// builtin_math.go
package shi

// (+ <integer> ...)
func primPlus(rt *Runtime, env, args handle) (Value, error) {
	var sum int64
	for a := args.val(); a.Tag != TNil; a = rt.cdr(a) {
		if rt.car(a).Tag != TInt {
			return Nil, rt.errorf(ErrType, "+ takes only numbers")
		}
		sum += rt.car(a).Num
	}
	return Int(sum), nil
}

// (- <integer> ...) - one argument negates.
func primMinus(rt *Runtime, env, args handle) (Value, error) {
	list := args.val()
	for a := list; a.Tag != TNil; a = rt.cdr(a) {
		if rt.car(a).Tag != TInt {
			return Nil, rt.errorf(ErrType, "- takes only numbers")
		}
	}
	if list.Tag == TNil {
		return Nil, rt.errorf(ErrArity, "- takes at least 1 argument")
	}
	if rt.cdr(list).Tag == TNil {
		return Int(-rt.car(list).Num), nil
	}
	r := rt.car(list).Num
	for a := rt.cdr(list); a.Tag != TNil; a = rt.cdr(a) {
		r -= rt.car(a).Num
	}
	return Int(r), nil
}

// (< <integer> <integer>)
func primLt(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("<", args.val(), 2); err != nil {
		return Nil, err
	}
	x := rt.arg(args.val(), 0)
	y := rt.arg(args.val(), 1)
	if x.Tag != TInt || y.Tag != TInt {
		return Nil, rt.errorf(ErrType, "< takes only numbers")
	}
	if x.Num < y.Num {
		return True, nil
	}
	return Nil, nil
}

// (= <integer> <integer>)
func primNumEq(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("=", args.val(), 2); err != nil {
		return Nil, err
	}
	x := rt.arg(args.val(), 0)
	y := rt.arg(args.val(), 1)
	if x.Tag != TInt || y.Tag != TInt {
		return Nil, rt.errorf(ErrType, "= only takes numbers")
	}
	if x.Num == y.Num {
		return True, nil
	}
	return Nil, nil
}

// (rand <integer>) - uniform in [0, n).
func primRand(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("rand", args.val(), 1); err != nil {
		return Nil, err
	}
	x := rt.arg(args.val(), 0)
	if x.Tag != TInt {
		return Nil, rt.errorf(ErrType, "rand: 1st arg is not an int")
	}
	if x.Num <= 0 {
		return Nil, rt.errorf(ErrType, "rand: bound must be positive")
	}
	return Int(rt.rng.Int63n(x.Num)), nil
}
