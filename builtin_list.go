// builtin_list.go
package shi

// (cons expr expr)
func primCons(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("cons", args.val(), 2); err != nil {
		return Nil, err
	}
	return rt.cons(rt.arg(args.val(), 0), rt.arg(args.val(), 1)), nil
}

// (car <cell>)
func primCar(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 1 || rt.car(args.val()).Tag != TCell {
		return Nil, rt.errorf(ErrType, "Malformed car")
	}
	return rt.car(rt.car(args.val())), nil
}

// (cdr <cell>)
func primCdr(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 1 || rt.car(args.val()).Tag != TCell {
		return Nil, rt.errorf(ErrType, "Malformed cdr")
	}
	return rt.cdr(rt.car(args.val())), nil
}

// (set-car! <cell> expr)
func primSetCar(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 2 || rt.car(args.val()).Tag != TCell {
		return Nil, rt.errorf(ErrType, "set-car!: invalid arguments")
	}
	cell := rt.car(args.val())
	rt.setCar(cell, rt.arg(args.val(), 1))
	return cell, nil
}
