// builtin_error.go
//
// The user-facing error surface. trap-error consumes one slot of the
// bounded rescue stack: overflowing it is fatal and uncatchable, as is
// memory exhaustion.
package shi

// maxRescueDepth bounds nested trap-error frames.
const maxRescueDepth = 25

// (error message)
func primError(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("error", args.val(), 1); err != nil {
		return Nil, err
	}
	s := rt.arg(args.val(), 0)
	if s.Tag != TStr {
		return Nil, rt.errorf(ErrType, "error: 1st arg is not a string")
	}
	return Nil, rt.errorf(ErrUser, "%s", rt.strVal(s))
}

// (trap-error fn error-fn) - evaluates (fn); on a recoverable error, binds
// the message as a string and evaluates (error-fn message).
func primTrapError(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("trap-error", args.val(), 2); err != nil {
		return Nil, err
	}
	fnv := rt.arg(args.val(), 0)
	handlerv := rt.arg(args.val(), 1)
	if fnv.Tag != TFun || handlerv.Tag != TFun {
		return Nil, rt.errorf(ErrType, "trap-error: both args must be functions")
	}

	if rt.rescueDepth >= maxRescueDepth {
		return Nil, rt.fatalf("Max error depth reached. Check for nested `trap-error` calls.")
	}

	f := rt.newFrame()
	defer f.end()
	handler := f.slot(handlerv)

	rt.rescueDepth++
	v, err := rt.applyFunc(fnv, Nil, true)
	rt.rescueDepth--
	if err == nil {
		return v, nil
	}
	if IsFatal(err) {
		return Nil, err
	}

	msg := f.slot(rt.makeStr(err.Error()))
	margs := f.slot(rt.cons(msg.val(), Nil))
	return rt.applyFunc(handler.val(), margs.val(), true)
}
