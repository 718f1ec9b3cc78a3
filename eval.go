// eval.go
//
// The evaluator. Atoms are self-evaluating, symbols resolve through the
// environment chain, and cells dispatch as application forms: macros
// expand first (single pass), then the head evaluates to a primitive or a
// closure. Primitives carry a raw/evaluated argument mode (see prim.go);
// closures evaluate arguments left to right and run their body as a
// sequence in a fresh environment frame.
//
// Every step returns (Value, error). Errors unwind to the nearest
// trap-error rescue frame; fatal conditions travel as *FatalError and
// refuse rescue.
package shi

// eval evaluates one expression in the given environment.
func (rt *Runtime) eval(envv, exprv Value) (Value, error) {
	switch exprv.Tag {
	case TInt, TStr, TObj, TPri, TFun, TMac, TTrue, TNil:
		return exprv, nil
	case TSym:
		if identical(exprv, rt.intern("*env*")) {
			return envv, nil
		}
		pair, ok := rt.envGet(envv, exprv)
		if !ok {
			return Nil, rt.errorf(ErrUnbound, "eval: undefined symbol: %s", rt.strVal(exprv))
		}
		return rt.cdr(pair), nil
	case TCell:
		f := rt.newFrame()
		defer f.end()
		env, expr := f.slot(envv), f.slot(exprv)

		expanded, changed, err := rt.macroexpand(env.val(), expr.val())
		if err != nil {
			return Nil, err
		}
		if changed {
			return rt.eval(env.val(), expanded)
		}
		fn := f.slot(Nil)
		fnv, err := rt.eval(env.val(), rt.car(expr.val()))
		if err != nil {
			return Nil, err
		}
		fn.set(fnv)
		if fn.tag() != TPri && fn.tag() != TFun {
			return Nil, rt.errorf(ErrType, "The head of a list must be a function")
		}
		return rt.apply(env.val(), fn.val(), rt.cdr(expr.val()), true)
	}
	return Nil, rt.fatalf("bug: eval: unknown tag type")
}

// progn evaluates a sequence and returns the last value (Nil when empty).
func (rt *Runtime) progn(envv, listv Value) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	env, lp := f.slot(envv), f.slot(listv)
	r := f.slot(Nil)

	for lp.val().Tag != TNil {
		v, err := rt.eval(env.val(), rt.car(lp.val()))
		if err != nil {
			return Nil, err
		}
		r.set(v)
		lp.set(rt.cdr(lp.val()))
	}
	return r.val(), nil
}

// evalList evaluates every element and returns the results as a new list.
func (rt *Runtime) evalList(envv, listv Value) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	env, lp := f.slot(envv), f.slot(listv)
	head := f.slot(Nil)

	for lp.val().Tag != TNil {
		v, err := rt.eval(env.val(), rt.car(lp.val()))
		if err != nil {
			return Nil, err
		}
		head.set(rt.cons(v, head.val()))
		lp.set(rt.cdr(lp.val()))
	}
	return rt.reverse(head.val()), nil
}

// apply invokes fn on args. Closure arguments are evaluated first when
// doEval is set (the apply primitive passes pre-evaluated values).
func (rt *Runtime) apply(envv, fnv, argsv Value, doEval bool) (Value, error) {
	if !isList(argsv) {
		return Nil, rt.errorf(ErrType, "apply: argument must be a list")
	}
	switch fnv.Tag {
	case TPri:
		return rt.applyPrim(envv, fnv, argsv, doEval)
	case TFun:
		f := rt.newFrame()
		defer f.end()
		env, fn, args := f.slot(envv), f.slot(fnv), f.slot(argsv)
		if doEval {
			eargs, err := rt.evalList(env.val(), args.val())
			if err != nil {
				return Nil, err
			}
			args.set(eargs)
		}
		return rt.applyFunc(fn.val(), args.val(), true)
	}
	return Nil, rt.errorf(ErrType, "apply: not supported")
}

// applyFunc binds a closure's (or macro's) formals and runs its body.
// allowPartial enables closure partial application: fewer actuals than
// required formals yield a new closure capturing the bound prefix.
func (rt *Runtime) applyFunc(fnv, argsv Value, allowPartial bool) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	fn, args := f.slot(fnv), f.slot(argsv)

	params := rt.heap[fnv.Addr].params
	if allowPartial && fnv.Tag == TFun && params.Tag == TCell {
		required := 0
		for p := params; p.Tag == TCell; p = rt.cdr(p) {
			required++
		}
		supplied := rt.length(argsv)
		if supplied >= 0 && supplied < required {
			return rt.partialApply(fn.val(), args.val(), supplied)
		}
	}

	newenv := f.slot(Nil)
	env, err := rt.pushEnv(rt.heap[fn.val().Addr].env, rt.heap[fn.val().Addr].params, args.val())
	if err != nil {
		return Nil, err
	}
	newenv.set(env)
	return rt.progn(newenv.val(), rt.heap[fn.val().Addr].body)
}

// partialApply builds the curried closure: the supplied prefix binds in a
// fresh environment over the closure's own, and the remaining formals
// become the new parameter list.
func (rt *Runtime) partialApply(fnv, argsv Value, supplied int) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	fn, args := f.slot(fnv), f.slot(argsv)

	// Split the formals at the supplied count.
	prefix := f.slot(Nil)
	rest := f.slot(rt.heap[fnv.Addr].params)
	for i := 0; i < supplied; i++ {
		prefix.set(rt.cons(rt.car(rest.val()), prefix.val()))
		rest.set(rt.cdr(rest.val()))
	}
	prefix.set(rt.reverse(prefix.val()))

	newenv := f.slot(Nil)
	env, err := rt.pushEnv(rt.heap[fn.val().Addr].env, prefix.val(), args.val())
	if err != nil {
		return Nil, err
	}
	newenv.set(env)
	return rt.makeFunction(TFun, newenv.val(), rest.val(), rt.heap[fn.val().Addr].body), nil
}

// macroexpand expands a top-level macro application once. The head may be
// a symbol bound to a macro or a macro value itself.
func (rt *Runtime) macroexpand(envv, valv Value) (Value, bool, error) {
	if valv.Tag != TCell {
		return valv, false, nil
	}
	head := rt.car(valv)
	if head.Tag != TSym && head.Tag != TMac {
		return valv, false, nil
	}

	f := rt.newFrame()
	defer f.end()
	env, val := f.slot(envv), f.slot(valv)
	macro := f.slot(Nil)

	if head.Tag == TMac {
		macro.set(head)
	} else {
		pair, ok := rt.envGet(env.val(), head)
		if !ok || rt.cdr(pair).Tag != TMac {
			return valv, false, nil
		}
		macro.set(rt.cdr(pair))
	}

	expanded, err := rt.applyFunc(macro.val(), rt.cdr(val.val()), false)
	if err != nil {
		return Nil, false, err
	}
	return expanded, true, nil
}
