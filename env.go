// env.go
//
// Lexical environments are plain objects: the prototype link is the
// enclosing scope, bindings are properties keyed by symbol. Lookup walks
// the chain; definition writes the innermost frame.
package shi

// envSet binds sym to val in the given frame.
func (rt *Runtime) envSet(env, sym, val Value) error {
	return rt.objSet(env, sym, val)
}

// envGet returns the (sym . val) cell of the nearest binding.
func (rt *Runtime) envGet(env, sym Value) (Value, bool) {
	pair, ok, err := rt.objFind(env, sym)
	if err != nil {
		return Nil, false
	}
	return pair, ok
}

// pushEnv builds a child environment binding formals to actuals.
//
//   - A lone symbol captures the whole value list.
//   - A proper list binds pairwise; a dotted symbol tail captures the rest.
//   - Running out of values before the required formals is an error.
//   - Extra values beyond a fixed formal list are dropped.
func (rt *Runtime) pushEnv(envv, varsv, valsv Value) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	env, vars, vals := f.slot(envv), f.slot(varsv), f.slot(valsv)
	bound := f.slot(Nil)

	if vars.tag() == TSym {
		// (fn xs body ...)
		bound.set(rt.acons(vars.val(), vals.val(), bound.val()))
		return rt.makeObjAlist(env.val(), bound.val())
	}

	// (fn (x y) body ...) and (fn (x . rest) body ...)
	for vars.tag() == TCell {
		if vals.tag() != TCell {
			return Nil, rt.errorf(ErrArity,
				"Cannot apply function: number of argument does not match")
		}
		bound.set(rt.acons(rt.car(vars.val()), rt.car(vals.val()), bound.val()))
		vars.set(rt.cdr(vars.val()))
		vals.set(rt.cdr(vals.val()))
	}
	if vars.tag() != TNil {
		bound.set(rt.acons(vars.val(), vals.val(), bound.val()))
	}
	return rt.makeObjAlist(env.val(), bound.val())
}
