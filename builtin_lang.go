// builtin_lang.go
//
// Special forms and core language primitives.
package shi

// (quote expr)
func primQuote(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 1 {
		return Nil, rt.errorf(ErrArity, "Malformed quote")
	}
	return rt.car(args.val()), nil
}

// (do body ...)
func primDo(rt *Runtime, env, args handle) (Value, error) {
	return rt.progn(env.val(), args.val())
}

// (if c1 t1 c2 t2 ... else?)
func primIf(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) < 2 {
		return Nil, rt.errorf(ErrArity, "Malformed if")
	}
	for {
		cond, err := rt.eval(env.val(), rt.car(args.val()))
		if err != nil {
			return Nil, err
		}
		if truthy(cond) {
			return rt.eval(env.val(), rt.car(rt.cdr(args.val())))
		}
		rest := rt.cdr(rt.cdr(args.val()))
		if rest.Tag == TNil {
			return Nil, nil
		}
		if rt.cdr(rest).Tag == TNil {
			// Trailing else arm.
			return rt.eval(env.val(), rt.car(rest))
		}
		args.set(rest)
	}
}

// (while cond expr ...)
func primWhile(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) < 2 {
		return Nil, rt.errorf(ErrArity, "Malformed while")
	}
	for {
		cond, err := rt.eval(env.val(), rt.car(args.val()))
		if err != nil {
			return Nil, err
		}
		if !truthy(cond) {
			return Nil, nil
		}
		if _, err := rt.evalList(env.val(), rt.cdr(args.val())); err != nil {
			return Nil, err
		}
	}
}

// handleFunction validates the (params body...) shape shared by fn and
// macro: params is a lone symbol, or a list of symbols with an optional
// dotted symbol tail.
func handleFunction(rt *Runtime, env, args handle, tag Tag) (Value, error) {
	list := args.val()
	if list.Tag != TCell || rt.cdr(list).Tag != TCell {
		return Nil, rt.errorf(ErrType, "Malformed fn or macro")
	}
	params := rt.car(list)
	if !isList(params) && params.Tag != TSym {
		return Nil, rt.errorf(ErrType, "Malformed fn or macro")
	}
	if params.Tag != TSym {
		p := params
		for ; p.Tag == TCell; p = rt.cdr(p) {
			if rt.car(p).Tag != TSym {
				return Nil, rt.errorf(ErrType, "fn|macro: arg list must contain only symbols")
			}
		}
		if p.Tag != TNil && p.Tag != TSym {
			return Nil, rt.errorf(ErrType, "fn|macro: arg list must contain only symbols")
		}
	}
	return rt.makeFunction(tag, env.val(), rt.car(args.val()), rt.cdr(args.val())), nil
}

// (fn (<symbol> ...) expr ...)
func primFnForm(rt *Runtime, env, args handle) (Value, error) {
	return handleFunction(rt, env, args, TFun)
}

// (macro (<symbol> ...) expr ...)
func primMacro(rt *Runtime, env, args handle) (Value, error) {
	return handleFunction(rt, env, args, TMac)
}

// (def <symbol> expr) - binds in the innermost environment.
func primDefForm(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 2 || rt.car(args.val()).Tag != TSym {
		return Nil, rt.errorf(ErrType, "Malformed def")
	}
	f := rt.newFrame()
	defer f.end()
	sym := f.slot(rt.car(args.val()))
	v, err := rt.eval(env.val(), rt.car(rt.cdr(args.val())))
	if err != nil {
		return Nil, err
	}
	value := f.slot(v)
	if err := rt.envSet(env.val(), sym.val(), value.val()); err != nil {
		return Nil, err
	}
	return value.val(), nil
}

// (def-global <symbol> expr) - binds in the topmost environment.
func primDefGlobal(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 2 || rt.car(args.val()).Tag != TSym {
		return Nil, rt.errorf(ErrType, "Malformed def-global")
	}
	f := rt.newFrame()
	defer f.end()
	sym := f.slot(rt.car(args.val()))
	v, err := rt.eval(env.val(), rt.car(rt.cdr(args.val())))
	if err != nil {
		return Nil, err
	}
	value := f.slot(v)
	top := f.slot(env.val())
	for rt.heap[top.val().Addr].proto.Tag != TNil {
		top.set(rt.heap[top.val().Addr].proto)
	}
	if err := rt.envSet(top.val(), sym.val(), value.val()); err != nil {
		return Nil, err
	}
	return value.val(), nil
}

// (set <symbol> expr) mutates the nearest binding;
// (set (: obj key) expr) mutates an object property.
func primSet(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) != 2 {
		return Nil, rt.errorf(ErrType, "Malformed set")
	}

	target := rt.car(args.val())
	if target.Tag == TCell && rt.length(target) == 3 &&
		rt.car(target).Tag == TSym && rt.strVal(rt.car(target))[0] == ':' {
		f := rt.newFrame()
		defer f.end()
		objv, err := rt.eval(env.val(), rt.car(rt.cdr(rt.car(args.val()))))
		if err != nil {
			return Nil, err
		}
		obj := f.slot(objv)
		keyv, err := rt.eval(env.val(), rt.car(rt.cdr(rt.cdr(rt.car(args.val())))))
		if err != nil {
			return Nil, err
		}
		key := f.slot(keyv)
		valv, err := rt.eval(env.val(), rt.car(rt.cdr(args.val())))
		if err != nil {
			return Nil, err
		}
		val := f.slot(valv)

		if obj.tag() != TObj {
			return Nil, rt.errorf(ErrType, "set: (:) 1st arg is not an object")
		}
		if key.tag() != TSym {
			return Nil, rt.errorf(ErrType, "set: (:) 2nd arg is not a symbol")
		}
		if err := rt.objSet(obj.val(), key.val(), val.val()); err != nil {
			return Nil, err
		}
		return obj.val(), nil
	}

	if target.Tag != TSym {
		return Nil, rt.errorf(ErrType, "Malformed set")
	}
	f := rt.newFrame()
	defer f.end()
	pair, ok := rt.envGet(env.val(), target)
	if !ok {
		return Nil, rt.errorf(ErrUnbound, "Unbound variable: %s", rt.strVal(target))
	}
	binding := f.slot(pair)
	v, err := rt.eval(env.val(), rt.car(rt.cdr(args.val())))
	if err != nil {
		return Nil, err
	}
	rt.setCdr(binding.val(), v)
	return v, nil
}

// (eq? expr expr)
func primEq(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("eq?", args.val(), 2); err != nil {
		return Nil, err
	}
	if rt.valueEq(rt.arg(args.val(), 0), rt.arg(args.val(), 1)) {
		return True, nil
	}
	return Nil, nil
}

// (type expr) -> symbol naming the value's kind
func primType(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("type", args.val(), 1); err != nil {
		return Nil, err
	}
	v := rt.arg(args.val(), 0)
	var name string
	switch v.Tag {
	case TTrue:
		name = "true"
	case TNil:
		name = "nil"
	case TInt:
		name = "int"
	case TStr:
		name = "str"
	case TSym:
		name = "sym"
	case TObj:
		name = "obj"
	case TPri:
		name = "prim"
	case TFun:
		name = "fn"
	case TMac:
		name = "macro"
	case TCell:
		cdr := rt.cdr(v)
		if cdr.Tag != TNil && cdr.Tag != TCell {
			name = "cons"
		} else {
			name = "list"
		}
	default:
		return Nil, rt.errorf(ErrType, "type: unknown object type")
	}
	return rt.intern(name), nil
}

// (apply fn args)
func primApply(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("apply", args.val(), 2); err != nil {
		return Nil, err
	}
	fnArgs := rt.arg(args.val(), 1)
	if !isList(fnArgs) {
		return Nil, rt.errorf(ErrType, "apply: 2nd argument is not a list")
	}
	return rt.apply(env.val(), rt.arg(args.val(), 0), fnArgs, false)
}

// (eval expr)
func primEval(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("eval", args.val(), 1); err != nil {
		return Nil, err
	}
	return rt.eval(env.val(), rt.arg(args.val(), 0))
}

// (read-sexp str)
func primReadSexp(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("read-sexp", args.val(), 1); err != nil {
		return Nil, err
	}
	s := rt.arg(args.val(), 0)
	if s.Tag != TStr {
		return Nil, rt.errorf(ErrType, "read-sexp: 1st arg is not a string")
	}
	return rt.readSexp(rt.strVal(s))
}

// (sym str)
func primSym(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("sym", args.val(), 1); err != nil {
		return Nil, err
	}
	s := rt.arg(args.val(), 0)
	if s.Tag != TStr {
		return Nil, rt.errorf(ErrType, "sym: 1st arg is not a string")
	}
	return rt.intern(rt.strVal(s)), nil
}

// (macro-expand expr)
func primMacroExpand(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("macro-expand", args.val(), 1); err != nil {
		return Nil, err
	}
	expanded, _, err := rt.macroexpand(env.val(), rt.arg(args.val(), 0))
	return expanded, err
}

// (gensym) -> fresh uninterned symbol
func primGensym(rt *Runtime, env, args handle) (Value, error) {
	return rt.gensym(), nil
}
