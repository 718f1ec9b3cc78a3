// builtin_obj.go
//
// Object primitives. obj-get reads only the receiver's own table; the (:)
// operator is the prototype-walking lookup the reader's obj:key sugar
// expands to.
package shi

// (obj proto props) ; nil|obj -> alist -> obj
func primObj(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj", args.val(), 2); err != nil {
		return Nil, err
	}
	proto := rt.arg(args.val(), 0)
	props := rt.arg(args.val(), 1)
	if proto.Tag != TObj && proto.Tag != TNil {
		return Nil, rt.errorf(ErrType, "obj: given non object or nil as prototype")
	}
	if props.Tag != TCell && props.Tag != TNil {
		return Nil, rt.errorf(ErrType, "obj: given non alist as properties")
	}
	for i := props; i.Tag != TNil; i = rt.cdr(i) {
		if i.Tag != TCell || rt.car(i).Tag != TCell {
			return Nil, rt.errorf(ErrType, "obj: given non alist as properties")
		}
		if rt.car(rt.car(i)).Tag != TSym {
			return Nil, rt.errorf(ErrType, "obj: given non symbol as property key")
		}
	}
	return rt.makeObjAlist(proto, props)
}

// (obj-get obj key) - own table only; unbound key is an error.
func primObjGet(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj-get", args.val(), 2); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	k := rt.arg(args.val(), 1)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj-get: expected 1st argument to be object")
	}
	if !objValidKey(k) {
		return Nil, rt.errorf(ErrType, "obj-get: expected 2nd argument to be valid object key")
	}
	pair, ok, err := rt.objGet(o, k)
	if err != nil {
		return Nil, err
	}
	if !ok {
		return Nil, rt.errorf(ErrUnbound, "obj-get: unbound key: %s", rt.prStr(k))
	}
	return rt.cdr(pair), nil
}

// (: obj key) - prototype-walking lookup.
func primObjFind(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs(":", args.val(), 2); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	k := rt.arg(args.val(), 1)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, ": expected 1st argument to be object")
	}
	if !objValidKey(k) {
		return Nil, rt.errorf(ErrType, ": expected 2nd argument to be valid object key")
	}
	pair, ok, err := rt.objFind(o, k)
	if err != nil {
		return Nil, err
	}
	if !ok {
		return Nil, rt.errorf(ErrUnbound, ": unbound key: %s", rt.prStr(k))
	}
	return rt.cdr(pair), nil
}

// (obj-set obj key val)
func primObjSet(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj-set", args.val(), 3); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	k := rt.arg(args.val(), 1)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj-set: expected 1st argument to be object")
	}
	if !objValidKey(k) {
		return Nil, rt.errorf(ErrType, "obj-set: expected 2nd argument to be valid object key")
	}
	f := rt.newFrame()
	defer f.end()
	obj := f.slot(o)
	if err := rt.objSet(o, k, rt.arg(args.val(), 2)); err != nil {
		return Nil, err
	}
	return obj.val(), nil
}

// (obj-del obj key)
func primObjDel(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj-del", args.val(), 2); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	k := rt.arg(args.val(), 1)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj-del: expected 1st argument to be object")
	}
	if !objValidKey(k) {
		return Nil, rt.errorf(ErrType, "obj-del: expected 2nd argument to be valid object key")
	}
	if err := rt.objDel(o, k); err != nil {
		return Nil, err
	}
	return o, nil
}

// (obj-proto obj)
func primObjProto(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj-proto", args.val(), 1); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj-proto: expected 1st argument to be object")
	}
	return rt.heap[o.Addr].proto, nil
}

// (obj-proto-set! obj proto)
func primObjProtoSet(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj-proto-set!", args.val(), 2); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	p := rt.arg(args.val(), 1)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj-proto-set!: expected 1st argument to be object")
	}
	if p.Tag != TObj && p.Tag != TNil {
		return Nil, rt.errorf(ErrType, "obj-proto-set!: expected 2nd argument to be object or nil")
	}
	rt.heap[o.Addr].proto = p
	return o, nil
}

// (obj->alist obj) - the receiver's own entries, in reverse bucket order.
func primObjToAlist(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("obj->alist", args.val(), 1); err != nil {
		return Nil, err
	}
	o := rt.arg(args.val(), 0)
	if o.Tag != TObj {
		return Nil, rt.errorf(ErrType, "obj->alist: expected 1st argument to be object")
	}

	f := rt.newFrame()
	defer f.end()
	obj := f.slot(o)
	alist := f.slot(Nil)
	bucket := f.slot(Nil)

	for i := 0; i < objBuckets; i++ {
		bucket.set(rt.heap[obj.val().Addr].props[i])
		for bucket.val().Tag != TNil {
			alist.set(rt.cons(rt.car(bucket.val()), alist.val()))
			bucket.set(rt.cdr(bucket.val()))
		}
	}
	return alist.val(), nil
}
