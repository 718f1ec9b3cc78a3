// object.go
//
// The object model. An object is a prototype link plus a fixed-width hash
// table whose buckets are association lists of (key . value) cells. The
// same structure backs user records and lexical environments (env.go).
package shi

import "strconv"

// makeObj allocates an empty object with the given prototype (TObj or Nil).
func (rt *Runtime) makeObj(protov Value) Value {
	f := rt.newFrame()
	defer f.end()
	proto := f.slot(protov)

	addr := rt.alloc(TObj, (objBuckets+1)*wordSize)
	n := &rt.heap[addr]
	n.proto = proto.val()
	n.props = make([]Value, objBuckets)
	for i := range n.props {
		n.props[i] = Nil
	}
	return Value{Tag: TObj, Addr: addr}
}

// makeObjAlist allocates an object and populates it from an association
// list of (key . value) pairs.
func (rt *Runtime) makeObjAlist(protov, propsv Value) (Value, error) {
	f := rt.newFrame()
	defer f.end()
	props := f.slot(propsv)
	obj := f.slot(rt.makeObj(protov))

	for props.val().Tag != TNil {
		entry := rt.car(props.val())
		if err := rt.objSet(obj.val(), rt.car(entry), rt.cdr(entry)); err != nil {
			return Nil, err
		}
		props.set(rt.cdr(props.val()))
	}
	return obj.val(), nil
}

// objValidKey: property keys are symbols, strings, or integers.
func objValidKey(k Value) bool {
	return k.Tag == TSym || k.Tag == TStr || k.Tag == TInt
}

// objHash buckets a key by the Jenkins one-at-a-time hash of its printable
// form. The mix is stable for the lifetime of the run.
func (rt *Runtime) objHash(key Value) (int, error) {
	var s string
	switch key.Tag {
	case TStr, TSym:
		s = rt.strVal(key)
	case TInt:
		s = strconv.FormatInt(key.Num, 10)
	default:
		return 0, rt.errorf(ErrType, "obj-hash: key given is not sym, str, or int")
	}

	var h uint64
	for i := 0; i < len(s); i++ {
		h += uint64(s[i])
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return int(h % objBuckets), nil
}

// objGetPair returns the (key . value) cell for k in obj's own table, with
// a precomputed bucket index. No prototype walk.
func (rt *Runtime) objGetPair(obj Value, h int, k Value) (Value, bool) {
	for pair := rt.heap[obj.Addr].props[h]; pair.Tag != TNil; pair = rt.cdr(pair) {
		entry := rt.car(pair)
		if rt.valueEq(k, rt.car(entry)) {
			return entry, true
		}
	}
	return Nil, false
}

// objGet returns the (key . value) cell for k in obj's own table.
func (rt *Runtime) objGet(obj, k Value) (Value, bool, error) {
	h, err := rt.objHash(k)
	if err != nil {
		return Nil, false, err
	}
	pair, ok := rt.objGetPair(obj, h, k)
	return pair, ok, nil
}

// objFind returns the (key . value) cell for k in obj or any of its
// prototypes.
func (rt *Runtime) objFind(obj, k Value) (Value, bool, error) {
	h, err := rt.objHash(k)
	if err != nil {
		return Nil, false, err
	}
	for o := obj; o.Tag != TNil; o = rt.heap[o.Addr].proto {
		if pair, ok := rt.objGetPair(o, h, k); ok {
			return pair, true, nil
		}
	}
	return Nil, false, nil
}

// objSet writes key to value in obj's own table, creating or overwriting
// in place. The prototype chain is never consulted.
func (rt *Runtime) objSet(objv, keyv, valv Value) error {
	h, err := rt.objHash(keyv)
	if err != nil {
		return err
	}
	if pair, ok := rt.objGetPair(objv, h, keyv); ok {
		rt.setCdr(pair, valv)
		return nil
	}

	f := rt.newFrame()
	defer f.end()
	obj, key, val := f.slot(objv), f.slot(keyv), f.slot(valv)

	pair := f.slot(rt.cons(key.val(), val.val()))
	bucket := rt.cons(pair.val(), rt.heap[obj.val().Addr].props[h])
	rt.heap[obj.val().Addr].props[h] = bucket
	return nil
}

// objDel removes k from obj's own table. Missing keys are a no-op.
func (rt *Runtime) objDel(obj, k Value) error {
	h, err := rt.objHash(k)
	if err != nil {
		return err
	}
	prev := Nil
	for pair := rt.heap[obj.Addr].props[h]; pair.Tag != TNil; pair = rt.cdr(pair) {
		if rt.valueEq(k, rt.car(rt.car(pair))) {
			if prev.Tag == TNil {
				rt.heap[obj.Addr].props[h] = rt.cdr(pair)
			} else {
				rt.setCdr(prev, rt.cdr(pair))
			}
			return nil
		}
		prev = pair
	}
	return nil
}
