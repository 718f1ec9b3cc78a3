// value.go
//
// The tagged value model. A Value is a small pass-by-value reference: the
// tag discriminates the variant, integers ride inline, and every other
// payload lives in a heap node addressed by index (see heap.go). Because
// the collector relocates nodes, a Value held across an allocating call is
// only safe when registered in a root slot (see roots.go).
package shi

import "strconv"

// Tag enumerates all value variants.
type Tag int

const (
	// Regular values visible from user code.
	TInt Tag = iota + 1
	TStr
	TCell
	TSym
	TObj
	TPri
	TFun
	TMac

	// Intermediary tag only present during GC; the node holds a forwarding
	// address into the new semispace.
	TMoved

	// Constants, never heap-managed.
	TTrue
	TNil

	// Reader-internal sentinels. They must never escape the reader.
	TDot
	TCparen
	TCcurly
)

// Value is the universal runtime carrier.
//
//   - Tag   - discriminant.
//   - Num   - payload for TInt.
//   - Addr  - heap node index for TStr/TSym/TCell/TObj/TPri/TFun/TMac.
//
// TNil, TTrue and the reader sentinels carry no payload.
type Value struct {
	Tag  Tag
	Num  int64
	Addr int
}

// Singletons.
var (
	Nil    = Value{Tag: TNil}
	True   = Value{Tag: TTrue}
	Dot    = Value{Tag: TDot}
	Cparen = Value{Tag: TCparen}
	Ccurly = Value{Tag: TCcurly}
)

// heapManaged reports whether v's payload lives in the semispace arena.
func heapManaged(v Value) bool {
	switch v.Tag {
	case TStr, TSym, TCell, TObj, TPri, TFun, TMac:
		return true
	}
	return false
}

// Int wraps a machine integer. Integers are immediate and never allocate.
func Int(n int64) Value { return Value{Tag: TInt, Num: n} }

func isList(v Value) bool { return v.Tag == TNil || v.Tag == TCell }

// truthy: everything non-Nil is true.
func truthy(v Value) bool { return v.Tag != TNil }

// --- constructors (all may trigger GC; arguments are rooted internally) ---

func (rt *Runtime) makeStr(s string) Value {
	addr := rt.alloc(TStr, len(s)+1)
	rt.heap[addr].name = s
	return Value{Tag: TStr, Addr: addr}
}

func (rt *Runtime) makeSymbol(name string) Value {
	addr := rt.alloc(TSym, len(name)+1)
	rt.heap[addr].name = name
	return Value{Tag: TSym, Addr: addr}
}

func (rt *Runtime) makePrimitive(idx int) Value {
	addr := rt.alloc(TPri, wordSize)
	rt.heap[addr].prim = idx
	return Value{Tag: TPri, Addr: addr}
}

// makeFunction builds a closure (TFun) or macro (TMac).
func (rt *Runtime) makeFunction(tag Tag, envv, paramsv, bodyv Value) Value {
	f := rt.newFrame()
	defer f.end()
	env, params, body := f.slot(envv), f.slot(paramsv), f.slot(bodyv)

	addr := rt.alloc(tag, 3*wordSize)
	n := &rt.heap[addr]
	n.params = params.val()
	n.body = body.val()
	n.env = env.val()
	return Value{Tag: tag, Addr: addr}
}

// cons allocates a cell.
func (rt *Runtime) cons(carv, cdrv Value) Value {
	f := rt.newFrame()
	defer f.end()
	car, cdr := f.slot(carv), f.slot(cdrv)

	addr := rt.alloc(TCell, 2*wordSize)
	n := &rt.heap[addr]
	n.car = car.val()
	n.cdr = cdr.val()
	return Value{Tag: TCell, Addr: addr}
}

// acons returns ((x . y) . a).
func (rt *Runtime) acons(xv, yv, av Value) Value {
	f := rt.newFrame()
	defer f.end()
	a := f.slot(av)
	cell := f.slot(rt.cons(xv, yv))
	return rt.cons(cell.val(), a.val())
}

// --- cell accessors (read-only; no allocation) ---

func (rt *Runtime) car(v Value) Value { return rt.heap[v.Addr].car }
func (rt *Runtime) cdr(v Value) Value { return rt.heap[v.Addr].cdr }

func (rt *Runtime) setCar(cell, v Value) { rt.heap[cell.Addr].car = v }
func (rt *Runtime) setCdr(cell, v Value) { rt.heap[cell.Addr].cdr = v }

// strVal returns the byte payload of a TStr or TSym node.
func (rt *Runtime) strVal(v Value) string { return rt.heap[v.Addr].name }

// length returns the number of cells before Nil, or -1 for improper lists.
func (rt *Runtime) length(list Value) int {
	n := 0
	for ; list.Tag == TCell; list = rt.cdr(list) {
		n++
	}
	if list.Tag == TNil {
		return n
	}
	return -1
}

// reverse destructively reverses a proper list.
func (rt *Runtime) reverse(p Value) Value {
	ret := Nil
	for p.Tag != TNil {
		head := p
		p = rt.cdr(p)
		rt.setCdr(head, ret)
		ret = head
	}
	return ret
}

// identical is pointer identity: same immediate, or same heap node.
func identical(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	if heapManaged(a) {
		return a.Addr == b.Addr
	}
	return a.Num == b.Num
}

// valueEq implements eq? and object key equality: symbols by identity,
// integers by value, strings by bytes, everything else by identity.
func (rt *Runtime) valueEq(a, b Value) bool {
	switch {
	case a.Tag == TSym && b.Tag == TSym:
		return a.Addr == b.Addr
	case a.Tag == TInt && b.Tag == TInt:
		return a.Num == b.Num
	case a.Tag == TStr && b.Tag == TStr:
		return rt.strVal(a) == rt.strVal(b)
	}
	return identical(a, b)
}

// --- symbol interning ---

// intern returns the existing symbol with the given name, or allocates one
// and prepends it to the symbol list. The list head is a dedicated GC root.
func (rt *Runtime) intern(name string) Value {
	for p := rt.symbols; p.Tag == TCell; p = rt.cdr(p) {
		s := rt.car(p)
		if rt.strVal(s) == name {
			return s
		}
	}
	sym := rt.makeSymbol(name)
	rt.symbols = rt.cons(sym, rt.symbols)
	return rt.car(rt.symbols)
}

// gensym returns a fresh uninterned symbol, distinct from every interned or
// previously generated one.
func (rt *Runtime) gensym() Value {
	rt.gensymCount++
	return rt.makeSymbol("G__" + strconv.Itoa(rt.gensymCount))
}
