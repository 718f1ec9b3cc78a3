// gc.go
//
// Cheney's copying collector. The heap is two semispaces; a collection
// flips them, forwards the roots, then runs the scan loop: every node
// between scan and the end of to-space has been copied but may still hold
// from-space addresses in its fields, so each is rewritten according to its
// tag. A forwarded from-space node becomes a TMoved tombstone holding the
// to-space address, which makes repeated forwards idempotent.
//
// Invariants: the collector never allocates, gcRunning guards reentry, and
// after a cycle `used` equals the accounted size of the copied nodes.
// http://en.wikipedia.org/wiki/Cheney%27s_algorithm
package shi

func (rt *Runtime) gc() {
	if rt.gcRunning {
		panic(&FatalError{Msg: "bug: gc: reentered collector"})
	}
	rt.gcRunning = true

	// Flip: the live arena becomes from-space, copies go to a fresh
	// to-space. Addresses are indices, so "fresh" is an empty arena.
	rt.from = rt.heap
	rt.heap = make([]node, 0, len(rt.from))

	// Forward the roots first. This seeds the scan region.
	rt.forwardRoots()

	// Scan-and-copy loop. forward() appends to rt.heap, growing the region
	// under scan until every reachable node has been visited.
	for scan := 0; scan < len(rt.heap); scan++ {
		switch rt.heap[scan].tag {
		case TInt, TStr, TSym, TPri:
			// No Value-typed fields.
		case TObj:
			v := rt.forward(rt.heap[scan].proto)
			rt.heap[scan].proto = v
			for i := 0; i < objBuckets; i++ {
				b := rt.forward(rt.heap[scan].props[i])
				rt.heap[scan].props[i] = b
			}
		case TCell:
			car := rt.forward(rt.heap[scan].car)
			rt.heap[scan].car = car
			cdr := rt.forward(rt.heap[scan].cdr)
			rt.heap[scan].cdr = cdr
		case TFun, TMac:
			params := rt.forward(rt.heap[scan].params)
			rt.heap[scan].params = params
			body := rt.forward(rt.heap[scan].body)
			rt.heap[scan].body = body
			env := rt.forward(rt.heap[scan].env)
			rt.heap[scan].env = env
		default:
			panic(&FatalError{Msg: "bug: gc: unknown tag in scan loop"})
		}
	}

	// Reclaim from-space.
	rt.from = nil
	oldUsed := rt.used
	used := 0
	for i := range rt.heap {
		used += rt.heap[i].size
	}
	rt.used = used
	if rt.debugGC {
		rt.log.debugf("GC: %d bytes out of %d bytes copied", rt.used, oldUsed)
	}
	rt.gcRunning = false
}

// forward moves one node from from-space to to-space and returns the
// updated reference. Non-heap values pass through; tombstones resolve to
// their recorded address.
func (rt *Runtime) forward(v Value) Value {
	if !heapManaged(v) {
		return v
	}
	n := &rt.from[v.Addr]
	if n.tag == TMoved {
		return Value{Tag: v.Tag, Num: v.Num, Addr: n.fwd}
	}
	rt.heap = append(rt.heap, *n)
	newAddr := len(rt.heap) - 1
	n.tag = TMoved
	n.fwd = newAddr
	return Value{Tag: v.Tag, Num: v.Num, Addr: newAddr}
}

// forwardRoots rewrites every root slot: the symbol list first, then the
// root registry, then the values retained by registered event watchers.
func (rt *Runtime) forwardRoots() {
	rt.symbols = rt.forward(rt.symbols)
	for i := range rt.roots {
		rt.roots[i] = rt.forward(rt.roots[i])
	}
	if rt.loop != nil {
		for _, w := range rt.loop.watchers {
			w.env = rt.forward(w.env)
			w.callback = rt.forward(w.callback)
		}
	}
}
