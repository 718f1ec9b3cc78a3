// prim.go
//
// Primitive plumbing. A primitive is a host function plus an argument
// mode: raw primitives (the special forms) receive their argument list
// unevaluated together with the caller's environment; evaluated primitives
// receive a list of values. The mode lives in the primitive table entry,
// so the evaluator never guesses.
package shi

// primFn is the host signature. env and args arrive pre-rooted.
type primFn func(rt *Runtime, env, args handle) (Value, error)

type primDef struct {
	name string
	raw  bool // receives unevaluated arguments
	fn   primFn
}

// applyPrim dispatches a primitive call. Evaluated-mode primitives get
// their arguments evaluated here unless the caller (the apply primitive)
// already did.
func (rt *Runtime) applyPrim(envv, fnv, argsv Value, doEval bool) (Value, error) {
	def := &rt.prims[rt.heap[fnv.Addr].prim]

	f := rt.newFrame()
	defer f.end()
	env, args := f.slot(envv), f.slot(argsv)

	if !def.raw && doEval {
		eargs, err := rt.evalList(env.val(), args.val())
		if err != nil {
			return Nil, err
		}
		args.set(eargs)
	}
	return def.fn(rt, env, args)
}

// addPrimitive interns the name and binds a primitive value in env.
func (rt *Runtime) addPrimitive(envv Value, name string, raw bool, fn primFn) {
	rt.prims = append(rt.prims, primDef{name: name, raw: raw, fn: fn})
	idx := len(rt.prims) - 1

	f := rt.newFrame()
	defer f.end()
	env := f.slot(envv)
	sym := f.slot(rt.intern(name))
	prim := f.slot(rt.makePrimitive(idx))
	// Ignoring the error: symbols always hash.
	_ = rt.envSet(env.val(), sym.val(), prim.val())
}

// --- shared argument helpers -------------------------------------------

// arg returns the nth element (0-based) of a proper list.
func (rt *Runtime) arg(list Value, n int) Value {
	for i := 0; i < n; i++ {
		list = rt.cdr(list)
	}
	return rt.car(list)
}

func (rt *Runtime) wantArgs(name string, args Value, n int) error {
	if rt.length(args) != n {
		return rt.errorf(ErrArity, "%s: expected exactly %d args", name, n)
	}
	return nil
}
