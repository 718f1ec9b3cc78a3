package shi

import "testing"

func TestDefBindsInnermost(t *testing.T) {
	rt := testRuntime(t)
	mustEval(t, rt, "(def x 1)")
	// A def inside a function body lands in the call frame, not outside.
	wantInt(t, mustEval(t, rt, "((fn () (do (def x 2) x)))"), 2)
	wantInt(t, mustEval(t, rt, "x"), 1)
}

func TestDefGlobalBindsTopmost(t *testing.T) {
	rt := testRuntime(t)
	mustEval(t, rt, "((fn () ((fn () (def-global deep-var 11)))))")
	wantInt(t, mustEval(t, rt, "deep-var"), 11)
}

func TestSetMutatesNearestBinding(t *testing.T) {
	rt := testRuntime(t)
	mustEval(t, rt, "(def y 1)")
	wantInt(t, mustEval(t, rt, "((fn () (do (set y 5) y)))"), 5)
	wantInt(t, mustEval(t, rt, "y"), 5)

	// Shadowed bindings mutate the shadow only.
	mustEval(t, rt, "(def z 1)")
	wantInt(t, mustEval(t, rt, "((fn (z) (do (set z 9) z)) 2)"), 9)
	wantInt(t, mustEval(t, rt, "z"), 1)
}

func TestLookupInnermostWins(t *testing.T) {
	rt := testRuntime(t)
	mustEval(t, rt, "(def v 'outer)")
	wantPr(t, rt, mustEval(t, rt, "((fn (v) v) 'inner)"), "inner")
	wantPr(t, rt, mustEval(t, rt, "v"), "outer")
}

func TestEnvIsAnObject(t *testing.T) {
	rt := testRuntime(t)
	// Environments expose the object surface: the prototype of a call
	// frame is the enclosing scope.
	mustEval(t, rt, "(def top-env *env*)")
	wantTrue(t, mustEval(t, rt, "((fn () (eq? (obj-proto *env*) top-env)))"))

	v := mustEval(t, rt, "((fn (a) *env*) 7)")
	if v.Tag != TObj {
		t.Fatalf("call frame should be an object, got %#v", v)
	}
	f := rt.newFrame()
	defer f.end()
	env := f.slot(v)
	pair, ok, err := rt.objGet(env.val(), rt.Intern("a"))
	if err != nil || !ok {
		t.Fatalf("formal not bound in call frame: %v", err)
	}
	wantInt(t, rt.cdr(pair), 7)
}

func TestPushEnvArityMismatch(t *testing.T) {
	rt := testRuntime(t)
	// Macros bypass partial application, so underapplication errors.
	mustEval(t, rt, "(def m (macro (a b) a))")
	wantErr(t, rt, "(m 1)", "number of argument does not match")
}
