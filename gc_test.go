package shi

import "testing"

// gcPrograms exercise allocation-heavy paths with results that must not
// depend on collector timing.
var gcPrograms = []struct {
	src  string
	want string
}{
	{"(+ 1 2 3)", "6"},
	{"(cons 1 (cons 2 ()))", "(1 2)"},
	{"((fn (a b) (cons b a)) 1 2)", "(2 . 1)"},
	{"(do (def l (cons 1 (cons 2 ()))) (car (cdr l)))", "2"},
	{`(str "a" "b" "c")`, `"abc"`},
	{"(do (def o (obj nil ())) (obj-set o 'k 5) (obj-get o 'k))", "5"},
	{`(trap-error (fn () (error "x")) (fn (m) m))`, `"x"`},
	{"(do (def f (fn (n) (if (< n 1) 0 (+ n (f (- n 1)))))) (f 10))", "55"},
}

// GC transparency: SHI_ALWAYS_GC semantics (collect before every
// allocation) must not change program results.
func TestAlwaysGCTransparency(t *testing.T) {
	for _, p := range gcPrograms {
		plain := testRuntime(t)
		torture := tortureRuntime(t)
		v1 := mustEval(t, plain, p.src)
		v2 := mustEval(t, torture, p.src)
		s1, s2 := plain.prStr(v1), torture.prStr(v2)
		if s1 != p.want || s2 != p.want {
			t.Fatalf("program %q: want %q, plain %q, always-gc %q", p.src, p.want, s1, s2)
		}
	}
}

func TestSymbolIdentitySurvivesGC(t *testing.T) {
	rt := tortureRuntime(t)
	wantTrue(t, mustEval(t, rt, "(do (def s 'survivor) (eq? s 'survivor))"))
}

func TestGCReclaimsGarbage(t *testing.T) {
	rt := NewRuntime(Config{HeapSize: 256 << 10, HistoryFile: "/dev/null"}, []string{"shi"})
	// Churn far more than one semispace of cells; the collector must keep
	// usage under capacity throughout.
	mustEval(t, rt, `
		(do (def i 0)
		    (while (< i 5000)
		      (cons 1 (cons 2 (cons 3 ())))
		      (set i (+ i 1)))
		    i)`)
	if rt.used > rt.capacity {
		t.Fatalf("used %d exceeds capacity %d", rt.used, rt.capacity)
	}
}

func TestGCPreservesReachableStructure(t *testing.T) {
	rt := NewRuntime(Config{HeapSize: 128 << 10, HistoryFile: "/dev/null"}, []string{"shi"})
	mustEval(t, rt, "(def keep (cons 10 (cons 20 (cons 30 ()))))")
	// Allocate enough garbage to force several collections.
	mustEval(t, rt, `
		(do (def i 0)
		    (while (< i 3000)
		      (cons i i)
		      (set i (+ i 1))))`)
	wantPr(t, rt, mustEval(t, rt, "keep"), "(10 20 30)")
	wantInt(t, mustEval(t, rt, "(car (cdr keep))"), 20)
}

func TestMemoryExhaustedIsFatal(t *testing.T) {
	rt := NewRuntime(Config{HeapSize: 64 << 10, HistoryFile: "/dev/null"}, []string{"shi"})
	_, err := rt.EvalString(`
		(do (def l ())
		    (def i 0)
		    (while (< i 1000000)
		      (set l (cons i l))
		      (set i (+ i 1))))`)
	if err == nil {
		t.Fatal("want memory exhaustion, got none")
	}
	if !IsFatal(err) {
		t.Fatalf("memory exhaustion must be fatal, got %v", err)
	}
}

func TestTrapErrorCannotCatchFatal(t *testing.T) {
	rt := NewRuntime(Config{HeapSize: 64 << 10, HistoryFile: "/dev/null"}, []string{"shi"})
	_, err := rt.EvalString(`
		(trap-error
		  (fn ()
		    (do (def l ())
		        (def i 0)
		        (while (< i 1000000)
		          (set l (cons i l))
		          (set i (+ i 1)))))
		  (fn (m) m))`)
	if err == nil || !IsFatal(err) {
		t.Fatalf("fatal error must pass through trap-error, got %v", err)
	}
}

func TestUsedAccountingAfterGC(t *testing.T) {
	rt := testRuntime(t)
	mustEval(t, rt, "(def anchor (cons 1 2))")
	rt.gc()
	total := 0
	for i := range rt.heap {
		total += rt.heap[i].size
	}
	if rt.used != total {
		t.Fatalf("used %d does not match accounted node sizes %d", rt.used, total)
	}
	wantPr(t, rt, mustEval(t, rt, "anchor"), "(1 . 2)")
}

func TestForwardIdempotent(t *testing.T) {
	rt := testRuntime(t)
	f := rt.newFrame()
	defer f.end()
	a := f.slot(rt.cons(Int(1), Int(2)))
	b := f.slot(a.val()) // second root to the same cell
	rt.gc()
	if a.val().Addr != b.val().Addr {
		t.Fatalf("shared cell split during collection: %d vs %d", a.val().Addr, b.val().Addr)
	}
	wantPr(t, rt, a.val(), "(1 . 2)")
}
