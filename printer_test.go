package shi

import (
	"strings"
	"testing"
)

func TestPrStrForms(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustEval(t, rt, "42"), "42")
	wantPr(t, rt, mustEval(t, rt, "-42"), "-42")
	wantPr(t, rt, mustEval(t, rt, "t"), "t")
	wantPr(t, rt, mustEval(t, rt, "nil"), "()")
	wantPr(t, rt, mustEval(t, rt, "'a-sym"), "a-sym")
	wantPr(t, rt, mustEval(t, rt, "'(1 (2 3) . 4)"), "(1 (2 3) . 4)")
	wantPr(t, rt, mustEval(t, rt, "(fn (x) x)"), "<function>")
	wantPr(t, rt, mustEval(t, rt, "(macro (x) x)"), "<macro>")
	wantPr(t, rt, mustEval(t, rt, "car"), "<primitive>")
}

func TestPrStrStringEscapes(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustEval(t, rt, `"plain"`), `"plain"`)
	wantPr(t, rt, mustEval(t, rt, `"a\nb"`), `"a\nb"`)
	wantPr(t, rt, mustEval(t, rt, `"tab\there"`), `"tab\there"`)
	wantPr(t, rt, mustEval(t, rt, `"q\"q"`), `"q\"q"`)
	wantPr(t, rt, mustEval(t, rt, `"s\\s"`), `"s\\s"`)
}

func TestPrStrObject(t *testing.T) {
	rt := preludeRuntime(t)
	anon := mustEval(t, rt, "(obj nil nil)")
	if got := rt.prStr(anon); !strings.HasPrefix(got, "<object nil #") {
		t.Fatalf("anonymous object rendering: %q", got)
	}
	named := mustEval(t, rt, `(obj nil (list (cons '*object-name* "point")))`)
	if got := rt.prStr(named); !strings.HasPrefix(got, "<object point #") {
		t.Fatalf("named object rendering: %q", got)
	}
	// The name is found through the prototype chain.
	child := mustEval(t, rt, `(obj (obj nil (list (cons '*object-name* "base"))) nil)`)
	if got := rt.prStr(child); !strings.HasPrefix(got, "<object base #") {
		t.Fatalf("inherited object name rendering: %q", got)
	}
}

func TestPrStrViaPrimitive(t *testing.T) {
	rt := testRuntime(t)
	wantStr(t, rt, mustEval(t, rt, "(pr-str '(1 2))"), "(1 2)")
	wantStr(t, rt, mustEval(t, rt, `(pr-str "s")`), `"s"`)
}
