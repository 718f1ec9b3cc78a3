package shi

import (
	"strings"
	"testing"
)

func mustRead(t *testing.T, rt *Runtime, src string) Value {
	t.Helper()
	v, err := rt.readSexp(src)
	if err != nil {
		t.Fatalf("read error for %q: %v", src, err)
	}
	return v
}

func wantReadErr(t *testing.T, rt *Runtime, src, substr string) {
	t.Helper()
	_, err := rt.readSexp(src)
	if err == nil {
		t.Fatalf("want read error for %q, got none", src)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Fatalf("want error containing %q, got %q", substr, err.Error())
	}
}

func TestReadAtoms(t *testing.T) {
	rt := testRuntime(t)
	wantInt(t, mustRead(t, rt, "42"), 42)
	wantInt(t, mustRead(t, rt, "-13"), -13)
	wantPr(t, rt, mustRead(t, rt, "foo"), "foo")
	wantPr(t, rt, mustRead(t, rt, "-"), "-")
	wantPr(t, rt, mustRead(t, rt, "<=>"), "<=>")
	wantStr(t, rt, mustRead(t, rt, `"hi"`), "hi")
}

func TestReadLists(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustRead(t, rt, "(1 2 3)"), "(1 2 3)")
	wantPr(t, rt, mustRead(t, rt, "()"), "()")
	wantPr(t, rt, mustRead(t, rt, "(a (b c) d)"), "(a (b c) d)")
	wantPr(t, rt, mustRead(t, rt, "(a b . c)"), "(a b . c)")
	wantPr(t, rt, mustRead(t, rt, "(a . b)"), "(a . b)")
}

func TestReadQuoteFamily(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustRead(t, rt, "'a"), "(quote a)")
	wantPr(t, rt, mustRead(t, rt, "`a"), "(quasiquote a)")
	wantPr(t, rt, mustRead(t, rt, ",a"), "(unquote a)")
	wantPr(t, rt, mustRead(t, rt, ",@a"), "(unquote-splicing a)")
	wantPr(t, rt, mustRead(t, rt, "@b"), "(unbox b)")
	wantPr(t, rt, mustRead(t, rt, "'(1 2)"), "(quote (1 2))")
	wantPr(t, rt, mustRead(t, rt, "`(a ,b ,@c)"),
		"(quasiquote (a (unquote b) (unquote-splicing c)))")
}

func TestReadAlist(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustRead(t, rt, "{a 1 b 2}"), "(list (cons a 1) (cons b 2))")
	wantPr(t, rt, mustRead(t, rt, "{}"), "()")
	wantReadErr(t, rt, "{a}", "un-even number of elements")
	wantReadErr(t, rt, "{a 1", "Unclosed curly brace")
	wantReadErr(t, rt, "{a . 1}", "Stray dot in alist")
}

func TestReadColonAccess(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustRead(t, rt, "o:k"), "(: o (quote k))")
	wantPr(t, rt, mustRead(t, rt, "obj:prop-name"), "(: obj (quote prop-name))")
	// A trailing colon is not access syntax.
	wantPr(t, rt, mustRead(t, rt, "o:"), "o")
	// A lone colon is the lookup operator itself.
	wantPr(t, rt, mustRead(t, rt, ":"), ":")
}

func TestReadComments(t *testing.T) {
	rt := testRuntime(t)
	wantInt(t, mustRead(t, rt, "; a comment\n7"), 7)
	wantInt(t, mustRead(t, rt, "#!/usr/bin/env shi\n9"), 9)
	// '#' is a shebang marker only at the very first character.
	wantPr(t, rt, mustRead(t, rt, "ab#cd"), "ab#cd")
}

func TestReadStringEscapes(t *testing.T) {
	rt := testRuntime(t)
	wantStr(t, rt, mustRead(t, rt, `"a\nb"`), "a\nb")
	wantStr(t, rt, mustRead(t, rt, `"a\tb"`), "a\tb")
	wantStr(t, rt, mustRead(t, rt, `"a\"b"`), `a"b`)
	wantStr(t, rt, mustRead(t, rt, `"a\\b"`), `a\b`)
	wantReadErr(t, rt, `"unterminated`, "Unterminated string")
}

func TestReadLimits(t *testing.T) {
	rt := testRuntime(t)
	longStr := `"` + strings.Repeat("x", stringMaxLen+1) + `"`
	wantReadErr(t, rt, longStr, "String too long")
	okStr := `"` + strings.Repeat("x", stringMaxLen) + `"`
	wantStr(t, rt, mustRead(t, rt, okStr), strings.Repeat("x", stringMaxLen))

	longSym := strings.Repeat("s", symbolMaxLen+1)
	wantReadErr(t, rt, longSym, "Symbol name too long")
}

func TestReadErrors(t *testing.T) {
	rt := testRuntime(t)
	wantReadErr(t, rt, "(1 2", "Unclosed parenthesis")
	wantReadErr(t, rt, ")", "Stray close parenthesis")
	wantReadErr(t, rt, "}", "Stray close curly bracket")
	wantReadErr(t, rt, ".", "Stray dot")
	wantReadErr(t, rt, "(1 . 2 3)", "Closed parenthesis expected after dot")
	wantReadErr(t, rt, "\x01", "Don't know how to handle")
}

func TestReadMultipleExpressions(t *testing.T) {
	rt := testRuntime(t)
	wantPr(t, rt, mustRead(t, rt, "1 2 3"), "(do 1 2 3)")
	wantNil(t, mustRead(t, rt, ""))
	wantNil(t, mustRead(t, rt, "  ; just a comment\n"))
}

func TestReaderRoundTripAtoms(t *testing.T) {
	rt := testRuntime(t)
	for _, n := range []string{"0", "1", "-1", "123456789"} {
		wantTrue(t, mustEval(t, rt, "(eq? "+n+" (read-sexp (pr-str "+n+")))"))
	}
	wantTrue(t, mustEval(t, rt, `(eq? "x y\nz" (read-sexp (pr-str "x y\nz")))`))
	wantTrue(t, mustEval(t, rt, "(eq? 'round-trip (read-sexp (pr-str 'round-trip)))"))
}
