package shi

import "testing"

func TestObjSetGetLaw(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def o (obj nil (list (cons 'x 1))))")
	wantInt(t, mustEval(t, rt, "(obj-get o 'x)"), 1)
	mustEval(t, rt, "(obj-set o 'x 42)")
	wantInt(t, mustEval(t, rt, "(obj-get o 'x)"), 42)
	mustEval(t, rt, "(obj-del o 'x)")
	wantErr(t, rt, "(obj-get o 'x)", "unbound key")
}

func TestObjKeyKinds(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def o (obj nil nil))")
	mustEval(t, rt, "(obj-set o 'sym-key 1)")
	mustEval(t, rt, `(obj-set o "str-key" 2)`)
	mustEval(t, rt, "(obj-set o 7 3)")
	wantInt(t, mustEval(t, rt, "(obj-get o 'sym-key)"), 1)
	wantInt(t, mustEval(t, rt, `(obj-get o "str-key")`), 2)
	wantInt(t, mustEval(t, rt, "(obj-get o 7)"), 3)
	// obj-del accepts every valid key kind.
	mustEval(t, rt, `(obj-del o "str-key")`)
	wantErr(t, rt, `(obj-get o "str-key")`, "unbound key")
	wantErr(t, rt, "(obj-set o '(1) 1)", "valid object key")
	wantErr(t, rt, "(obj-del o '(1))", "valid object key")
}

func TestObjPrototypeChain(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def base (obj nil (list (cons 'x 1))))")
	mustEval(t, rt, "(def child (obj base nil))")

	// The : operator walks the chain; obj-get reads only the own table.
	wantInt(t, mustEval(t, rt, "(: child 'x)"), 1)
	wantInt(t, mustEval(t, rt, "child:x"), 1)
	wantErr(t, rt, "(obj-get child 'x)", "unbound key")

	// Writes land on the receiver, never the prototype.
	mustEval(t, rt, "(obj-set child 'x 2)")
	wantInt(t, mustEval(t, rt, "(obj-get child 'x)"), 2)
	wantInt(t, mustEval(t, rt, "(obj-get base 'x)"), 1)

	// Deletion uncovers the prototype's value again.
	mustEval(t, rt, "(obj-del child 'x)")
	wantInt(t, mustEval(t, rt, "child:x"), 1)
}

func TestObjProtoOps(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def a (obj nil nil))")
	mustEval(t, rt, "(def b (obj nil nil))")
	wantNil(t, mustEval(t, rt, "(obj-proto a)"))
	mustEval(t, rt, "(obj-proto-set! a b)")
	wantTrue(t, mustEval(t, rt, "(eq? (obj-proto a) b)"))
}

func TestObjToAlist(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def o (obj nil (list (cons 'a 1) (cons 'b 2))))")
	wantInt(t, mustEval(t, rt, "(length (obj->alist o))"), 2)
	// Prototype entries are not included.
	mustEval(t, rt, "(def c (obj o nil))")
	wantInt(t, mustEval(t, rt, "(length (obj->alist c))"), 0)
}

func TestObjSetViaColonForm(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def o (obj nil (list (cons 'k 1))))")
	mustEval(t, rt, "(set o:k 9)")
	wantInt(t, mustEval(t, rt, "o:k"), 9)
	mustEval(t, rt, "(set (: o 'k2) 10)")
	wantInt(t, mustEval(t, rt, "(obj-get o 'k2)"), 10)
}

func TestObjSingleEntryPerKey(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, "(def o (obj nil nil))")
	mustEval(t, rt, "(obj-set o 'k 1)")
	mustEval(t, rt, "(obj-set o 'k 2)")
	mustEval(t, rt, "(obj-set o 'k 3)")
	wantInt(t, mustEval(t, rt, "(length (obj->alist o))"), 1)
	wantInt(t, mustEval(t, rt, "(obj-get o 'k)"), 3)
}

func TestObjErrors(t *testing.T) {
	rt := preludeRuntime(t)
	wantErr(t, rt, "(obj 1 nil)", "non object or nil as prototype")
	wantErr(t, rt, "(obj nil 1)", "non alist as properties")
	wantErr(t, rt, `(obj nil (list (cons "s" 1)))`, "non symbol as property key")
	wantErr(t, rt, "(obj-get 1 'k)", "expected 1st argument to be object")
}

func TestObjHashStable(t *testing.T) {
	rt := testRuntime(t)
	k := rt.Intern("stable-key")
	h1, err := rt.objHash(k)
	if err != nil {
		t.Fatalf("objHash: %v", err)
	}
	h2, _ := rt.objHash(k)
	if h1 != h2 {
		t.Fatalf("hash not stable: %d vs %d", h1, h2)
	}
	if h1 < 0 || h1 >= objBuckets {
		t.Fatalf("hash out of range: %d", h1)
	}
	// An integer key hashes through its printable form.
	hi, _ := rt.objHash(Int(123))
	hs, _ := rt.objHash(rt.makeStr("123"))
	if hi != hs {
		t.Fatalf("int and string forms of the same key must share a bucket: %d vs %d", hi, hs)
	}
}
