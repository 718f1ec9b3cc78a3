package shi

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestGetenv(t *testing.T) {
	rt := testRuntime(t)
	t.Setenv("SHI_TEST_VAR", "hello")
	wantStr(t, rt, mustEval(t, rt, `(getenv "SHI_TEST_VAR")`), "hello")
	wantNil(t, mustEval(t, rt, `(getenv "SHI_TEST_VAR_UNSET_FOR_SURE")`))
}

func TestSeconds(t *testing.T) {
	rt := testRuntime(t)
	v := mustEval(t, rt, "(seconds)")
	if v.Tag != TInt || v.Num <= 0 {
		t.Fatalf("seconds should be a positive integer, got %#v", v)
	}
}

func TestOpenReadClose(t *testing.T) {
	rt := testRuntime(t)
	path := filepath.Join(t.TempDir(), "input.shi")
	if err := os.WriteFile(path, []byte("(+ 1 2)"), 0644); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf(`
		(do (def fd (open %q))
		    (def s (read fd 64))
		    (close fd)
		    s)`, path)
	wantStr(t, rt, mustEval(t, rt, src), "(+ 1 2)")
	wantErr(t, rt, `(open "/no/such/dir/x")`, "open: error opening file")
}

func TestWriteToFile(t *testing.T) {
	rt := testRuntime(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	src := fmt.Sprintf(`
		(do (def fd (open %q "w"))
		    (write fd "payload")
		    (close fd))`, path)
	mustEval(t, rt, src)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("want %q in file, got %q", "payload", string(data))
	}
}

func TestReadAtEOFIsEmpty(t *testing.T) {
	rt := testRuntime(t)
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf(`
		(do (def fd (open %q))
		    (def s (read fd 16))
		    (close fd)
		    (str-len s))`, path)
	wantInt(t, mustEval(t, rt, src), 0)
}

func TestEvTimerFiresAndStops(t *testing.T) {
	rt := preludeRuntime(t)
	mustEval(t, rt, `
		(do (def n 0)
		    (def wid nil)
		    (set wid (ev-start EV_TIMER
		                       (fn () (do (set n (+ n 1)) (ev-stop wid)))
		                       1)))`)
	if err := rt.loop.run(func() error { return nil }); err != nil {
		t.Fatalf("event loop: %v", err)
	}
	wantInt(t, mustEval(t, rt, "n"), 1)
	// The watcher is gone; stopping again reports nil.
	wantNil(t, mustEval(t, rt, "(ev-stop wid)"))
}

func TestEvStopUnknownID(t *testing.T) {
	rt := testRuntime(t)
	wantNil(t, mustEval(t, rt, "(ev-stop 9999)"))
}

func TestEvStartValidation(t *testing.T) {
	rt := testRuntime(t)
	wantErr(t, rt, "(ev-start EV_TIMER (fn () nil))", "timer watcher needs a delay")
	wantErr(t, rt, "(ev-start EV_STAT (fn () nil) 1)", "stat watchers are not supported")
	wantErr(t, rt, "(ev-start 31337 (fn () nil) 1)", "unknown watcher type")
	wantErr(t, rt, "(ev-start EV_TIMER 5 1)", "callback arg not a function")
}

func TestSocketListenAcceptWouldBlock(t *testing.T) {
	rt := testRuntime(t)
	// Bind to an ephemeral port, listen, and verify accept reports
	// would-block on a connectionless listener.
	mustEval(t, rt, `
		(do (def sfd (socket PF_INET SOCK_STREAM 0))
		    (bind-inet sfd "127.0.0.1" 0)
		    (listen sfd 8))`)
	wantNil(t, mustEval(t, rt, "(accept sfd)"))
	mustEval(t, rt, "(close sfd)")
}
