// builtin_os.go
//
// Host primitives: file descriptors, environment, clock. Descriptors are
// raw integers; nothing here is finalized by the collector, release is the
// user's explicit close.
package shi

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// (write fd str) - writes all bytes; a short write is an error.
func primWrite(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("write", args.val(), 2); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	s := rt.arg(args.val(), 1)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "write: 1st arg not file descriptor")
	}
	if s.Tag != TStr {
		return Nil, rt.errorf(ErrType, "write: 2nd arg not string")
	}

	buf := []byte(rt.strVal(s))
	for len(buf) > 0 {
		n, err := unix.Write(int(fd.Num), buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil || n < 0 {
			return Nil, rt.errorf(ErrHost, "write: error")
		}
		buf = buf[n:]
	}
	return Nil, nil
}

// (read fd n) - up to n bytes; empty string on EOF.
func primRead(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("read", args.val(), 2); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	n := rt.arg(args.val(), 1)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "read: 1st arg not file descriptor")
	}
	if n.Tag != TInt || n.Num < 0 {
		return Nil, rt.errorf(ErrType, "read: 2nd arg not int")
	}

	buf := make([]byte, n.Num)
	k, err := unix.Read(int(fd.Num), buf)
	if err != nil || k < 0 {
		return Nil, rt.errorf(ErrHost, "read: error")
	}
	return rt.makeStr(string(buf[:k])), nil
}

// (open path mode?) -> fd ; mode defaults to "r" with fopen semantics.
func primOpen(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) < 1 {
		return Nil, rt.errorf(ErrArity, "open: not given a path")
	}
	path := rt.car(args.val())
	if path.Tag != TStr {
		return Nil, rt.errorf(ErrType, "open: 1st arg not string")
	}

	mode := "r"
	if rest := rt.cdr(args.val()); rest.Tag != TNil && rt.car(rest).Tag == TStr {
		mode = rt.strVal(rt.car(rest))
	}
	flags, ok := openFlags(mode)
	if !ok {
		return Nil, rt.errorf(ErrType, "open: unknown mode %q", mode)
	}

	fd, err := unix.Open(rt.strVal(path), flags, 0644)
	if err != nil {
		return Nil, rt.errorf(ErrHost, "open: error opening file")
	}
	return Int(int64(fd)), nil
}

func openFlags(mode string) (int, bool) {
	switch mode {
	case "r":
		return unix.O_RDONLY, true
	case "r+":
		return unix.O_RDWR, true
	case "w":
		return unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC, true
	case "w+":
		return unix.O_RDWR | unix.O_CREAT | unix.O_TRUNC, true
	case "a":
		return unix.O_WRONLY | unix.O_CREAT | unix.O_APPEND, true
	case "a+":
		return unix.O_RDWR | unix.O_CREAT | unix.O_APPEND, true
	}
	return 0, false
}

// (close fd)
func primClose(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("close", args.val(), 1); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "close: 1st arg not int")
	}
	if err := unix.Close(int(fd.Num)); err != nil {
		return Nil, rt.errorf(ErrHost, "close: error closing file")
	}
	return Nil, nil
}

// (isatty fd)
func primIsatty(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("isatty", args.val(), 1); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "isatty: 1st arg not int")
	}
	if term.IsTerminal(int(fd.Num)) {
		return True, nil
	}
	return Nil, nil
}

// (getenv name) -> str | nil
func primGetenv(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("getenv", args.val(), 1); err != nil {
		return Nil, err
	}
	name := rt.arg(args.val(), 0)
	if name.Tag != TStr {
		return Nil, rt.errorf(ErrType, "getenv: 1st arg not string")
	}
	val, ok := os.LookupEnv(rt.strVal(name))
	if !ok {
		return Nil, nil
	}
	return rt.makeStr(val), nil
}

// (seconds) -> wall-clock seconds since the epoch
func primSeconds(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("seconds", args.val(), 0); err != nil {
		return Nil, err
	}
	return Int(time.Now().Unix()), nil
}

// (sleep ms)
func primSleep(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("sleep", args.val(), 1); err != nil {
		return Nil, err
	}
	ms := rt.arg(args.val(), 0)
	if ms.Tag != TInt {
		return Nil, rt.errorf(ErrType, "sleep: 1st arg not int")
	}
	time.Sleep(time.Duration(ms.Num) * time.Millisecond)
	return Nil, nil
}

// (exit code)
func primExit(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("exit", args.val(), 1); err != nil {
		return Nil, err
	}
	code := rt.arg(args.val(), 0)
	if code.Tag != TInt {
		return Nil, rt.errorf(ErrType, "exit: 1st arg not int")
	}
	rt.closeLiner()
	rt.restoreTerm()
	os.Exit(int(code.Num))
	return Nil, nil
}
