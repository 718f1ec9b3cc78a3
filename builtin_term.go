// builtin_term.go
package shi

import (
	"golang.org/x/term"
)

// (term-raw t?) - toggle raw mode on stdin. The saved state restores on
// disable and again on interpreter exit.
func primTermRaw(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("term-raw", args.val(), 1); err != nil {
		return Nil, err
	}
	if truthy(rt.arg(args.val(), 0)) {
		if rt.termState != nil {
			return Nil, nil
		}
		st, err := term.MakeRaw(stdinFd)
		if err != nil {
			return Nil, rt.errorf(ErrHost, "term-raw: error enabling raw mode")
		}
		rt.termState = st
		return Nil, nil
	}
	rt.restoreTerm()
	return Nil, nil
}

const stdinFd = 0

// restoreTerm leaves raw mode if it was entered. Idempotent; called on
// every exit path.
func (rt *Runtime) restoreTerm() {
	if rt.termState != nil {
		term.Restore(stdinFd, rt.termState)
		rt.termState = nil
	}
}
