// builtin_ev.go
package shi

import (
	"time"

	"fortio.org/safecast"
)

// (ev-start type cb arg) -> watcher id
func primEvStart(rt *Runtime, env, args handle) (Value, error) {
	if rt.length(args.val()) < 2 {
		return Nil, rt.errorf(ErrArity, "ev-start: not given at least 2 arguments")
	}
	typ := rt.arg(args.val(), 0)
	cb := rt.arg(args.val(), 1)
	if typ.Tag != TInt {
		return Nil, rt.errorf(ErrType, "ev-start: type arg not an int")
	}
	if cb.Tag != TFun {
		return Nil, rt.errorf(ErrType, "ev-start: callback arg not a function")
	}

	w := &watcher{kind: int(typ.Num), env: env.val(), callback: cb}
	switch w.kind {
	case EvRead, EvWrite:
		if rt.length(args.val()) < 3 || rt.arg(args.val(), 2).Tag != TInt {
			return Nil, rt.errorf(ErrType, "ev-start: io watcher needs a file descriptor")
		}
		fd, err := safecast.Conv[int32](rt.arg(args.val(), 2).Num)
		if err != nil {
			return Nil, rt.errorf(ErrType, "ev-start: file descriptor out of range")
		}
		w.fd = int(fd)
	case EvTimer:
		if rt.length(args.val()) < 3 || rt.arg(args.val(), 2).Tag != TInt {
			return Nil, rt.errorf(ErrType, "ev-start: timer watcher needs a delay as int")
		}
		w.interval = time.Duration(rt.arg(args.val(), 2).Num) * time.Millisecond
		w.deadline = time.Now().Add(w.interval)
	case EvSignal:
		if rt.length(args.val()) < 3 || rt.arg(args.val(), 2).Tag != TInt {
			return Nil, rt.errorf(ErrType, "ev-start: signal watcher needs a signal number as integer")
		}
		w.signum = int(rt.arg(args.val(), 2).Num)
	case EvStat:
		return Nil, rt.errorf(ErrType, "ev-start: stat watchers are not supported")
	default:
		return Nil, rt.errorf(ErrType, "ev-start: unknown watcher type")
	}
	return Int(int64(rt.loop.addWatcher(w))), nil
}

// (ev-stop id) -> t | nil
func primEvStop(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("ev-stop", args.val(), 1); err != nil {
		return Nil, err
	}
	id := rt.arg(args.val(), 0)
	if id.Tag != TInt {
		return Nil, rt.errorf(ErrType, "ev-stop: 1st arg not int")
	}
	if rt.loop.stop(int(id.Num)) {
		return True, nil
	}
	return Nil, nil
}
