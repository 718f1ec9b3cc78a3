// builtin_net.go
//
// POSIX-style networking. Sockets come back non-blocking so accept can
// cooperate with the event loop instead of stalling the interpreter.
package shi

import (
	"net"

	"fortio.org/safecast"
	"golang.org/x/sys/unix"
)

// Socket constants surfaced to user code.
const (
	pfInet     = unix.AF_INET
	sockStream = unix.SOCK_STREAM
)

// (socket domain type protocol) -> fd
func primSocket(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("socket", args.val(), 3); err != nil {
		return Nil, err
	}
	for i := 0; i < 3; i++ {
		if rt.arg(args.val(), i).Tag != TInt {
			return Nil, rt.errorf(ErrType, "socket: arg %d not int", i+1)
		}
	}
	domain := int(rt.arg(args.val(), 0).Num)
	typ := int(rt.arg(args.val(), 1).Num)
	proto := int(rt.arg(args.val(), 2).Num)

	fd, err := unix.Socket(domain, typ, proto)
	if err != nil {
		return Nil, rt.errorf(ErrHost, "socket: error creating socket")
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return Nil, rt.errorf(ErrHost, "socket: error making socket non-blocking")
	}
	return Int(int64(fd)), nil
}

// (bind-inet fd host port)
func primBindInet(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("bind-inet", args.val(), 3); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	host := rt.arg(args.val(), 1)
	port := rt.arg(args.val(), 2)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "bind-inet: 1st arg not int")
	}
	if host.Tag != TStr {
		return Nil, rt.errorf(ErrType, "bind-inet: 2nd arg not string")
	}
	if port.Tag != TInt {
		return Nil, rt.errorf(ErrType, "bind-inet: 3rd arg not int")
	}

	p, err := safecast.Conv[uint16](port.Num)
	if err != nil {
		return Nil, rt.errorf(ErrType, "bind-inet: port out of range")
	}
	ip := net.ParseIP(rt.strVal(host)).To4()
	if ip == nil {
		return Nil, rt.errorf(ErrHost, "bind-inet: could not parse host")
	}

	sa := &unix.SockaddrInet4{Port: int(p)}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(int(fd.Num), sa); err != nil {
		return Nil, rt.errorf(ErrHost, "bind-inet: error binding to address")
	}
	return Nil, nil
}

// (listen fd backlog)
func primListen(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("listen", args.val(), 2); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	backlog := rt.arg(args.val(), 1)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "listen: 1st arg not int")
	}
	if backlog.Tag != TInt {
		return Nil, rt.errorf(ErrType, "listen: 2nd arg not int")
	}

	if err := unix.Listen(int(fd.Num), int(backlog.Num)); err != nil {
		switch err {
		case unix.EACCES:
			return Nil, rt.errorf(ErrHost, "listen: insufficient privileges")
		case unix.EBADF:
			return Nil, rt.errorf(ErrHost, "listen: given socket is not a valid file descriptor")
		case unix.EINVAL:
			return Nil, rt.errorf(ErrHost, "listen: socket is already listening")
		case unix.ENOTSOCK:
			return Nil, rt.errorf(ErrHost, "listen: file descriptor given is not a valid socket")
		case unix.EOPNOTSUPP:
			return Nil, rt.errorf(ErrHost, "listen: socket type not supported")
		}
		return Nil, rt.errorf(ErrHost, "listen: error")
	}
	return Nil, nil
}

// (accept fd) -> client fd, or nil when the socket would block.
func primAccept(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("accept", args.val(), 1); err != nil {
		return Nil, err
	}
	fd := rt.arg(args.val(), 0)
	if fd.Tag != TInt {
		return Nil, rt.errorf(ErrType, "accept: 1st arg not int")
	}

	client, _, err := unix.Accept(int(fd.Num))
	if err != nil {
		switch err {
		case unix.EINTR, unix.EAGAIN:
			return Nil, nil
		case unix.EBADF:
			return Nil, rt.errorf(ErrHost, "accept: given socket is not a valid file descriptor")
		case unix.EINVAL:
			return Nil, rt.errorf(ErrHost, "accept: socket is unwilling to accept connections")
		case unix.ENOTSOCK:
			return Nil, rt.errorf(ErrHost, "accept: file descriptor given is not a valid socket")
		case unix.EOPNOTSUPP:
			return Nil, rt.errorf(ErrHost, "accept: socket type is not SOCK_STREAM")
		case unix.ENOMEM:
			return Nil, rt.errorf(ErrHost, "accept: out of memory")
		case unix.EMFILE:
			return Nil, rt.errorf(ErrHost, "accept: process out of file descriptors")
		case unix.ENFILE:
			return Nil, rt.errorf(ErrHost, "accept: system out of file descriptors")
		}
		return Nil, rt.errorf(ErrHost, "accept: error")
	}
	// Inherit the listener's cooperative behavior.
	if err := unix.SetNonblock(client, true); err != nil {
		unix.Close(client)
		return Nil, rt.errorf(ErrHost, "accept: error making socket non-blocking")
	}
	return Int(int64(client)), nil
}
