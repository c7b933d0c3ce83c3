//go:build unix

package ice

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func closeFd(fd int) error {
	return unix.Close(fd)
}

func addrFamily(ep Endpoint) int {
	if ep.Addr().Is4() {
		return unix.AF_INET
	}
	return unix.AF_INET6
}

func bindAndListen(fd int, local Endpoint, backlog int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}
	if err := unix.Bind(fd, sockaddrOf(local)); err != nil {
		return err
	}
	return unix.Listen(fd, backlog)
}

func bindDatagram(fd int, local Endpoint) error {
	return unix.Bind(fd, sockaddrOf(local))
}

func localAddr(fd int) (Endpoint, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return Endpoint{}, err
	}
	return endpointOfSockaddr(sa), nil
}

func shutdownFd(fd int, dir ShutdownDirection) error {
	how := unix.SHUT_RDWR
	switch dir {
	case ShutdownRecv:
		how = unix.SHUT_RD
	case ShutdownSend:
		how = unix.SHUT_WR
	}
	return unix.Shutdown(fd, how)
}

func setSockOptInt(fd, level, name, value int) error {
	return unix.SetsockoptInt(fd, level, name, value)
}

func sockOptInt(fd, level, name int) (int, error) {
	return unix.GetsockoptInt(fd, level, name)
}

func setNonblock(fd int) error {
	return unix.SetNonblock(fd, true)
}

func newStreamSocket(family int) (int, error) {
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if err := setNonblock(fd); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

func newDatagramSocket(family int) (int, error) {
	fd, err := unix.Socket(family, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	if err := setNonblock(fd); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

func sockaddrOf(ep Endpoint) unix.Sockaddr {
	addr := ep.Addr()
	if addr.Is4() {
		sa := &unix.SockaddrInet4{Port: int(ep.Port())}
		sa.Addr = addr.As4()
		return sa
	}
	sa := &unix.SockaddrInet6{Port: int(ep.Port())}
	sa.Addr = addr.As16()
	return sa
}

func endpointOfSockaddr(sa unix.Sockaddr) Endpoint {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return NewEndpoint(addrFrom4(a.Addr), uint16(a.Port))
	case *unix.SockaddrInet6:
		return NewEndpoint(addrFrom16(a.Addr), uint16(a.Port))
	default:
		return Endpoint{}
	}
}

// rawAccept attempts a single non-blocking accept4. A would-block result is
// reported via errno, never as a Go error value, so callers can feed it
// straight into isTemporary.
func rawAccept(fd int) (int, unix.Sockaddr, syscall.Errno) {
	nfd, sa, err := unix.Accept4(fd, unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK)
	if err != nil {
		return -1, nil, errnoOf(err)
	}
	return nfd, sa, 0
}

func rawConnect(fd int, ep Endpoint) syscall.Errno {
	err := unix.Connect(fd, sockaddrOf(ep))
	return errnoOf(err)
}

func rawRecv(fd int, buf []byte) (int, syscall.Errno) {
	n, err := unix.Read(fd, buf)
	if err != nil {
		return 0, errnoOf(err)
	}
	return n, 0
}

func rawSend(fd int, buf []byte) (int, syscall.Errno) {
	n, err := unix.Write(fd, buf)
	if err != nil {
		return 0, errnoOf(err)
	}
	return n, 0
}

func rawRecvFrom(fd int, buf []byte) (int, Endpoint, syscall.Errno) {
	n, sa, err := unix.Recvfrom(fd, buf, 0)
	if err != nil {
		return 0, Endpoint{}, errnoOf(err)
	}
	if sa == nil {
		return n, Endpoint{}, 0
	}
	return n, endpointOfSockaddr(sa), 0
}

func rawSendTo(fd int, buf []byte, ep Endpoint) (int, syscall.Errno) {
	err := unix.Sendto(fd, buf, 0, sockaddrOf(ep))
	if err != nil {
		return 0, errnoOf(err)
	}
	return len(buf), 0
}

func errnoOf(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	if errno, ok := err.(syscall.Errno); ok {
		return errno
	}
	return syscall.EIO
}
