//go:build windows

package ice

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

func closeFd(fd int) error {
	return windows.Closesocket(windows.Handle(fd))
}

func addrFamily(ep Endpoint) int {
	if ep.Addr().Is4() {
		return windows.AF_INET
	}
	return windows.AF_INET6
}

func bindAndListen(fd int, local Endpoint, backlog int) error {
	h := windows.Handle(fd)
	one := int32(1)
	windows.Setsockopt(h, windows.SOL_SOCKET, windows.SO_REUSEADDR, (*byte)(unsafe.Pointer(&one)), 4)
	if err := windows.Bind(h, sockaddrOf(local)); err != nil {
		return err
	}
	return windows.Listen(h, int32(backlog))
}

func bindDatagram(fd int, local Endpoint) error {
	return windows.Bind(windows.Handle(fd), sockaddrOf(local))
}

func localAddr(fd int) (Endpoint, error) {
	sa, err := windows.Getsockname(windows.Handle(fd))
	if err != nil {
		return Endpoint{}, err
	}
	return endpointOfSockaddr(sa), nil
}

// shutdown() is bound lazily from ws2_32 here; the rest of this file uses
// the golang.org/x/sys/windows wrappers.
var (
	modws2_32    = windows.NewLazySystemDLL("ws2_32.dll")
	procShutdown = modws2_32.NewProc("shutdown")
)

const (
	sdReceive = 0
	sdSend    = 1
	sdBoth    = 2
)

func shutdownFd(fd int, dir ShutdownDirection) error {
	how := sdBoth
	switch dir {
	case ShutdownRecv:
		how = sdReceive
	case ShutdownSend:
		how = sdSend
	}
	r1, _, err := procShutdown.Call(uintptr(fd), uintptr(how))
	if r1 != 0 {
		return errnoOf(err)
	}
	return nil
}

func setSockOptInt(fd, level, name, value int) error {
	return windows.SetsockoptInt(windows.Handle(fd), level, name, value)
}

func sockOptInt(fd, level, name int) (int, error) {
	return windows.GetsockoptInt(windows.Handle(fd), level, name)
}

func setNonblock(fd int) error {
	mode := uint32(1)
	return windows.WSAIoctl(windows.Handle(fd), windows.FIONBIO, (*byte)(nil), 0, (*byte)(&mode), 4, new(uint32), nil, 0)
}

func newStreamSocket(family int) (int, error) {
	h, err := windows.Socket(family, windows.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	if err := setNonblock(int(h)); err != nil {
		windows.Closesocket(h)
		return -1, err
	}
	return int(h), nil
}

func newDatagramSocket(family int) (int, error) {
	h, err := windows.Socket(family, windows.SOCK_DGRAM, 0)
	if err != nil {
		return -1, err
	}
	if err := setNonblock(int(h)); err != nil {
		windows.Closesocket(h)
		return -1, err
	}
	return int(h), nil
}

func sockaddrOf(ep Endpoint) windows.Sockaddr {
	addr := ep.Addr()
	if addr.Is4() {
		return &windows.SockaddrInet4{Port: int(ep.Port()), Addr: addr.As4()}
	}
	return &windows.SockaddrInet6{Port: int(ep.Port()), Addr: addr.As16()}
}

func endpointOfSockaddr(sa windows.Sockaddr) Endpoint {
	switch a := sa.(type) {
	case *windows.SockaddrInet4:
		return NewEndpoint(addrFrom4(a.Addr), uint16(a.Port))
	case *windows.SockaddrInet6:
		return NewEndpoint(addrFrom16(a.Addr), uint16(a.Port))
	default:
		return Endpoint{}
	}
}

// rawAccept mirrors the Unix helper's shape: one accept attempt on the
// non-blocking listening socket. tcp_accept_windows.go retries it with
// pollBackoff; no AcceptEx call is made.
func rawAccept(fd int) (int, windows.Sockaddr, syscall.Errno) {
	nfd, err := windows.Accept(windows.Handle(fd))
	if err != nil {
		return -1, nil, errnoOf(err)
	}
	sa, err := windows.Getpeername(nfd)
	if err != nil {
		return int(nfd), nil, 0
	}
	return int(nfd), sa, 0
}

func rawConnect(fd int, ep Endpoint) syscall.Errno {
	return errnoOf(windows.Connect(windows.Handle(fd), sockaddrOf(ep)))
}

func rawRecv(fd int, buf []byte) (int, syscall.Errno) {
	n, err := windows.Read(windows.Handle(fd), buf)
	if err != nil {
		return 0, errnoOf(err)
	}
	return n, 0
}

func rawSend(fd int, buf []byte) (int, syscall.Errno) {
	n, err := windows.Write(windows.Handle(fd), buf)
	if err != nil {
		return 0, errnoOf(err)
	}
	return n, 0
}

func rawRecvFrom(fd int, buf []byte) (int, Endpoint, syscall.Errno) {
	n, sa, err := windows.Recvfrom(windows.Handle(fd), buf, 0)
	if err != nil {
		return 0, Endpoint{}, errnoOf(err)
	}
	if sa == nil {
		return n, Endpoint{}, 0
	}
	return n, endpointOfSockaddr(sa), 0
}

func rawSendTo(fd int, buf []byte, ep Endpoint) (int, syscall.Errno) {
	err := windows.Sendto(windows.Handle(fd), buf, 0, sockaddrOf(ep))
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
	if errno, ok := err.(windows.Errno); ok {
		return syscall.Errno(errno)
	}
	return syscall.EIO
}
