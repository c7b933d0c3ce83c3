//go:build unix

package ice

import (
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

// tcpConnectEvent drives DialTCP on readiness backends: issue a
// non-blocking connect, then wait for write-readiness and read SO_ERROR to
// learn whether it actually succeeded.
type tcpConnectEvent struct {
	conn   *TCPConn
	remote Endpoint

	started bool
	errno   syscall.Errno
}

func (e *tcpConnectEvent) ready() bool {
	errno := rawConnect(e.conn.fd, e.remote)
	e.started = true
	if errno == 0 || errno == syscall.EISCONN {
		return true
	}
	if errno == syscall.EINPROGRESS || errno == syscall.EALREADY {
		return false
	}
	e.errno = errno
	return true
}

func (e *tcpConnectEvent) suspend(token uintptr) bool {
	if err := e.conn.ctx.Mux().Arm(e.conn.fd, mux.OpWrite, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *tcpConnectEvent) resume() bool {
	soErr, err := unix.GetsockoptInt(e.conn.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		e.errno = errnoOf(err)
		return true
	}
	if soErr != 0 {
		e.errno = syscall.Errno(soErr)
	}
	return true
}
