//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

// tcpRecvEvent drives TCPConn.Recv: exactly one non-blocking read attempt
// per readiness notification, returning whatever it gets (including a
// short or zero-length result) rather than looping to fill buf.
type tcpRecvEvent struct {
	conn *TCPConn
	buf  []byte

	n     int
	errno syscall.Errno
}

func (e *tcpRecvEvent) ready() bool { return e.tryRecv() }

func (e *tcpRecvEvent) suspend(token uintptr) bool {
	if err := e.conn.ctx.Mux().Arm(e.conn.fd, mux.OpRead, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *tcpRecvEvent) resume() bool { return e.tryRecv() }

func (e *tcpRecvEvent) tryRecv() bool {
	n, errno := rawRecv(e.conn.fd, e.buf)
	if errno == 0 {
		e.n = n
		return true
	}
	if isTemporary(errno) {
		return false
	}
	e.errno = errno
	return true
}
