//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

// tcpSendSomeEvent drives TCPConn.SendSome: unlike tcpSendEvent it returns
// as soon as a single send call makes any forward progress, leaving any
// remainder to the caller.
type tcpSendSomeEvent struct {
	conn *TCPConn
	buf  []byte

	n     int
	errno syscall.Errno
}

func (e *tcpSendSomeEvent) ready() bool { return e.trySend() }

func (e *tcpSendSomeEvent) suspend(token uintptr) bool {
	if err := e.conn.ctx.Mux().Arm(e.conn.fd, mux.OpWrite, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *tcpSendSomeEvent) resume() bool { return e.trySend() }

func (e *tcpSendSomeEvent) trySend() bool {
	n, errno := rawSend(e.conn.fd, e.buf)
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
