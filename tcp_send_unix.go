//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

// tcpSendEvent drives TCPConn.Send: retries internally, advancing offset
// across short writes, until buf is fully drained or an error occurs.
type tcpSendEvent struct {
	conn *TCPConn
	buf  []byte

	offset int
	errno  syscall.Errno
}

func (e *tcpSendEvent) ready() bool { return e.trySend() }

func (e *tcpSendEvent) suspend(token uintptr) bool {
	if err := e.conn.ctx.Mux().Arm(e.conn.fd, mux.OpWrite, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *tcpSendEvent) resume() bool { return e.trySend() }

func (e *tcpSendEvent) trySend() bool {
	n, errno := rawSend(e.conn.fd, e.buf[e.offset:])
	if errno == 0 {
		e.offset += n
		return e.offset >= len(e.buf)
	}
	if isTemporary(errno) {
		return false
	}
	e.errno = errno
	return true
}
