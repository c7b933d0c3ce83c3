//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

type udpSendSomeEvent struct {
	sock   *UDPSocket
	buf    []byte
	remote Endpoint

	n     int
	errno syscall.Errno
}

func (e *udpSendSomeEvent) ready() bool { return e.trySend() }

func (e *udpSendSomeEvent) suspend(token uintptr) bool {
	if err := e.sock.ctx.Mux().Arm(e.sock.fd, mux.OpWrite, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *udpSendSomeEvent) resume() bool { return e.trySend() }

func (e *udpSendSomeEvent) trySend() bool {
	n, errno := rawSendTo(e.sock.fd, e.buf, e.remote)
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
