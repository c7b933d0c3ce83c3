//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

type udpRecvEvent struct {
	sock *UDPSocket
	buf  []byte

	n     int
	from  Endpoint
	errno syscall.Errno
}

func (e *udpRecvEvent) ready() bool { return e.tryRecv() }

func (e *udpRecvEvent) suspend(token uintptr) bool {
	if err := e.sock.ctx.Mux().Arm(e.sock.fd, mux.OpRead, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *udpRecvEvent) resume() bool { return e.tryRecv() }

func (e *udpRecvEvent) tryRecv() bool {
	n, from, errno := rawRecvFrom(e.sock.fd, e.buf)
	if errno == 0 {
		e.n = n
		e.from = from
		return true
	}
	if isTemporary(errno) {
		return false
	}
	e.errno = errno
	return true
}
