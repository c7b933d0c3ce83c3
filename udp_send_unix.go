//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

type udpSendEvent struct {
	sock   *UDPSocket
	buf    []byte
	remote Endpoint

	offset int
	errno  syscall.Errno
}

func (e *udpSendEvent) ready() bool { return e.trySend() }

func (e *udpSendEvent) suspend(token uintptr) bool {
	if err := e.sock.ctx.Mux().Arm(e.sock.fd, mux.OpWrite, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *udpSendEvent) resume() bool { return e.trySend() }

// trySend advances offset by exactly what was accepted and shrinks the
// remaining slice (buf[offset:]) along with it, which is the part the
// implementation this adapts got wrong: it adjusted a data pointer by the
// sent byte count and then undid the adjustment, leaving the remaining
// length unchanged instead of shrinking it.
func (e *udpSendEvent) trySend() bool {
	n, errno := rawSendTo(e.sock.fd, e.buf[e.offset:], e.remote)
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
