//go:build unix

package ice

import (
	"syscall"

	"github.com/ehrlich-b/go-ice/internal/mux"
)

// tcpAcceptEvent drives TCPListener.Accept on readiness backends: arm the
// listening fd for read-readiness, then attempt accept4 each time the
// poller reports it.
type tcpAcceptEvent struct {
	listener *TCPListener

	connFd int
	remote Endpoint
	errno  syscall.Errno
}

func (e *tcpAcceptEvent) ready() bool {
	return e.tryAccept()
}

func (e *tcpAcceptEvent) suspend(token uintptr) bool {
	if err := e.listener.ctx.Mux().Arm(e.listener.fd, mux.OpRead, token); err != nil {
		e.errno = errnoOf(err)
		return false
	}
	return true
}

func (e *tcpAcceptEvent) resume() bool {
	return e.tryAccept()
}

func (e *tcpAcceptEvent) tryAccept() bool {
	fd, sa, errno := rawAccept(e.listener.fd)
	if errno == 0 {
		e.connFd = fd
		e.remote = endpointOfSockaddr(sa)
		return true
	}
	if isTemporary(errno) {
		return false
	}
	e.errno = errno
	return true
}
