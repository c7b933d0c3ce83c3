//go:build windows

package ice

import "syscall"

// udpSendEvent drives UDPSocket.Send: one sendto attempt per suspend,
// resume reporting false until offset reaches len(buf), the same
// resume-false re-arm contract tcpSendEvent honors on this backend.
type udpSendEvent struct {
	sock   *UDPSocket
	buf    []byte
	remote Endpoint

	offset int
	errno  syscall.Errno
}

func (e *udpSendEvent) ready() bool { return false }

func (e *udpSendEvent) suspend(token uintptr) bool {
	sock, remote := e.sock, e.remote
	go func() {
		backoffSendToOne(sock.fd, e.buf, remote, &e.offset, &e.errno)
		sock.ctx.Mux().Notify(token)
	}()
	return true
}

func (e *udpSendEvent) resume() bool {
	return e.errno != 0 || e.offset >= len(e.buf)
}
