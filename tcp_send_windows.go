//go:build windows

package ice

import "syscall"

// tcpSendEvent drives TCPConn.Send: one send attempt per suspend, posted
// from a dedicated goroutine since this backend has no generic "armed for
// write" registration to wait on directly. resume reports false (re-arming
// via another suspend/goroutine round) until offset reaches len(buf),
// honoring the same resume-false full-write-loop contract the readiness
// backends implement through their Arm/ready path.
type tcpSendEvent struct {
	conn *TCPConn
	buf  []byte

	offset int
	errno  syscall.Errno
}

func (e *tcpSendEvent) ready() bool { return false }

func (e *tcpSendEvent) suspend(token uintptr) bool {
	conn := e.conn
	go func() {
		backoffSendOne(conn.fd, e.buf, &e.offset, &e.errno)
		conn.ctx.Mux().Notify(token)
	}()
	return true
}

func (e *tcpSendEvent) resume() bool {
	return e.errno != 0 || e.offset >= len(e.buf)
}
