package ice

import (
	"errors"
	"io"
	"net"
	"time"
)

// sshOp tags the single in-flight operation a Transport permits at a time.
// A callback-driven SSH implementation (libssh2 and its cousins) only ever
// has one recv or one send outstanding against a socket at once; a second
// call arriving while one is already in flight is a programming error in
// the caller, not something to queue or retry.
type sshOp int

const (
	sshOpNone sshOp = iota
	sshOpRecv
	sshOpSend
)

// Transport adapts a TCPConn to the single-operation-at-a-time
// on_recv/on_send callback shape a synchronous SSH implementation drives,
// with the actual I/O running through the Context's asynchronous recv/send
// operations underneath. Each callback blocks the calling goroutine until
// its underlying operation completes; neither reports a would-block
// condition to the caller. Bytes that arrive from one
// underlying Recv but aren't fully consumed by the caller's buffer are
// staged in an internal buffer and handed out on the next call, since the
// two buffer sizes rarely match.
//
// Transport also implements net.Conn, which is the shape
// golang.org/x/crypto/ssh actually wants (it drives an io.ReadWriteCloser,
// not a callback pair), so ssh.NewClientConn can be pointed at one
// directly.
type Transport struct {
	conn *TCPConn

	op      sshOp
	staging []byte
}

// NewTransport wraps conn for SSH use.
func NewTransport(conn *TCPConn) *Transport {
	return &Transport{conn: conn, staging: make([]byte, 0, DefaultSSHStagingBufferSize)}
}

var errSSHOpInFlight = errors.New("ssh transport: operation already in flight")

// OnRecv mirrors a libssh2-style recv callback: deliver whatever is
// already staged, otherwise perform exactly one underlying Recv and stage
// any leftover. The underlying Recv blocks until data or the peer's
// shutdown arrives, so OnRecv never returns CodeWouldBlock; a zero-byte,
// error-free result means the peer shut its send side down.
func (t *Transport) OnRecv(buf []byte) (int, error) {
	if t.op != sshOpNone {
		t.conn.ctx.logger().Error("ssh transport: recv while an operation is in flight")
		return 0, NewSystemError("ssh.transport.on_recv", CodeInvalidArg, errSSHOpInFlight)
	}
	if len(t.staging) > 0 {
		n := copy(buf, t.staging)
		t.staging = t.staging[n:]
		return n, nil
	}

	t.op = sshOpRecv
	stage := make([]byte, DefaultSSHStagingBufferSize)
	n, err := t.conn.Recv(stage)
	t.op = sshOpNone
	if err != nil {
		return 0, err
	}

	got := copy(buf, stage[:n])
	if got < n {
		t.staging = append(t.staging, stage[got:n]...)
	}
	return got, nil
}

// OnSend mirrors a libssh2-style send callback: one underlying SendSome
// call, returning whatever forward progress it made.
func (t *Transport) OnSend(buf []byte) (int, error) {
	if t.op != sshOpNone {
		t.conn.ctx.logger().Error("ssh transport: send while an operation is in flight")
		return 0, NewSystemError("ssh.transport.on_send", CodeInvalidArg, errSSHOpInFlight)
	}
	t.op = sshOpSend
	n, err := t.conn.SendSome(buf)
	t.op = sshOpNone
	return n, err
}

// Read implements net.Conn via OnRecv. A zero-byte, error-free result means
// the peer shut its send side down (OnRecv's underlying Recv already
// blocked until data or shutdown was observed, so this can't be a
// would-block), which is reported as io.EOF: golang.org/x/crypto/ssh's
// clean-close detection on a net.Conn looks for exactly that, not ErrEOF.
func (t *Transport) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := t.OnRecv(p)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements net.Conn, looping OnSend until p is fully written,
// matching TCPConn.Send's full-drain contract rather than OnSend's
// single-call, partial-progress one.
func (t *Transport) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := t.OnSend(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, NewSystemError("ssh.transport.write", CodeIOError, errors.New("no forward progress"))
		}
	}
	return total, nil
}

func (t *Transport) Close() error { return t.conn.Close() }

func (t *Transport) LocalAddr() net.Addr { return sshAddr{} }

func (t *Transport) RemoteAddr() net.Addr { return sshAddr{ep: t.conn.remote} }

// Deadlines are not wired through the Context's event machinery; SSH
// traffic relies on the protocol's own keepalive/timeout handling instead.
func (t *Transport) SetDeadline(time.Time) error      { return nil }
func (t *Transport) SetReadDeadline(time.Time) error  { return nil }
func (t *Transport) SetWriteDeadline(time.Time) error { return nil }

type sshAddr struct{ ep Endpoint }

func (a sshAddr) Network() string { return "tcp" }
func (a sshAddr) String() string  { return a.ep.String() }

var _ net.Conn = (*Transport)(nil)
