package ice

import "sync/atomic"

// ShutdownDirection selects which half of a connection Shutdown disables.
type ShutdownDirection int

const (
	// ShutdownRecv disables further reads; data already queued by the peer
	// is discarded and a subsequent Recv reports 0 bytes.
	ShutdownRecv ShutdownDirection = iota
	// ShutdownSend disables further writes and sends the peer a FIN,
	// producing the zero-byte completion its next Recv observes.
	ShutdownSend
	// ShutdownBoth disables both halves at once.
	ShutdownBoth
)

// Socket is the shared handle wrapper the TCP and UDP listener/connection
// types embed: a Context-owned, non-blocking file descriptor plus the
// bookkeeping needed to arm/disarm it against the Context's multiplexor
// exactly once per operation. It is not meant to be used directly; it only
// exists to avoid duplicating Close/Fd/Context across the TCP and UDP
// types.
type Socket struct {
	ctx    *Context
	fd     int
	closed atomic.Bool
}

// Context returns the Context this socket was created against.
func (s *Socket) Context() *Context { return s.ctx }

// Fd returns the raw platform file descriptor/handle, exposed for the
// benefit of net/ssh-style adapters layered on top of a Conn.
func (s *Socket) Fd() int { return s.fd }

// Close disarms and releases the socket. Safe to call more than once.
func (s *Socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.ctx.Mux().Disarm(s.fd)
	return closeFd(s.fd)
}

func (s *Socket) isClosed() bool { return s.closed.Load() }

// Shutdown disables recv, send, or both on the underlying socket without
// releasing the file descriptor; Close still has to be called separately.
// A server calling Shutdown(ShutdownSend) is what produces the zero-byte
// completion its peer's next Recv observes.
func (s *Socket) Shutdown(dir ShutdownDirection) error {
	if s.isClosed() {
		return NewSystemError("socket.shutdown", CodeClosed, nil)
	}
	if err := shutdownFd(s.fd, dir); err != nil {
		return WrapError("socket.shutdown", err)
	}
	return nil
}

// SetOption sets a raw integer socket option at the given level (e.g.
// unix.SOL_SOCKET / SO_RCVBUF), mirroring the original's generic
// socket::set_option surface.
func (s *Socket) SetOption(level, name, value int) error {
	if err := setSockOptInt(s.fd, level, name, value); err != nil {
		return WrapError("socket.set_option", err)
	}
	return nil
}

// Option reads back a raw integer socket option at the given level.
func (s *Socket) Option(level, name int) (int, error) {
	v, err := sockOptInt(s.fd, level, name)
	if err != nil {
		return 0, WrapError("socket.option", err)
	}
	return v, nil
}

// LocalEndpoint returns the address the socket is bound to.
func (s *Socket) LocalEndpoint() (Endpoint, error) {
	ep, err := localAddr(s.fd)
	if err != nil {
		return Endpoint{}, WrapError("socket.local_endpoint", err)
	}
	return ep, nil
}
