package ice

// TCPListener is a bound, listening TCP socket. Accept returns one
// connection at a time; run several goroutines calling Accept against the
// same Listener to fan incoming connections out across a worker pool.
type TCPListener struct {
	Socket
	local Endpoint
}

// ListenTCP creates a listening socket bound to local and backed by ctx.
func ListenTCP(ctx *Context, local Endpoint, backlog int) (*TCPListener, error) {
	if backlog <= 0 {
		backlog = 128
	}
	fd, err := newStreamSocket(addrFamily(local))
	if err != nil {
		return nil, WrapError("tcp.listen", err)
	}
	if err := bindAndListen(fd, local, backlog); err != nil {
		closeFd(fd)
		return nil, WrapError("tcp.listen", err)
	}
	return &TCPListener{Socket: Socket{ctx: ctx, fd: fd}, local: local}, nil
}

// Addr returns the address the listener is actually bound to, useful after
// binding to port 0 to discover the OS-assigned port.
func (l *TCPListener) Addr() (Endpoint, error) {
	return localAddr(l.fd)
}

// Accept waits for and accepts the next inbound connection.
func (l *TCPListener) Accept() (*TCPConn, Endpoint, error) {
	start := nowNs()
	ev := &tcpAcceptEvent{listener: l}
	l.ctx.await(ev)

	var err error
	if ev.errno != 0 {
		err = NewNativeError("tcp.accept", ev.errno)
	}
	l.ctx.observer().ObserveAccept(nowNs()-start, err)
	if err != nil {
		l.ctx.logger().Error("tcp: accept failed", "error", err)
		return nil, Endpoint{}, err
	}
	return &TCPConn{Socket: Socket{ctx: l.ctx, fd: ev.connFd}, remote: ev.remote}, ev.remote, nil
}

// TCPConn is a connected TCP socket, either produced by Accept or by
// DialTCP.
type TCPConn struct {
	Socket
	remote Endpoint
}

// DialTCP opens a connection to remote.
func DialTCP(ctx *Context, remote Endpoint) (*TCPConn, error) {
	start := nowNs()
	fd, err := newStreamSocket(addrFamily(remote))
	if err != nil {
		return nil, WrapError("tcp.dial", err)
	}
	conn := &TCPConn{Socket: Socket{ctx: ctx, fd: fd}, remote: remote}
	ev := &tcpConnectEvent{conn: conn, remote: remote}
	ctx.await(ev)

	var connErr error
	if ev.errno != 0 {
		connErr = NewNativeError("tcp.connect", ev.errno)
	}
	ctx.observer().ObserveConnect(nowNs()-start, connErr)
	if connErr != nil {
		ctx.logger().Error("tcp: connect failed", "remote", remote.String(), "error", connErr)
		conn.Close()
		return nil, connErr
	}
	return conn, nil
}

// Recv reads into buf once. It never retries internally: a short read is
// returned as-is, and a zero-byte, error-free read reports (0, nil) rather
// than an error — that's the peer's orderly shutdown, and recv's job is
// only to report it, not to treat it as a failure. Callers that need "read
// exactly N bytes or fail" semantics build that on top of Recv themselves;
// Recv's contract stops at one read.
func (c *TCPConn) Recv(buf []byte) (int, error) {
	start := nowNs()
	ev := &tcpRecvEvent{conn: c, buf: buf}
	c.ctx.await(ev)

	var err error
	if ev.errno != 0 {
		err = NewNativeError("tcp.recv", ev.errno)
	}
	c.ctx.observer().ObserveRecv(ev.n, nowNs()-start, err)
	if err != nil {
		return 0, err
	}
	return ev.n, nil
}

// Send writes all of buf, retrying internally against short writes until
// every byte has been accepted by the socket or an error occurs.
func (c *TCPConn) Send(buf []byte) error {
	start := nowNs()
	ev := &tcpSendEvent{conn: c, buf: buf}
	c.ctx.await(ev)

	var err error
	if ev.errno != 0 {
		err = NewNativeError("tcp.send", ev.errno)
	}
	c.ctx.observer().ObserveSend(ev.offset, nowNs()-start, err)
	return err
}

// SendSome writes as much of buf as a single underlying send call accepts
// and returns as soon as any forward progress (at least one byte) is made,
// unlike Send which only returns once buf is fully drained.
func (c *TCPConn) SendSome(buf []byte) (int, error) {
	start := nowNs()
	ev := &tcpSendSomeEvent{conn: c, buf: buf}
	c.ctx.await(ev)

	var err error
	if ev.errno != 0 {
		err = NewNativeError("tcp.send_some", ev.errno)
	}
	c.ctx.observer().ObserveSend(ev.n, nowNs()-start, err)
	if err != nil {
		return 0, err
	}
	return ev.n, nil
}
