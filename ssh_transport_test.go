package ice

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func dialTestPair(t *testing.T, ctx *Context) (*TCPConn, *TCPConn) {
	t.Helper()
	listener, err := ListenTCP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0), 0)
	require.NoError(t, err)
	addr, err := listener.Addr()
	require.NoError(t, err)

	serverCh := make(chan *TCPConn, 1)
	go func() {
		conn, _, err := listener.Accept()
		if err == nil {
			serverCh <- conn
		}
	}()

	client, err := DialTCP(ctx, addr)
	require.NoError(t, err)

	var server *TCPConn
	select {
	case server = <-serverCh:
	case <-time.After(2 * time.Second):
		t.Fatal("accept never completed")
	}
	listener.Close()
	return client, server
}

func TestSSHTransportStagesLeftoverBytes(t *testing.T) {
	ctx := newTestContext(t)
	client, server := dialTestPair(t, ctx)
	defer client.Close()
	defer server.Close()

	transport := NewTransport(client)

	require.NoError(t, server.Send([]byte("0123456789")))

	small := make([]byte, 4)
	n, err := transport.OnRecv(small)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "0123", string(small[:n]))

	// The rest of the bytes should now be staged rather than requiring
	// another underlying Recv.
	rest := make([]byte, 16)
	n, err = transport.OnRecv(rest)
	require.NoError(t, err)
	require.Equal(t, "456789", string(rest[:n]))
}

func TestSSHTransportRejectsConcurrentOps(t *testing.T) {
	ctx := newTestContext(t)
	client, server := dialTestPair(t, ctx)
	defer client.Close()
	defer server.Close()

	transport := NewTransport(client)
	transport.op = sshOpRecv // simulate an in-flight recv

	_, err := transport.OnRecv(make([]byte, 8))
	require.Error(t, err)
	require.True(t, IsCode(err, CodeInvalidArg))
}

func TestSSHTransportNetConnRoundTrip(t *testing.T) {
	ctx := newTestContext(t)
	client, server := dialTestPair(t, ctx)
	defer client.Close()
	defer server.Close()

	clientTransport := NewTransport(client)
	serverTransport := NewTransport(server)

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 32)
		n, err := serverTransport.Read(buf)
		if err != nil {
			return
		}
		serverTransport.Write(buf[:n])
	}()

	n, err := clientTransport.Write([]byte("ssh handshake bytes"))
	require.NoError(t, err)
	require.Equal(t, len("ssh handshake bytes"), n)

	buf := make([]byte, 32)
	n, err = clientTransport.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ssh handshake bytes", string(buf[:n]))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
}
