package ice

import (
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *Context {
	t.Helper()
	ctx, err := New(DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.Run()
	}()
	t.Cleanup(func() {
		ctx.Stop()
		wg.Wait()
	})
	time.Sleep(10 * time.Millisecond)
	return ctx
}

func TestTCPEchoRoundTrip(t *testing.T) {
	ctx := newTestContext(t)

	listener, err := ListenTCP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0), 0)
	require.NoError(t, err)
	defer listener.Close()

	addr, err := listener.Addr()
	require.NoError(t, err)

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, _, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 64)
		n, err := conn.Recv(buf)
		if err != nil {
			return
		}
		conn.Send(buf[:n])
	}()

	client, err := DialTCP(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Send([]byte("hello ice")))

	buf := make([]byte, 64)
	n, err := client.Recv(buf)
	require.NoError(t, err)
	require.Equal(t, "hello ice", string(buf[:n]))

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
}

func TestTCPRecvReturnsZeroWithoutErrorOnOrderlyShutdown(t *testing.T) {
	ctx := newTestContext(t)

	listener, err := ListenTCP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0), 0)
	require.NoError(t, err)
	defer listener.Close()

	addr, err := listener.Addr()
	require.NoError(t, err)

	go func() {
		conn, _, err := listener.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	client, err := DialTCP(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	buf := make([]byte, 16)
	n, err := client.Recv(buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestTCPRecvReturnsZeroWithoutErrorAfterShutdownSend(t *testing.T) {
	ctx := newTestContext(t)

	listener, err := ListenTCP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0), 0)
	require.NoError(t, err)
	defer listener.Close()

	addr, err := listener.Addr()
	require.NoError(t, err)

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		conn, _, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Shutdown(ShutdownSend)
	}()

	client, err := DialTCP(ctx, addr)
	require.NoError(t, err)
	defer client.Close()

	buf := make([]byte, 16)
	n, err := client.Recv(buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
}
