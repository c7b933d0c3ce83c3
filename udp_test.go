package ice

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUDPEchoRoundTrip(t *testing.T) {
	ctx := newTestContext(t)

	server, err := ListenUDP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)
	defer server.Close()
	serverAddr, err := server.Addr()
	require.NoError(t, err)

	client, err := ListenUDP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)
	defer client.Close()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		buf := make([]byte, 64)
		n, from, err := server.Recv(buf)
		if err != nil {
			return
		}
		server.Send(buf[:n], from)
	}()

	require.NoError(t, client.Send([]byte("ping"), serverAddr))

	buf := make([]byte, 64)
	n, _, err := client.Recv(buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf[:n]))

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
}

func TestUDPSendAdvancesOffsetAndLength(t *testing.T) {
	ctx := newTestContext(t)

	server, err := ListenUDP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)
	defer server.Close()
	serverAddr, err := server.Addr()
	require.NoError(t, err)

	client, err := ListenUDP(ctx, NewEndpoint(netip.MustParseAddr("127.0.0.1"), 0))
	require.NoError(t, err)
	defer client.Close()

	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}

	done := make(chan struct{})
	var received []byte
	go func() {
		defer close(done)
		buf := make([]byte, 2048)
		n, _, err := server.Recv(buf)
		if err != nil {
			return
		}
		received = append([]byte(nil), buf[:n]...)
	}()

	require.NoError(t, client.Send(payload, serverAddr))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("server goroutine never finished")
	}
	require.Equal(t, payload, received)
}
