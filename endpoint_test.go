package ice

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndpointRoundTrip(t *testing.T) {
	addr := netip.MustParseAddr("127.0.0.1")
	ep := NewEndpoint(addr, 9000)

	require.Equal(t, addr, ep.Addr())
	require.EqualValues(t, 9000, ep.Port())
	require.True(t, ep.IsValid())
	require.Equal(t, "127.0.0.1:9000", ep.String())
}

func TestEndpointFromAddrPort(t *testing.T) {
	ap := netip.MustParseAddrPort("[::1]:22")
	ep := EndpointFromAddrPort(ap)
	require.Equal(t, ap, ep.AddrPort())
}

func TestZeroEndpointIsInvalid(t *testing.T) {
	var ep Endpoint
	require.False(t, ep.IsValid())
}

func TestEndpointFamily(t *testing.T) {
	v4 := NewEndpoint(netip.MustParseAddr("127.0.0.1"), 9000)
	require.Equal(t, FamilyIPv4, v4.Family())

	v6 := NewEndpoint(netip.MustParseAddr("::1"), 9000)
	require.Equal(t, FamilyIPv6, v6.Family())
}
