package ice

import "net/netip"

// Endpoint is an immutable address/port value type, the thing a socket's
// local or remote address is expressed as. Unlike the original's
// endpoint.h, this type never parses an address string itself —
// endpoint-string parsing is explicitly out of scope; build an Endpoint
// from a netip.Addr/netip.AddrPort (or from DNS resolution results your
// caller already has) instead.
type Endpoint struct {
	addrPort netip.AddrPort
}

// NewEndpoint builds an Endpoint from an address and port.
func NewEndpoint(addr netip.Addr, port uint16) Endpoint {
	return Endpoint{addrPort: netip.AddrPortFrom(addr, port)}
}

// EndpointFromAddrPort builds an Endpoint from an already-resolved
// netip.AddrPort.
func EndpointFromAddrPort(ap netip.AddrPort) Endpoint {
	return Endpoint{addrPort: ap}
}

// Addr returns the endpoint's address.
func (e Endpoint) Addr() netip.Addr { return e.addrPort.Addr() }

// Port returns the endpoint's port.
func (e Endpoint) Port() uint16 { return e.addrPort.Port() }

// AddrPort returns the endpoint as a netip.AddrPort.
func (e Endpoint) AddrPort() netip.AddrPort { return e.addrPort }

// IsValid reports whether the endpoint carries a usable address.
func (e Endpoint) IsValid() bool { return e.addrPort.IsValid() }

// AddrFamily identifies whether the endpoint's address is IPv4 or IPv6,
// the detail Socket needs to pick AF_INET vs AF_INET6 when opening the
// underlying file descriptor.
type AddrFamily int

const (
	FamilyIPv4 AddrFamily = iota
	FamilyIPv6
)

// Family reports whether the endpoint holds an IPv4 or IPv6 address.
func (e Endpoint) Family() AddrFamily {
	if e.addrPort.Addr().Is4() {
		return FamilyIPv4
	}
	return FamilyIPv6
}

func (e Endpoint) String() string { return e.addrPort.String() }

func addrFrom4(b [4]byte) netip.Addr  { return netip.AddrFrom4(b) }
func addrFrom16(b [16]byte) netip.Addr { return netip.AddrFrom16(b) }
