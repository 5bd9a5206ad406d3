package netraw

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// ICMPv6 type/code values used by the Idle/UDP/discovery state machines.
// Values are bit-exact per RFC 4443 (unreachable/echo) and RFC 4861 (NDP).
const (
	ICMPv6DestUnreachable = 1
	ICMPv6EchoRequest     = 128
	ICMPv6EchoReply       = 129
	ICMPv6NeighborSolicit = 135
	ICMPv6NeighborAdvert  = 136
)

// ICMPv4 unreachable codes the UDP/SYN state machines classify as
// Filtered (spec §4.5): 1=host, 2=protocol, 9=net-admin-prohibited,
// 10=host-admin-prohibited, 13=communication-admin-prohibited. Code 3
// (port unreachable) is not in the table; the UDP state machine maps it
// to Closed separately.
var ICMPv4FilteredCodes = map[int]bool{1: true, 2: true, 9: true, 10: true, 13: true}

// BuildICMPv6EchoRequest mirrors BuildICMPEchoRequest for ICMPv6, using
// x/net/icmp's message type so the checksum is computed by the caller
// against the IPv6 pseudo-header (ICMPv6, unlike ICMPv4, requires one).
func BuildICMPv6EchoRequest(srcIP, dstIP []byte, id, seq int, payload []byte) ([]byte, error) {
	m := icmp.Message{
		Type: ipv6.ICMPTypeEchoRequest,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: payload,
		},
	}
	return m.Marshal(icmp.IPv6PseudoHeader(srcIP, dstIP))
}

// ParseICMPv4Unreachable extracts the embedded original-datagram bytes
// (first 8+ bytes of the triggering packet) from an ICMPv4 type-3 message,
// for cookie recovery in stateless response matching (spec §4.4).
func ParseICMPv4Unreachable(b []byte) (code int, embedded []byte, err error) {
	m, err := icmp.ParseMessage(1 /* ProtocolICMP */, b)
	if err != nil {
		return 0, nil, fmt.Errorf("netraw: parse icmpv4: %w", err)
	}
	if m.Type != ipv4.ICMPTypeDestinationUnreachable {
		return 0, nil, fmt.Errorf("netraw: not a destination-unreachable message (type=%v)", m.Type)
	}
	du, ok := m.Body.(*icmp.DstUnreach)
	if !ok {
		return 0, nil, fmt.Errorf("netraw: unexpected icmp body type")
	}
	return m.Code, du.Data, nil
}

// ParseICMPv6Unreachable is ParseICMPv4Unreachable's v6 counterpart.
func ParseICMPv6Unreachable(b []byte) (code int, embedded []byte, err error) {
	m, err := icmp.ParseMessage(58 /* ProtocolIPv6ICMP */, b)
	if err != nil {
		return 0, nil, fmt.Errorf("netraw: parse icmpv6: %w", err)
	}
	if m.Type != ipv6.ICMPTypeDestinationUnreachable {
		return 0, nil, fmt.Errorf("netraw: not a destination-unreachable message (type=%v)", m.Type)
	}
	du, ok := m.Body.(*icmp.DstUnreach)
	if !ok {
		return 0, nil, fmt.Errorf("netraw: unexpected icmp body type")
	}
	return m.Code, du.Data, nil
}

// RecoverIPIDFromUnreachable extracts the IP-ID field of the embedded
// original IPv4 header inside an ICMP unreachable/time-exceeded message
// — used by the idle-scan zombie baseline/re-probe comparison.
func RecoverIPIDFromUnreachable(embedded []byte) (uint16, error) {
	if len(embedded) < 6 {
		return 0, fmt.Errorf("netraw: embedded datagram too short for ip-id: %d bytes", len(embedded))
	}
	return binary.BigEndian.Uint16(embedded[4:6]), nil
}
