package recon

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"syscall"
	"time"

	"prtip/internal/core/lib/network/match"
	"prtip/internal/core/lib/network/netraw"
	"prtip/internal/core/lib/network/transport"
)

// UDPScanner drives the UDP scan: send the per-port probe payload from
// udp_payloads.go, and classify the result per udpState (spec §4.5). UDP
// has no handshake, so "open" and "filtered" are indistinguishable from
// silence alone — only an actual reply or an ICMP unreachable breaks the
// tie, which is why udpState defaults silence to OpenFiltered rather than
// Filtered.
type UDPScanner struct {
	sock      *transport.Socket
	router    *ResponseRouter
	matcher   match.Matcher
	secret    netraw.CookieSecret
	scanEpoch uint32
	localIP   net.IP
}

func NewUDPScanner(sock *transport.Socket, router *ResponseRouter, matcher match.Matcher, secret netraw.CookieSecret, scanEpoch uint32, localIP net.IP) *UDPScanner {
	return &UDPScanner{sock: sock, router: router, matcher: matcher, secret: secret, scanEpoch: scanEpoch, localIP: localIP}
}

// Probe sends the port-appropriate UDP payload (spec §4.5, udp_payloads.go)
// and waits up to timeout for a UDP reply or an ICMP unreachable.
func (s *UDPScanner) Probe(ctx context.Context, target Target, port int, attempt uint8, timeout time.Duration) (PortObservation, error) {
	dst := target.IP.To4()
	if dst == nil {
		return PortObservation{}, fmt.Errorf("recon: udp scan requires an ipv4 target, got %v", target.IP)
	}

	// The cookie rides in the UDP source port rather than a sequence
	// number, since UDP has no 32-bit field a reply reflects back.
	cookie := s.secret.DeriveCookie(dst, uint16(port), s.scanEpoch, attempt)
	srcPort := 1024 + int(cookie%60000)
	pctx := ProbeContext{Target: target, Port: port, Kind: ScanUDP, Attempt: attempt, SentAt: time.Now(), ScanEpoch: s.scanEpoch}

	payload := UDPPayloadFor(port)
	udpHeader, err := netraw.BuildUDPHeader(s.localIP, dst, srcPort, port, payload)
	if err != nil {
		return PortObservation{}, err
	}
	frame, err := netraw.BuildIPv4Packet(s.localIP, dst, syscall.IPPROTO_UDP, udpHeader)
	if err != nil {
		return PortObservation{}, err
	}

	// The router's UDP namespace keys on our own source port, since that
	// is the field a reply or an embedded ICMP unreachable reflects back
	// (UDP carries no sequence number for the cookie to ride in).
	ch := s.router.Register(routeUDP, uint32(srcPort), dst)
	defer s.router.Deregister(routeUDP, uint32(srcPort))

	s.matcher.Insert(cookie, match.PendingEntry{Target: dst, Port: port, ScanKind: int(ScanUDP), Attempt: attempt, Deadline: time.Now().Add(timeout)})

	sentAt := time.Now()
	if err := transport.SendWithRetry(ctx, s.sock, dst, frame, transport.DefaultRetryPolicy()); err != nil {
		return PortObservation{}, fmt.Errorf("recon: udp probe send: %w", err)
	}

	resp, err := awaitOnChannel(ctx, ch, sentAt.Add(timeout), sentAt)
	if err != nil {
		return PortObservation{}, err
	}
	if resp.Signal != SignalNone {
		s.matcher.Match(cookie)
	}
	return Dispatch(resp, pctx), nil
}

// embeddedUDPSourcePort pulls the original datagram's UDP source port out
// of an ICMP unreachable's embedded-packet payload (IPv4 header, then the
// first 2 bytes of the UDP header), so the reply can be matched back to
// the probe that elicited it.
func embeddedUDPSourcePort(embedded []byte) (int, bool) {
	if len(embedded) < 20 {
		return 0, false
	}
	ihl := int(embedded[0]&0x0F) * 4
	if ihl < 20 || len(embedded) < ihl+2 {
		return 0, false
	}
	return int(embedded[ihl])<<8 | int(embedded[ihl+1]), true
}
