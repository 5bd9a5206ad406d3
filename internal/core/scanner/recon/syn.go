package recon

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"prtip/internal/core/lib/network/match"
	"prtip/internal/core/lib/network/netraw"
	"prtip/internal/core/lib/network/transport"
)

const (
	tcpFlagFIN = 0x01
	tcpFlagSYN = 0x02
	tcpFlagRST = 0x04
	tcpFlagACK = 0x10
)

// SYNScanner sends TCP SYN probes and turns the response (or its
// absence) into a PortObservation via the synState machine. It is the
// full-scan counterpart of alive.TcpSynProber, which only asks "is this
// host up" — this one asks "is this port open" and tracks the cookie
// through the Response Matcher (spec §4.5). Only TCP replies reach it:
// ResponseRouter hands ICMP unreachables to UDP waiters, so a SYN probe
// that draws ICMP ends as a timeout (Filtered).
type SYNScanner struct {
	sock      *transport.Socket
	router    *ResponseRouter
	matcher   match.Matcher
	secret    netraw.CookieSecret
	scanEpoch uint32
	localIP   net.IP
	retry     func() backoff.BackOff
}

// NewSYNScanner builds a scanner bound to an already-open raw socket, the
// ResponseRouter fanning out that socket's single receive loop, and a
// Response Matcher (stateful or stateless — SYNScanner is mode-agnostic
// per spec §4.4). router must be the same one Run by the caller for the
// lifetime of the scan (spec §9's single receiver task).
func NewSYNScanner(sock *transport.Socket, router *ResponseRouter, matcher match.Matcher, secret netraw.CookieSecret, scanEpoch uint32, localIP net.IP) *SYNScanner {
	return &SYNScanner{
		sock:      sock,
		router:    router,
		matcher:   matcher,
		secret:    secret,
		scanEpoch: scanEpoch,
		localIP:   localIP,
		retry:     transport.DefaultRetryPolicy,
	}
}

// Probe sends one SYN at target:port and waits up to timeout for a
// matching reply, returning the resulting PortObservation. attempt feeds
// the cookie derivation so retries of the same port don't collide with
// the original probe's cookie.
func (s *SYNScanner) Probe(ctx context.Context, target Target, port int, attempt uint8, timeout time.Duration) (PortObservation, error) {
	dst := target.IP.To4()
	if dst == nil {
		return PortObservation{}, fmt.Errorf("recon: syn scan requires an ipv4 target, got %v", target.IP)
	}

	cookie := s.secret.DeriveCookie(dst, uint16(port), s.scanEpoch, attempt)
	srcPort := 40000 + rand.Intn(20000)

	pctx := ProbeContext{Target: target, Port: port, Kind: ScanSYN, Attempt: attempt, SentAt: time.Now(), ScanEpoch: s.scanEpoch}

	tcpHeader, err := netraw.BuildTCPHeaderWithChecksum(s.localIP, dst, srcPort, port, cookie, 0, tcpFlagSYN, 65535, 0, nil)
	if err != nil {
		return PortObservation{}, err
	}
	frame, err := netraw.BuildIPv4Packet(s.localIP, dst, syscall.IPPROTO_TCP, tcpHeader)
	if err != nil {
		return PortObservation{}, err
	}

	ch := s.router.Register(routeTCP, cookie, dst)
	defer s.router.Deregister(routeTCP, cookie)

	s.matcher.Insert(cookie, match.PendingEntry{Target: dst, Port: port, ScanKind: int(ScanSYN), Attempt: attempt, Deadline: time.Now().Add(timeout)})

	sentAt := time.Now()
	if err := transport.SendWithRetry(ctx, s.sock, dst, frame, s.retry()); err != nil {
		return PortObservation{}, fmt.Errorf("recon: syn probe send: %w", err)
	}

	resp, err := awaitOnChannel(ctx, ch, sentAt.Add(timeout), sentAt)
	if err != nil {
		return PortObservation{}, err
	}
	if resp.Signal != SignalNone {
		s.matcher.Match(cookie) // release the stateful pending-entry table; stateless Match is a no-op
	}
	if resp.Signal == SignalSYNACK {
		// Reset the half-open connection instead of completing the handshake.
		rst, rstErr := netraw.BuildTCPHeaderWithChecksum(s.localIP, dst, srcPort, port, cookie+1, 0, tcpFlagRST, 0, 0, nil)
		if rstErr == nil {
			if rstFrame, frameErr := netraw.BuildIPv4Packet(s.localIP, dst, syscall.IPPROTO_TCP, rst); frameErr == nil {
				_ = s.sock.Send(ctx, dst, rstFrame)
			}
		}
	}
	return Dispatch(resp, pctx), nil
}
