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

const (
	tcpFlagPSH = 0x08
	tcpFlagURG = 0x20
	tcpFlagNUL = 0x00
	tcpFlagXmas = tcpFlagFIN | tcpFlagPSH | tcpFlagURG
)

// flagsFor maps a ScanKind to the TCP flags its probe carries. Only the
// four flag-based scans (FIN/NULL/Xmas/ACK) are valid here — SYN and
// Connect have their own drivers with different send/receive shapes.
func flagsFor(kind ScanKind) (int, error) {
	switch kind {
	case ScanFIN:
		return tcpFlagFIN, nil
	case ScanNULL:
		return tcpFlagNUL, nil
	case ScanXmas:
		return tcpFlagXmas, nil
	case ScanACK:
		return tcpFlagACK, nil
	default:
		return 0, fmt.Errorf("recon: flagsFor: unsupported scan kind %s", kind)
	}
}

// FlagScanner drives FIN, NULL, Xmas and ACK scans: all four send one
// bare TCP segment with no payload and differ only in which flags are
// set and how the resulting (RST | silence | ICMP) response maps to a
// PortState — that mapping lives in statemachine.go, not here (spec
// §4.5).
type FlagScanner struct {
	sock      *transport.Socket
	router    *ResponseRouter
	matcher   match.Matcher
	secret    netraw.CookieSecret
	scanEpoch uint32
	localIP   net.IP
}

func NewFlagScanner(sock *transport.Socket, router *ResponseRouter, matcher match.Matcher, secret netraw.CookieSecret, scanEpoch uint32, localIP net.IP) *FlagScanner {
	return &FlagScanner{sock: sock, router: router, matcher: matcher, secret: secret, scanEpoch: scanEpoch, localIP: localIP}
}

// Probe sends one FIN/NULL/Xmas/ACK segment and waits up to timeout for
// a matching RST. A compliant stack's silent drop on an open port is
// indistinguishable from a dropped probe, hence OpenFiltered (spec §4.5).
func (s *FlagScanner) Probe(ctx context.Context, target Target, port int, kind ScanKind, attempt uint8, timeout time.Duration) (PortObservation, error) {
	flags, err := flagsFor(kind)
	if err != nil {
		return PortObservation{}, err
	}

	dst := target.IP.To4()
	if dst == nil {
		return PortObservation{}, fmt.Errorf("recon: flag scan requires an ipv4 target, got %v", target.IP)
	}

	cookie := s.secret.DeriveCookie(dst, uint16(port), s.scanEpoch, attempt)
	srcPort := 40000 + rand.Intn(20000)
	pctx := ProbeContext{Target: target, Port: port, Kind: kind, Attempt: attempt, SentAt: time.Now(), ScanEpoch: s.scanEpoch}

	tcpHeader, err := netraw.BuildTCPHeaderWithChecksum(s.localIP, dst, srcPort, port, cookie, 0, flags, 65535, 0, nil)
	if err != nil {
		return PortObservation{}, err
	}
	frame, err := netraw.BuildIPv4Packet(s.localIP, dst, syscall.IPPROTO_TCP, tcpHeader)
	if err != nil {
		return PortObservation{}, err
	}

	ch := s.router.Register(routeTCP, cookie, dst)
	defer s.router.Deregister(routeTCP, cookie)

	s.matcher.Insert(cookie, match.PendingEntry{Target: dst, Port: port, ScanKind: int(kind), Attempt: attempt, Deadline: time.Now().Add(timeout)})

	sentAt := time.Now()
	if err := transport.SendWithRetry(ctx, s.sock, dst, frame, transport.DefaultRetryPolicy()); err != nil {
		return PortObservation{}, fmt.Errorf("recon: flag probe send: %w", err)
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
