package recon

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"syscall"
	"time"

	"prtip/internal/core/lib/network/netraw"
	"prtip/internal/core/lib/network/transport"
)

// IdleScanner drives the zombie/idle scan (spec §4.5): probe the
// zombie's IP-ID, send a SYN to target:port spoofed as coming from the
// zombie, then re-probe the zombie's IP-ID and let ZombieProbe.Evaluate
// turn the delta into a verdict. The three steps below are exactly
// idle.go's pure evaluator driven by real IP-ID samples instead of test
// fixtures.
type IdleScanner struct {
	sock    *transport.Socket
	router  *ResponseRouter
	zombie  net.IP
	localIP net.IP
	probe   *ZombieProbe
}

func NewIdleScanner(sock *transport.Socket, router *ResponseRouter, zombie, localIP net.IP, probe *ZombieProbe) *IdleScanner {
	return &IdleScanner{sock: sock, router: router, zombie: zombie, localIP: localIP, probe: probe}
}

// Probe executes the three-step idle scan against one target port.
func (s *IdleScanner) Probe(ctx context.Context, target Target, port int, timeout time.Duration) (PortObservation, error) {
	pctx := ProbeContext{Target: target, Port: port, Kind: ScanIdle, SentAt: time.Now()}

	baseline, err := s.sampleZombieIPID(ctx, timeout)
	if err != nil {
		return PortObservation{}, fmt.Errorf("recon: idle scan baseline probe: %w", err)
	}
	s.probe.RecordBaseline(baseline)

	if err := s.sendSpoofedSYN(ctx, target, port); err != nil {
		return PortObservation{}, fmt.Errorf("recon: idle scan spoofed syn: %w", err)
	}
	time.Sleep(ProbeInterval)

	reprobe, err := s.sampleZombieIPID(ctx, timeout)
	if err != nil {
		return PortObservation{}, fmt.Errorf("recon: idle scan re-probe: %w", err)
	}

	result := s.probe.Evaluate(reprobe)
	state := result.State
	cause := result.Cause
	if result.Err != nil {
		state = StateUnknown
		cause = result.Err.Error()
	}
	return PortObservation{Target: target, Port: port, Kind: ScanIdle, State: state, Cause: cause, Timestamp: pctx.SentAt}, nil
}

// sampleZombieIPID sends a probe the zombie will answer (a SYN to a
// closed port elicits an immediate RST|ACK, incrementing the IP-ID
// counter exactly once) and reads the IP-ID off the reply.
func (s *IdleScanner) sampleZombieIPID(ctx context.Context, timeout time.Duration) (uint16, error) {
	srcPort := 40000 + rand.Intn(20000)
	zombieDst := s.zombie.To4()
	if zombieDst == nil {
		return 0, fmt.Errorf("idle scan requires an ipv4 zombie, got %v", s.zombie)
	}

	// Port 1 is very likely closed on the zombie — any closed-port RST works.
	seq := rand.Uint32()
	tcpHeader, err := netraw.BuildTCPHeaderWithChecksum(s.localIP, zombieDst, srcPort, 1, seq, 0, tcpFlagSYN, 65535, 0, nil)
	if err != nil {
		return 0, err
	}
	frame, err := netraw.BuildIPv4Packet(s.localIP, zombieDst, syscall.IPPROTO_TCP, tcpHeader)
	if err != nil {
		return 0, err
	}

	ch := s.router.Register(routeTCP, seq, zombieDst)
	defer s.router.Deregister(routeTCP, seq)

	if err := s.sock.Send(ctx, zombieDst, frame); err != nil {
		return 0, err
	}

	// The router's dispatch stamps every TCP Response with the replying
	// frame's IP-ID (Response.ZombieIPID) regardless of scan kind, since
	// only the idle scan consumes it — every other driver just ignores
	// the field.
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, fmt.Errorf("idle scan: zombie %s did not respond within %s", s.zombie, timeout)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case resp := <-ch:
			if resp.Signal == SignalRST || resp.Signal == SignalRSTACK {
				return resp.ZombieIPID, nil
			}
		case <-time.After(remaining):
			return 0, fmt.Errorf("idle scan: zombie %s did not respond within %s", s.zombie, timeout)
		}
	}
}

// sendSpoofedSYN sends a SYN to target:port with the IP source address
// forged as the zombie's — the target's reply (SYN|ACK if open, RST if
// closed) goes to the zombie, not to us, which is exactly the point: the
// zombie's IP-ID only moves if it received an unsolicited SYN|ACK to RST.
func (s *IdleScanner) sendSpoofedSYN(ctx context.Context, target Target, port int) error {
	dst := target.IP.To4()
	if dst == nil {
		return fmt.Errorf("idle scan requires an ipv4 target, got %v", target.IP)
	}
	zombieDst := s.zombie.To4()

	tcpHeader, err := netraw.BuildTCPHeaderWithChecksum(zombieDst, dst, 40000+rand.Intn(20000), port, rand.Uint32(), 0, tcpFlagSYN, 65535, 0, nil)
	if err != nil {
		return err
	}
	frame, err := netraw.BuildIPv4Packet(zombieDst, dst, syscall.IPPROTO_TCP, tcpHeader)
	if err != nil {
		return err
	}
	return s.sock.Send(ctx, dst, frame)
}
