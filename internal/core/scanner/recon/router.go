package recon

import (
	"context"
	"net"
	"sync"
	"time"

	"prtip/internal/core/lib/network/netraw"
	"prtip/internal/core/lib/network/transport"
)

// routeKind separates the TCP ack-reflects-seq namespace from the UDP
// port namespace, so an unlucky numeric collision between an ack value
// and a port number can never cross-deliver a reply to the wrong waiter.
type routeKind uint8

const (
	routeTCP routeKind = iota
	routeUDP
)

type routeKey struct {
	kind routeKind
	key  uint32
}

type waiter struct {
	ch  chan Response
	dst net.IP
}

// ResponseRouter runs a single transport.ReceiveLoop per raw socket and
// fans out parsed frames to whichever probe is waiting for them, keyed by
// the cookie/port it sent. This is spec §9's "async recv loop": exactly
// one goroutine ever calls sock.Recv; every concurrent probe blocks on
// its own channel instead of re-entering Recv itself, which is what let
// one probe's reply be stolen and discarded by another probe's blocked
// read when many probes shared a socket directly.
type ResponseRouter struct {
	loop *transport.ReceiveLoop

	mu      sync.Mutex
	waiters map[routeKey]waiter
}

// NewResponseRouter builds a router reading up to bufSize bytes per frame
// off sock, with up to chanDepth frames buffered between the receive
// loop and the router's own dispatch step.
func NewResponseRouter(sock *transport.Socket, bufSize, chanDepth int) *ResponseRouter {
	return &ResponseRouter{
		loop:    transport.NewReceiveLoop(sock, bufSize, chanDepth),
		waiters: make(map[routeKey]waiter),
	}
}

// Run starts the underlying receive loop and dispatches every parsed
// frame to a registered waiter until the loop's frame channel closes
// (ctx canceled or a permanent socket error). Intended to run in its own
// goroutine for the lifetime of the scan.
func (r *ResponseRouter) Run(ctx context.Context, perReadTimeout time.Duration) {
	go r.loop.Run(ctx, perReadTimeout)
	for frame := range r.loop.Frames() {
		parsed, err := netraw.ParseFrame(frame.Bytes)
		if err != nil {
			continue
		}
		r.dispatch(parsed)
	}
}

func (r *ResponseRouter) dispatch(parsed *netraw.ParsedFrame) {
	var rk routeKey
	resp := Response{}

	switch parsed.Kind {
	case netraw.L4TCP:
		rk = routeKey{routeTCP, parsed.TCP.Ack - 1}
		switch {
		case parsed.TCP.Flags&(tcpFlagSYN|tcpFlagACK) == (tcpFlagSYN | tcpFlagACK):
			resp.Signal = SignalSYNACK
		case parsed.TCP.Flags&tcpFlagRST != 0 && parsed.TCP.Flags&tcpFlagACK != 0:
			resp.Signal = SignalRSTACK
		case parsed.TCP.Flags&tcpFlagRST != 0:
			resp.Signal = SignalRST
		default:
			return // bare ACK or other flag combination no state machine acts on
		}
		resp.ZombieIPID = uint16(parsed.IP.ID)
	case netraw.L4UDP:
		rk = routeKey{routeUDP, uint32(parsed.UDP.DstPort)}
		resp.Signal = SignalUDPReply
		resp.Banner = parsed.UDP.Payload
	case netraw.L4ICMP:
		if parsed.ICMP.Type != 3 { // destination unreachable
			return
		}
		embeddedPort, ok := embeddedUDPSourcePort(parsed.ICMP.Payload)
		if !ok {
			return
		}
		rk = routeKey{routeUDP, uint32(embeddedPort)}
		resp.Signal = SignalICMPUnreachable
		resp.ICMPCode = int(parsed.ICMP.Code)
	default:
		return
	}

	r.mu.Lock()
	w, ok := r.waiters[rk]
	r.mu.Unlock()
	if !ok || !w.dst.Equal(parsed.IP.Src) {
		return
	}
	select {
	case w.ch <- resp:
	default:
		// waiter already got a reply (or gave up) on this key; drop.
	}
}

// Register reserves a routing key for one outstanding probe awaiting a
// reply from dst, returning the channel the probe should wait on. The
// returned channel receives at most one Response.
func (r *ResponseRouter) Register(kind routeKind, key uint32, dst net.IP) <-chan Response {
	ch := make(chan Response, 1)
	r.mu.Lock()
	r.waiters[routeKey{kind, key}] = waiter{ch: ch, dst: dst}
	r.mu.Unlock()
	return ch
}

// Deregister releases a routing key once its probe is done waiting
// (matched, timed out, or canceled), so the map doesn't grow unbounded
// over a long scan.
func (r *ResponseRouter) Deregister(kind routeKind, key uint32) {
	r.mu.Lock()
	delete(r.waiters, routeKey{kind, key})
	r.mu.Unlock()
}

// awaitOnChannel blocks until a matching Response arrives on ch, the
// deadline passes (returned as SignalNone, not an error — spec §4.5
// treats a timeout as the expected "no reply" edge case), or ctx is
// canceled.
func awaitOnChannel(ctx context.Context, ch <-chan Response, deadline time.Time, sentAt time.Time) (Response, error) {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return Response{Signal: SignalNone, Latency: time.Since(sentAt)}, nil
		}
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case resp := <-ch:
			resp.Latency = time.Since(sentAt)
			return resp, nil
		case <-time.After(remaining):
			return Response{Signal: SignalNone, Latency: time.Since(sentAt)}, nil
		}
	}
}
