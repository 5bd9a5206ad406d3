package recon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"prtip/internal/core/lib/network/dialer"
)

// ConnectScanner implements the TCP Connect scan: a full three-way
// handshake through the kernel's own stack instead of a raw SYN, for
// operation without CAP_NET_RAW (spec §4.5). It reuses the teacher's
// shared dialer pool rather than opening one net.Dialer per probe.
type ConnectScanner struct{}

func NewConnectScanner() *ConnectScanner {
	return &ConnectScanner{}
}

// Probe attempts a full connect to target:port. A successful connect is
// Open; ECONNREFUSED is Closed; anything else that isn't a plain timeout
// is folded into Filtered — the Connect state machine (connectState) only
// distinguishes RST-equivalent from everything else because the kernel,
// not this process, is the one that saw the wire-level signal (spec §4.5
// "Connect: same transitions as SYN, but via the kernel stack").
func (s *ConnectScanner) Probe(ctx context.Context, target Target, port int) PortObservation {
	pctx := ProbeContext{Target: target, Port: port, Kind: ScanConnect, SentAt: time.Now()}

	addr := net.JoinHostPort(target.IP.String(), fmt.Sprintf("%d", port))
	start := time.Now()

	conn, err := dialer.Get().DialContext(ctx, "tcp", addr)
	latency := time.Since(start)
	if err == nil {
		conn.Close()
		return Dispatch(Response{Signal: SignalSYNACK, Latency: latency}, pctx)
	}

	if ctx.Err() != nil {
		return Dispatch(Response{Signal: SignalNone, Latency: latency}, pctx)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return Dispatch(Response{Signal: SignalRST, Latency: latency}, pctx)
	}
	return Dispatch(Response{Signal: SignalNone, Latency: latency}, pctx)
}
