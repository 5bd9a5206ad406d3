package schedule

import (
	"context"
	"net"
	"testing"
	"time"

	"prtip/internal/core/scanner/recon"
	"prtip/internal/core/scanner/recon/aggregate"
)

// listenOnLoopback opens a TCP listener bound to loopback and returns
// its port. Used so the Connect-scan integration test needs no raw
// socket or elevated privilege.
func listenOnLoopback(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port, func() { ln.Close() }
}

// TestEngine_ConnectScan_DistinguishesOpenFromClosed exercises the real
// wiring an operator gets from the CLI: Permutation -> Pool -> Engine ->
// Aggregator, driven by recon.ConnectScanner so the test needs no
// CAP_NET_RAW. One port is a live loopback listener (expect open), the
// other is a port nothing is bound to (expect closed).
func TestEngine_ConnectScan_DistinguishesOpenFromClosed(t *testing.T) {
	openPort, stop := listenOnLoopback(t)
	defer stop()

	closedLn, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	closedPort := closedLn.Addr().(*net.TCPAddr).Port
	closedLn.Close() // released immediately: nothing answers on this port

	targets := []recon.Target{{IP: net.ParseIP("127.0.0.1")}}
	perm, err := NewPermutation(targets, []int{openPort, closedPort}, 1)
	if err != nil {
		t.Fatalf("NewPermutation failed: %v", err)
	}

	pool := NewPool(4, nil, nil, ConnectProbeFunc(recon.NewConnectScanner()))
	agg := aggregate.New(nil, 16)
	defer agg.Close()

	engine := NewEngine(pool, perm, agg, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := engine.Run(ctx, time.Second); err != nil {
		t.Fatalf("engine.Run failed: %v", err)
	}

	openResult, ok := agg.Snapshot("127.0.0.1", openPort)
	if !ok {
		t.Fatalf("no result recorded for open port %d", openPort)
	}
	if openResult.State != recon.StateOpen {
		t.Errorf("expected open port %d to report StateOpen, got %s", openPort, openResult.State)
	}

	closedResult, ok := agg.Snapshot("127.0.0.1", closedPort)
	if !ok {
		t.Fatalf("no result recorded for closed port %d", closedPort)
	}
	if closedResult.State != recon.StateClosed {
		t.Errorf("expected closed port %d to report StateClosed, got %s", closedPort, closedResult.State)
	}
}
