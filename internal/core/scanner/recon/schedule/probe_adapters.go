package schedule

import (
	"context"
	"time"

	"prtip/internal/core/scanner/recon"
)

// SYNProbeFunc adapts a recon.SYNScanner into the ProbeFunc shape Pool
// expects, fixing the per-probe timeout and attempt number the Engine
// was configured with. Kept separate from recon.SYNScanner itself so
// recon never has to import schedule (schedule already imports recon —
// the reverse would be a cycle).
func SYNProbeFunc(scanner *recon.SYNScanner, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context, w Work) (recon.PortObservation, error) {
		return scanner.Probe(ctx, w.Target, w.Port, 0, timeout)
	}
}

// ConnectProbeFunc adapts a recon.ConnectScanner, which never fails its
// own way (every outcome is folded into a PortObservation) — the
// adapter's error return is always nil.
func ConnectProbeFunc(scanner *recon.ConnectScanner) ProbeFunc {
	return func(ctx context.Context, w Work) (recon.PortObservation, error) {
		return scanner.Probe(ctx, w.Target, w.Port), nil
	}
}

// UDPProbeFunc adapts a recon.UDPScanner.
func UDPProbeFunc(scanner *recon.UDPScanner, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context, w Work) (recon.PortObservation, error) {
		return scanner.Probe(ctx, w.Target, w.Port, 0, timeout)
	}
}

// FlagProbeFunc adapts a recon.FlagScanner for one of FIN/NULL/Xmas/ACK —
// kind is fixed per scheduler instance since a single scan run is one
// scan type (spec §4.6).
func FlagProbeFunc(scanner *recon.FlagScanner, kind recon.ScanKind, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context, w Work) (recon.PortObservation, error) {
		return scanner.Probe(ctx, w.Target, w.Port, kind, 0, timeout)
	}
}

// IdleProbeFunc adapts a recon.IdleScanner. The zombie host is fixed at
// scanner construction time — every Work item in one idle-scan run is
// probed through the same zombie.
func IdleProbeFunc(scanner *recon.IdleScanner, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context, w Work) (recon.PortObservation, error) {
		return scanner.Probe(ctx, w.Target, w.Port, timeout)
	}
}
