package recon

import (
	"fmt"
	"time"
)

// ZombieProbe is the three-step idle (zombie) scan described in spec
// §4.5: (1) baseline the zombie's IP-ID, (2) send a spoofed SYN to the
// target with the zombie as source, (3) re-probe the zombie's IP-ID.
// Unlike the other scan types this one is not a pure function of a
// single Response — it needs both IP-ID samples — so it is modeled as a
// small stateful helper instead of a Dispatch case.
type ZombieProbe struct {
	baseline  uint16
	haveBase  bool

	// tolerance widens with observed variance instead of staying fixed,
	// per DESIGN.md's Open Question 2 decision.
	tolerance   int
	maxTolerance int
}

// NewZombieProbe starts a zombie tracker with the timing template's
// default tolerance window.
func NewZombieProbe(initialTolerance, maxTolerance int) *ZombieProbe {
	return &ZombieProbe{tolerance: initialTolerance, maxTolerance: maxTolerance}
}

// RecordBaseline stores the zombie's IP-ID sampled before the spoofed SYN
// is sent.
func (z *ZombieProbe) RecordBaseline(ipid uint16) {
	z.baseline = ipid
	z.haveBase = true
}

// IdleResult is the outcome of comparing the baseline and re-probe
// IP-IDs.
type IdleResult struct {
	State PortState
	Cause string
	Err   error
}

// Evaluate compares the re-probed IP-ID against the baseline. An
// increment of 2 (or within the current tolerance in noisy
// environments) means Open; an increment of 1 means Closed; anything
// else means the zombie is unreliable for this port and the caller
// should emit an error event rather than a verdict.
func (z *ZombieProbe) Evaluate(reprobe uint16) IdleResult {
	if !z.haveBase {
		return IdleResult{State: StateUnknown, Err: fmt.Errorf("idle: re-probe without baseline")}
	}
	delta := int(reprobe) - int(z.baseline)
	if delta < 0 {
		// IP-ID counters wrap at 65536; treat a negative delta as a wrap.
		delta += 65536
	}

	switch {
	case delta == 1:
		return IdleResult{State: StateClosed, Cause: "zombie-ipid+1"}
	case delta == 2:
		return IdleResult{State: StateOpen, Cause: "zombie-ipid+2"}
	case delta > 2 && delta <= 2+z.tolerance:
		return IdleResult{State: StateOpen, Cause: "zombie-ipid+2-tolerant"}
	default:
		z.widenTolerance(delta)
		return IdleResult{Err: fmt.Errorf("idle: unreliable zombie, ip-id delta=%d exceeds tolerance %d", delta, z.tolerance)}
	}
}

// widenTolerance adapts the acceptance window when the zombie proves
// noisier than expected, up to maxTolerance. A zombie that never
// produces a usable baseline/re-probe pair within maxTolerance is simply
// unreliable — callers should abandon it, not widen forever.
func (z *ZombieProbe) widenTolerance(observedDelta int) {
	noise := observedDelta - 2
	if noise <= z.tolerance {
		return
	}
	z.tolerance = noise
	if z.tolerance > z.maxTolerance {
		z.tolerance = z.maxTolerance
	}
}

// ProbeInterval is the minimum spacing this scan type should use between
// its three steps, so the zombie's own background traffic doesn't
// dominate the IP-ID delta.
const ProbeInterval = 100 * time.Millisecond
