package recon

// icmpUnreachableFiltered mirrors netraw.ICMPv4FilteredCodes: codes
// 1,2,9,10,13 mean Filtered across every scan type that consults ICMP
// unreachables. Code 3 (port unreachable) is handled separately — it
// means Closed for UDP and is not produced for TCP probes at all.
var icmpUnreachableFiltered = map[int]bool{1: true, 2: true, 9: true, 10: true, 13: true}

// Dispatch routes a (Response, ProbeContext) pair to the pure state-machine
// function for ctx.Kind. This is the tagged-variant driver called out in
// spec §9 — a plain switch, not a per-Kind interface implementation, to
// keep the hot path inline-friendly.
func Dispatch(r Response, ctx ProbeContext) PortObservation {
	switch ctx.Kind {
	case ScanSYN:
		return synState(r, ctx)
	case ScanConnect:
		return connectState(r, ctx)
	case ScanUDP:
		return udpState(r, ctx)
	case ScanFIN, ScanNULL, ScanXmas:
		return finNullXmasState(r, ctx)
	case ScanACK:
		return ackState(r, ctx)
	default:
		return PortObservation{Target: ctx.Target, Port: ctx.Port, Kind: ctx.Kind, State: StateUnknown, Cause: "unsupported-scan-kind", Timestamp: ctx.SentAt}
	}
}

func base(ctx ProbeContext, state PortState, cause string, r Response) PortObservation {
	return PortObservation{
		Target:    ctx.Target,
		Port:      ctx.Port,
		Kind:      ctx.Kind,
		State:     state,
		Cause:     cause,
		Timestamp: ctx.SentAt.Add(r.Latency),
		Latency:   r.Latency,
		Banner:    r.Banner,
		Anomaly:   r.BadChecksum,
	}
}

// synState: TCP SYN scan (spec §4.5). SYN|ACK -> Open (caller is
// responsible for following up with an RST to avoid completing the
// handshake — that belongs to the transport layer, not this pure
// function). RST/RST|ACK -> Closed. Certain ICMP unreachable codes ->
// Filtered. No reply by deadline -> Filtered.
func synState(r Response, ctx ProbeContext) PortObservation {
	switch r.Signal {
	case SignalSYNACK:
		return base(ctx, StateOpen, "syn-ack", r)
	case SignalRST, SignalRSTACK:
		return base(ctx, StateClosed, "rst", r)
	case SignalICMPUnreachable:
		if icmpUnreachableFiltered[r.ICMPCode] {
			return base(ctx, StateFiltered, "icmp-unreachable", r)
		}
		return base(ctx, StateFiltered, "icmp-unreachable-other", r)
	default:
		return base(ctx, StateFiltered, "timeout", r)
	}
}

// connectState: full three-way handshake performed by the OS. Does not
// require privileges (spec §4.5).
func connectState(r Response, ctx ProbeContext) PortObservation {
	switch r.Signal {
	case SignalSYNACK:
		return base(ctx, StateOpen, "connect-established", r)
	case SignalRST, SignalRSTACK:
		return base(ctx, StateClosed, "rst", r)
	default:
		return base(ctx, StateFiltered, "timeout", r)
	}
}

// udpState: port-specific payload state machine (spec §4.5). Any UDP
// reply means Open; ICMP port-unreachable means Closed; other
// unreachable codes mean Filtered; silence means OpenFiltered (UDP's
// defining ambiguity — a dropped probe and a dropped reply look alike).
func udpState(r Response, ctx ProbeContext) PortObservation {
	switch r.Signal {
	case SignalUDPReply:
		return base(ctx, StateOpen, "udp-reply", r)
	case SignalICMPUnreachable:
		if r.ICMPCode == 3 {
			return base(ctx, StateClosed, "icmp-port-unreachable", r)
		}
		if icmpUnreachableFiltered[r.ICMPCode] {
			return base(ctx, StateFiltered, "icmp-unreachable", r)
		}
		return base(ctx, StateFiltered, "icmp-unreachable-other", r)
	default:
		return base(ctx, StateOpenFiltered, "silent", r)
	}
}

// finNullXmasState covers FIN/NULL/Xmas (spec §4.5): RST -> Closed,
// silence -> OpenFiltered, ICMP unreachable -> Filtered. Compliant
// stacks silently drop non-RST segments to open ports; non-compliant
// stacks (notably Windows) RST everything, producing Closed for open
// ports too — documented behavior, not a bug in this state machine.
func finNullXmasState(r Response, ctx ProbeContext) PortObservation {
	switch r.Signal {
	case SignalRST, SignalRSTACK:
		return base(ctx, StateClosed, "rst", r)
	case SignalICMPUnreachable:
		if icmpUnreachableFiltered[r.ICMPCode] {
			return base(ctx, StateFiltered, "icmp-unreachable", r)
		}
		return base(ctx, StateFiltered, "icmp-unreachable-other", r)
	default:
		return base(ctx, StateOpenFiltered, "silent", r)
	}
}

// ackState maps firewall rules rather than discovering open ports (spec
// §4.5): RST -> Unfiltered, silence/ICMP unreachable -> Filtered.
func ackState(r Response, ctx ProbeContext) PortObservation {
	switch r.Signal {
	case SignalRST, SignalRSTACK:
		return base(ctx, StateUnfiltered, "rst", r)
	default:
		return base(ctx, StateFiltered, "no-rst", r)
	}
}
