// Package recon implements the core scanning engine: scan-type state
// machines that turn a probe and its response into a port verdict. The
// scheduler (schedule subpackage) and aggregator (aggregate subpackage)
// drive this package; they do not duplicate its state-machine logic.
package recon

import (
	"net"
	"time"
)

// ScanKind tags a scan type. Dispatch on ScanKind is a plain switch in
// the driver (Dispatch, below), not a dynamic-dispatched interface per
// port — this keeps the hot path inline-friendly (spec §9).
type ScanKind int

const (
	ScanSYN ScanKind = iota
	ScanConnect
	ScanUDP
	ScanFIN
	ScanNULL
	ScanXmas
	ScanACK
	ScanIdle
)

func (k ScanKind) String() string {
	switch k {
	case ScanSYN:
		return "syn"
	case ScanConnect:
		return "connect"
	case ScanUDP:
		return "udp"
	case ScanFIN:
		return "fin"
	case ScanNULL:
		return "null"
	case ScanXmas:
		return "xmas"
	case ScanACK:
		return "ack"
	case ScanIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Protocol names the L4 protocol a PortSpec entry targets.
type Protocol int

const (
	ProtoTCP Protocol = iota
	ProtoUDP
	ProtoSCTP
)

// Target is a resolved scan destination: an IP plus the interface and
// next-hop link-layer address it will be reached through. Constructed at
// scan start (singletons, ranges, CIDRs, hostnames, file lists);
// destroyed at scan end.
type Target struct {
	IP        net.IP
	Iface     string
	NextHopHW net.HardwareAddr
}

// PortSpec is an ordered, immutable set of L4 ports plus protocol.
type PortSpec struct {
	Ports    []int
	Protocol Protocol
}

// ProbeContext carries the fields a scan-type state machine needs to
// turn a Response into a PortObservation without consulting any shared
// state — each state machine function is pure over (Response,
// ProbeContext).
type ProbeContext struct {
	Target    Target
	Port      int
	Kind      ScanKind
	Attempt   uint8
	SentAt    time.Time
	ScanEpoch uint32
}

// ResponseSignal tags what kind of reply (if any) arrived for a probe.
type ResponseSignal int

const (
	SignalNone ResponseSignal = iota // deadline expired, no reply
	SignalSYNACK
	SignalRST
	SignalRSTACK
	SignalUDPReply
	SignalICMPUnreachable
	SignalProtocolAnomaly // cookie mismatch / malformed — not a verdict input
)

// Response is what the matcher hands the state machine once it has
// correlated an incoming packet (or a timeout) with an outstanding probe.
type Response struct {
	Signal      ResponseSignal
	ICMPCode    int  // valid when Signal == SignalICMPUnreachable
	BadChecksum bool // set when the peer replied to a deliberately-corrupt probe (stealth §4.8)
	Latency     time.Duration
	Banner      []byte
	ZombieIPID  uint16 // the reply's IPv4 identification field, used only by the idle/zombie scan
}

// PortState is a node in the precedence lattice
// Open > OpenFiltered > Closed > Unfiltered > Filtered > Unknown.
// Higher numeric value means higher precedence; comparisons use this
// ordering directly (spec §3, §8 property 5).
type PortState int

const (
	StateUnknown PortState = iota
	StateFiltered
	StateUnfiltered
	StateClosed
	StateOpenFiltered
	StateOpen
)

func (s PortState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateOpenFiltered:
		return "open|filtered"
	case StateClosed:
		return "closed"
	case StateUnfiltered:
		return "unfiltered"
	case StateFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// PortObservation is one scan-type's verdict for one (Target, port),
// immutable once emitted.
type PortObservation struct {
	Target    Target
	Port      int
	Kind      ScanKind
	State     PortState
	Cause     string // e.g. "syn-ack", "rst", "timeout", "icmp-port-unreachable"
	Timestamp time.Time
	Latency   time.Duration
	Banner    []byte
	Anomaly   bool // bad-checksum-injection reply or other non-verdict signal, see DESIGN.md Open Question 1
}
