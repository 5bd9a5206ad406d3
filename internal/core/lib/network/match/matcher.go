// Package match correlates incoming packets with outstanding probes,
// either through an in-memory pending-entry table (stateful mode) or by
// recomputing the expected cookie from the response itself (stateless
// mode). Both modes are exposed behind the same Matcher interface so the
// scan state machines are mode-agnostic.
package match

import (
	"net"
	"time"
)

// PendingEntry records an in-flight probe in stateful mode.
type PendingEntry struct {
	Target   net.IP
	Port     int
	ScanKind int
	Attempt  uint8
	Deadline time.Time
}

// MatchResult is what a Matcher hands back for an incoming response.
type MatchResult struct {
	Entry PendingEntry
	Ok    bool
}

// Matcher correlates a response's cookie against outstanding probes.
type Matcher interface {
	// Insert registers an outstanding probe under a cookie. Stateless
	// matchers implement this as a no-op.
	Insert(cookie uint32, entry PendingEntry)
	// Match looks up (and, in stateful mode, removes) the entry for a
	// cookie recovered from an incoming response.
	Match(cookie uint32) MatchResult
	// Close releases any background resources (sweeper goroutines,
	// table storage).
	Close()
}
