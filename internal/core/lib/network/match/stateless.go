package match

import (
	"net"

	"prtip/internal/core/lib/network/netraw"
)

// StatelessMatcher implements the stateless Response Matcher: no table,
// the cookie is recomputed from the response's own fields and compared
// to the value the response reflects back (spec §4.4). A mismatch means
// the packet isn't ours and is discarded silently — there is nothing to
// "match" against, so Match always reports Ok=false for anything that
// doesn't verify.
type StatelessMatcher struct {
	secret    netraw.CookieSecret
	scanEpoch uint32
}

// NewStatelessMatcher builds a stateless matcher bound to a single
// scan's secret and epoch.
func NewStatelessMatcher(secret netraw.CookieSecret, scanEpoch uint32) *StatelessMatcher {
	return &StatelessMatcher{secret: secret, scanEpoch: scanEpoch}
}

// Insert is a no-op in stateless mode: there is no table to populate.
func (m *StatelessMatcher) Insert(cookie uint32, entry PendingEntry) {}

// Match is unused directly in stateless mode — callers instead call
// Verify with the fields recovered from the incoming response, since
// stateless matching needs the candidate (dst IP, dst port, attempt)
// tuple to recompute the cookie against, not just the cookie itself.
func (m *StatelessMatcher) Match(cookie uint32) MatchResult {
	return MatchResult{}
}

// Verify recomputes the cookie for (dst, dstPort, attempt) and compares
// it to the value recovered from the response (e.g. TCP ACK-1, or the
// IP-ID/UDP source port the probe embedded it in).
func (m *StatelessMatcher) Verify(dst net.IP, dstPort uint16, attempt uint8, got uint32) bool {
	return m.secret.VerifyCookie(dst, dstPort, m.scanEpoch, attempt, got)
}

// Close is a no-op: there is no background resource to release.
func (m *StatelessMatcher) Close() {}
