package match

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// RetryFunc is invoked when a PendingEntry's deadline expires and the
// entry's attempt count is still below MaxRetries. It should re-send the
// probe and return the cookie to re-insert the entry under (the cookie
// changes because the cookie derivation folds in the attempt number).
type RetryFunc func(entry PendingEntry) (newCookie uint32, backoff time.Duration, ok bool)

// TimeoutFunc is invoked when a PendingEntry expires with no retry left
// (RetryFunc returned ok=false or MaxRetries was already reached).
type TimeoutFunc func(entry PendingEntry)

// StatefulMatcher implements the stateful Response Matcher: a
// cookie-keyed PendingEntry table with TTL-based eviction. ttlcache
// supplies sharded internal locking and the eviction sweeper, so this
// type only needs to wire the retry-or-timeout policy into the eviction
// callback (spec §4.4).
type StatefulMatcher struct {
	cache      *ttlcache.Cache[uint32, PendingEntry]
	maxRetries int
	onRetry    RetryFunc
	onTimeout  TimeoutFunc
}

// NewStatefulMatcher builds a stateful matcher. maxRetries bounds how
// many times an expired entry is allowed to be resent before onTimeout
// fires instead of onRetry.
func NewStatefulMatcher(maxRetries int, onRetry RetryFunc, onTimeout TimeoutFunc) *StatefulMatcher {
	cache := ttlcache.New[uint32, PendingEntry]()

	m := &StatefulMatcher{
		cache:      cache,
		maxRetries: maxRetries,
		onRetry:    onRetry,
		onTimeout:  onTimeout,
	}

	cache.OnEviction(func(_ any, reason ttlcache.EvictionReason, item *ttlcache.Item[uint32, PendingEntry]) {
		if reason != ttlcache.EvictionReasonExpired {
			return
		}
		entry := item.Value()
		if int(entry.Attempt) >= m.maxRetries {
			m.onTimeout(entry)
			return
		}
		if m.onRetry == nil {
			m.onTimeout(entry)
			return
		}
		newEntry := entry
		newEntry.Attempt++
		newCookie, backoff, ok := m.onRetry(newEntry)
		if !ok {
			m.onTimeout(entry)
			return
		}
		newEntry.Deadline = time.Now().Add(backoff)
		m.cache.Set(newCookie, newEntry, backoff)
	})

	go cache.Start()
	return m
}

// InsertWithTTL registers an outstanding probe with an explicit ttl,
// normally derived from the timing template's current RTO.
func (m *StatefulMatcher) InsertWithTTL(cookie uint32, entry PendingEntry, ttl time.Duration) {
	m.cache.Set(cookie, entry, ttl)
}

// Insert implements Matcher, taking the TTL from entry.Deadline: the
// entry expires at its deadline, or after 1ms if the deadline has
// already passed.
func (m *StatefulMatcher) Insert(cookie uint32, entry PendingEntry) {
	ttl := time.Until(entry.Deadline)
	if ttl <= 0 {
		ttl = time.Millisecond
	}
	m.cache.Set(cookie, entry, ttl)
}

// Match looks up and removes the entry for cookie. A duplicate response
// (the entry already removed by an earlier match) returns Ok=false,
// which callers must treat as a silently-discarded duplicate, not an
// error (spec §4.4 edge cases).
func (m *StatefulMatcher) Match(cookie uint32) MatchResult {
	item := m.cache.Get(cookie)
	if item == nil {
		return MatchResult{}
	}
	entry := item.Value()
	m.cache.Delete(cookie)
	return MatchResult{Entry: entry, Ok: true}
}

// Close stops the sweeper goroutine.
func (m *StatefulMatcher) Close() {
	m.cache.Stop()
}
