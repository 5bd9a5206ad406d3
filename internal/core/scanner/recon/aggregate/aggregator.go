// Package aggregate implements the Result Aggregator: a concurrent map
// keyed by (Target, port) applying the CanonicalResult precedence
// lattice (spec §4.7, §3).
package aggregate

import (
	"sync"

	"prtip/internal/core/scanner/recon"
)

// Key identifies a (Target, port) pair in the CanonicalResult map.
type Key struct {
	IP   string
	Port int
}

func keyFor(o recon.PortObservation) Key {
	return Key{IP: o.Target.IP.String(), Port: o.Port}
}

// CanonicalResult is the current best observation for one (Target, port)
// under the precedence lattice. Ancillary fields (banner, latency) are
// merged even when the state itself doesn't change.
type CanonicalResult struct {
	Target    recon.Target
	Port      int
	State     recon.PortState
	Cause     string
	Latency   []recon.PortObservation // retained for latency-sample merging; last entry is most recent
	Banner    []byte
	Anomalies []recon.PortObservation
}

// Sink receives canonical records as they are upgraded. Implementations
// must not block for long — a slow sink applies backpressure through the
// bounded channel between the Aggregator and its sinks (spec §4.7, §9).
type Sink interface {
	Accept(CanonicalResult)
}

// Aggregator merges incoming PortObservations into the CanonicalResult
// map and streams upgrades to zero or more sinks.
type Aggregator struct {
	mu      sync.RWMutex
	results map[Key]*CanonicalResult

	sinks    []Sink
	outbound chan CanonicalResult
	done     chan struct{}
}

// New builds an Aggregator whose output channel has the given buffer
// depth; a full channel is the single point where sink slowness
// propagates back to the scheduler (callers should hold rate-limiter
// tokens while Emit blocks).
func New(sinks []Sink, outboundBuffer int) *Aggregator {
	a := &Aggregator{
		results:  make(map[Key]*CanonicalResult),
		sinks:    sinks,
		outbound: make(chan CanonicalResult, outboundBuffer),
		done:     make(chan struct{}),
	}
	go a.drain()
	return a
}

func (a *Aggregator) drain() {
	for {
		select {
		case cr := <-a.outbound:
			for _, s := range a.sinks {
				s.Accept(cr)
			}
		case <-a.done:
			// drain remaining buffered records before exiting so a
			// cancellation doesn't silently drop already-upgraded results
			for {
				select {
				case cr := <-a.outbound:
					for _, s := range a.sinks {
						s.Accept(cr)
					}
				default:
					return
				}
			}
		}
	}
}

// Observe merges one PortObservation into the CanonicalResult map. If
// the observation's state has higher lattice precedence than the
// existing record (spec §3: Open > OpenFiltered > Closed > Unfiltered >
// Filtered > Unknown), the record is upgraded and streamed to sinks.
// Never downgrades past Open (§8 property 5).
func (a *Aggregator) Observe(o recon.PortObservation) {
	key := keyFor(o)

	a.mu.Lock()
	existing, ok := a.results[key]
	if !ok {
		existing = &CanonicalResult{Target: o.Target, Port: o.Port, State: recon.StateUnknown}
		a.results[key] = existing
	}

	upgraded := false
	if !ok || o.State > existing.State {
		if existing.State != recon.StateOpen { // never demote past Open
			existing.State = o.State
			existing.Cause = o.Cause
			upgraded = true
		}
	}
	if len(o.Banner) > 0 {
		existing.Banner = o.Banner
	}
	if o.Anomaly {
		existing.Anomalies = append(existing.Anomalies, o)
	} else {
		existing.Latency = append(existing.Latency, o)
	}
	snapshot := *existing
	a.mu.Unlock()

	if upgraded {
		a.outbound <- snapshot
	}
}

// Snapshot returns the current CanonicalResult for a (Target, port), if any.
func (a *Aggregator) Snapshot(ip string, port int) (CanonicalResult, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	r, ok := a.results[Key{IP: ip, Port: port}]
	if !ok {
		return CanonicalResult{}, false
	}
	return *r, true
}

// Close stops streaming and flushes buffered records to sinks. Safe to
// call once; callers must stop calling Observe before Close returns to
// avoid sending on a channel no longer being drained.
func (a *Aggregator) Close() {
	close(a.done)
}
