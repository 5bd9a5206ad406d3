package aggregate

import (
	"net"
	"sync"
	"testing"
	"time"

	"prtip/internal/core/scanner/recon"
)

type collectingSink struct {
	mu      sync.Mutex
	results []CanonicalResult
}

func (s *collectingSink) Accept(cr CanonicalResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, cr)
}

func (s *collectingSink) snapshot() []CanonicalResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CanonicalResult, len(s.results))
	copy(out, s.results)
	return out
}

func target() recon.Target {
	return recon.Target{IP: net.ParseIP("198.51.100.1")}
}

func waitForSinkCount(t *testing.T, sink *collectingSink, n int) []CanonicalResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if results := sink.snapshot(); len(results) >= n {
			return results
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d sink records, got %d", n, len(sink.snapshot()))
	return nil
}

func TestAggregator_UpgradesOnHigherPrecedence(t *testing.T) {
	sink := &collectingSink{}
	agg := New([]Sink{sink}, 8)
	defer agg.Close()

	agg.Observe(recon.PortObservation{Target: target(), Port: 80, State: recon.StateFiltered})
	agg.Observe(recon.PortObservation{Target: target(), Port: 80, State: recon.StateOpen})

	results := waitForSinkCount(t, sink, 2)
	if results[len(results)-1].State != recon.StateOpen {
		t.Errorf("expected final streamed state Open, got %v", results[len(results)-1].State)
	}

	snap, ok := agg.Snapshot("198.51.100.1", 80)
	if !ok {
		t.Fatal("expected a snapshot to exist")
	}
	if snap.State != recon.StateOpen {
		t.Errorf("expected canonical state Open, got %v", snap.State)
	}
}

func TestAggregator_NeverDemotesFromOpen(t *testing.T) {
	sink := &collectingSink{}
	agg := New([]Sink{sink}, 8)
	defer agg.Close()

	agg.Observe(recon.PortObservation{Target: target(), Port: 443, State: recon.StateOpen})
	agg.Observe(recon.PortObservation{Target: target(), Port: 443, State: recon.StateFiltered})

	waitForSinkCount(t, sink, 1)
	snap, _ := agg.Snapshot("198.51.100.1", 443)
	if snap.State != recon.StateOpen {
		t.Errorf("expected state to remain Open despite a later lower-precedence observation, got %v", snap.State)
	}
}

func TestAggregator_LowerPrecedenceDoesNotStream(t *testing.T) {
	sink := &collectingSink{}
	agg := New([]Sink{sink}, 8)
	defer agg.Close()

	agg.Observe(recon.PortObservation{Target: target(), Port: 22, State: recon.StateClosed})
	agg.Observe(recon.PortObservation{Target: target(), Port: 22, State: recon.StateFiltered})

	waitForSinkCount(t, sink, 1)
	time.Sleep(50 * time.Millisecond)
	if len(sink.snapshot()) != 1 {
		t.Errorf("expected exactly one streamed upgrade, got %d", len(sink.snapshot()))
	}
}

func TestAggregator_Snapshot_UnknownKeyMisses(t *testing.T) {
	agg := New(nil, 1)
	defer agg.Close()

	if _, ok := agg.Snapshot("0.0.0.0", 1); ok {
		t.Error("expected a miss for a key never observed")
	}
}

func TestAggregator_TracksAnomaliesSeparately(t *testing.T) {
	sink := &collectingSink{}
	agg := New([]Sink{sink}, 8)
	defer agg.Close()

	agg.Observe(recon.PortObservation{Target: target(), Port: 8080, State: recon.StateOpen, Anomaly: true})
	waitForSinkCount(t, sink, 1)

	snap, _ := agg.Snapshot("198.51.100.1", 8080)
	if len(snap.Anomalies) != 1 {
		t.Errorf("expected 1 tracked anomaly, got %d", len(snap.Anomalies))
	}
	if len(snap.Latency) != 0 {
		t.Errorf("anomalous observation should not also be recorded as a latency sample, got %d", len(snap.Latency))
	}
}
