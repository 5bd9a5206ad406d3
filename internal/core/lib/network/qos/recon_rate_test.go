package qos

import (
	"context"
	"testing"
	"time"
)

func TestPPSController_AcquireRespectsContextCancel(t *testing.T) {
	c := NewPPSController(1) // 1pps, slow enough to force a block
	c.Acquire(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.Acquire(ctx)
	if err == nil {
		t.Error("expected Acquire to respect a cancelled/expired context")
	}
}

func TestPPSController_SentIncrementsOnAcquire(t *testing.T) {
	c := NewPPSController(1000)
	for i := 0; i < 5; i++ {
		if err := c.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire failed: %v", err)
		}
	}
	if c.Sent() != 5 {
		t.Errorf("expected Sent()=5, got %d", c.Sent())
	}
}

func TestPPSController_BatchSizeStartsAtOne(t *testing.T) {
	c := NewPPSController(500)
	if c.BatchSize() != 1 {
		t.Errorf("expected initial batch size 1, got %d", c.BatchSize())
	}
}

func TestPPSController_ObserveShrinksBatchWhenOverTarget(t *testing.T) {
	c := NewPPSController(100)
	// observed rate (1000) far exceeds target (100): ratio=0.1, sqrt~0.316
	// batch should shrink toward the floor, not grow
	c.Observe(1000)
	if c.BatchSize() >= 1 && c.BatchSize() > 1 {
		// starting batch is 1 so it can't shrink further; verify it doesn't
		// grow instead, which would indicate an inverted correction
		t.Errorf("batch size grew to %d when observed rate exceeded target", c.BatchSize())
	}
}

func TestPPSController_ObserveGrowsBatchWhenUnderTarget(t *testing.T) {
	c := NewPPSController(1000)
	// observed rate (10) is far under target (1000): ratio=100, sqrt=10
	c.Observe(10)
	if c.BatchSize() <= 1 {
		t.Errorf("expected batch size to grow above 1 when observed rate is far under target, got %d", c.BatchSize())
	}
}

func TestPPSController_ObserveClampsToMaxBatchSize(t *testing.T) {
	c := NewPPSController(1_000_000)
	c.Observe(0.001) // absurdly low observed rate, ratio explodes
	if c.BatchSize() > maxBatchSize {
		t.Errorf("batch size %d exceeded the %d ceiling", c.BatchSize(), maxBatchSize)
	}
}

func TestPPSController_ObserveIgnoresNonPositiveInput(t *testing.T) {
	c := NewPPSController(100)
	before := c.BatchSize()
	c.Observe(0)
	c.Observe(-5)
	if c.BatchSize() != before {
		t.Errorf("expected a non-positive observation to be ignored, batch size changed from %d to %d", before, c.BatchSize())
	}
}

func TestHostgroupGate_AcquireReleaseRoundtrip(t *testing.T) {
	g := NewHostgroupGate(2, 1)
	ctx := context.Background()

	if err := g.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if err := g.Acquire(ctx); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		g.Acquire(context.Background())
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("third Acquire should have blocked at the hostgroup ceiling of 2")
	case <-time.After(50 * time.Millisecond):
		// expected: still blocked
	}

	g.Release()
	select {
	case <-acquired:
		// expected: unblocked after a release
	case <-time.After(time.Second):
		t.Fatal("third Acquire never unblocked after Release")
	}
}

func TestHostgroupGate_MinMaxAccessors(t *testing.T) {
	g := NewHostgroupGate(10, 3)
	if g.MaxHostgroup() != 10 {
		t.Errorf("expected MaxHostgroup()=10, got %d", g.MaxHostgroup())
	}
	if g.MinHostgroup() != 3 {
		t.Errorf("expected MinHostgroup()=3, got %d", g.MinHostgroup())
	}
}

func TestHostgroupGate_ClampsBelowOne(t *testing.T) {
	g := NewHostgroupGate(0, 0)
	if g.MaxHostgroup() != 1 {
		t.Errorf("expected max hostgroup to clamp to 1, got %d", g.MaxHostgroup())
	}
}
