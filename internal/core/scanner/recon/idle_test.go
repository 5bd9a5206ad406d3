package recon

import "testing"

func TestZombieProbe_OpenPort(t *testing.T) {
	z := NewZombieProbe(2, 10)
	z.RecordBaseline(1000)

	res := z.Evaluate(1002)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateOpen {
		t.Errorf("expected StateOpen for delta=2, got %v", res.State)
	}
}

func TestZombieProbe_ClosedPort(t *testing.T) {
	z := NewZombieProbe(2, 10)
	z.RecordBaseline(1000)

	res := z.Evaluate(1001)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.State != StateClosed {
		t.Errorf("expected StateClosed for delta=1, got %v", res.State)
	}
}

func TestZombieProbe_WithinTolerance(t *testing.T) {
	z := NewZombieProbe(3, 10)
	z.RecordBaseline(1000)

	// delta=4 is within initial tolerance of 3 (2+3=5 is the ceiling)
	res := z.Evaluate(1004)
	if res.Err != nil {
		t.Fatalf("unexpected error within tolerance: %v", res.Err)
	}
	if res.State != StateOpen {
		t.Errorf("expected tolerant StateOpen, got %v", res.State)
	}
}

func TestZombieProbe_ExceedsToleranceReturnsErrorAndWidens(t *testing.T) {
	z := NewZombieProbe(2, 10)
	z.RecordBaseline(1000)

	res := z.Evaluate(1020) // delta=20, far past tolerance
	if res.Err == nil {
		t.Fatal("expected an error for an out-of-tolerance delta")
	}
	if z.tolerance <= 2 {
		t.Errorf("expected tolerance to widen after a noisy sample, still %d", z.tolerance)
	}
}

func TestZombieProbe_ToleranceNeverExceedsMax(t *testing.T) {
	z := NewZombieProbe(2, 5)
	z.RecordBaseline(1000)

	z.Evaluate(1050) // huge delta, would push noise way past maxTolerance
	if z.tolerance > 5 {
		t.Errorf("tolerance exceeded maxTolerance: %d", z.tolerance)
	}
}

func TestZombieProbe_WrapsAroundUint16Boundary(t *testing.T) {
	z := NewZombieProbe(2, 10)
	z.RecordBaseline(65535)

	res := z.Evaluate(1) // wraps: 65535 -> 0 -> 1, delta should be 2
	if res.Err != nil {
		t.Fatalf("unexpected error across ip-id wraparound: %v", res.Err)
	}
	if res.State != StateOpen {
		t.Errorf("expected StateOpen across wraparound, got %v", res.State)
	}
}

func TestZombieProbe_EvaluateWithoutBaselineErrors(t *testing.T) {
	z := NewZombieProbe(2, 10)
	res := z.Evaluate(5)
	if res.Err == nil {
		t.Error("expected error when evaluating without a recorded baseline")
	}
}
