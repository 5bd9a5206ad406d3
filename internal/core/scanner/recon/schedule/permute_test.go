package schedule

import (
	"fmt"
	"net"
	"testing"

	"prtip/internal/core/scanner/recon"
)

func testTargets(n int) []recon.Target {
	targets := make([]recon.Target, n)
	for i := 0; i < n; i++ {
		targets[i] = recon.Target{IP: net.ParseIP("10.0.0.1").To4()}
		targets[i].IP[3] = byte(i + 1)
	}
	return targets
}

func TestNewPermutation_RejectsEmptyInputs(t *testing.T) {
	if _, err := NewPermutation(nil, []int{80}, 1); err == nil {
		t.Error("expected error for empty target list")
	}
	if _, err := NewPermutation(testTargets(1), nil, 1); err == nil {
		t.Error("expected error for empty port list")
	}
}

func TestPermutation_TotalIsCartesianProduct(t *testing.T) {
	p, err := NewPermutation(testTargets(3), []int{80, 443, 22, 21}, 42)
	if err != nil {
		t.Fatalf("NewPermutation failed: %v", err)
	}
	if p.Total() != 12 {
		t.Errorf("expected 3*4=12 total pairs, got %d", p.Total())
	}
}

func TestPermutation_CoversEveryPairExactlyOnce(t *testing.T) {
	targets := testTargets(4)
	ports := []int{80, 443, 8080}
	p, err := NewPermutation(targets, ports, 7)
	if err != nil {
		t.Fatalf("NewPermutation failed: %v", err)
	}

	seen := make(map[string]bool)
	for i := int64(0); i < p.Total(); i++ {
		w := p.At(i)
		key := fmt.Sprintf("%s:%d", w.Target.IP.String(), w.Port)
		if seen[key] {
			t.Fatalf("pair %s visited twice", key)
		}
		seen[key] = true
	}
	if len(seen) != len(targets)*len(ports) {
		t.Errorf("expected %d distinct pairs, saw %d", len(targets)*len(ports), len(seen))
	}
}

func TestPermutation_SameSeedIsReproducible(t *testing.T) {
	targets := testTargets(5)
	ports := []int{1, 2, 3}

	p1, _ := NewPermutation(targets, ports, 99)
	p2, _ := NewPermutation(targets, ports, 99)

	for i := int64(0); i < p1.Total(); i++ {
		w1, w2 := p1.At(i), p2.At(i)
		if w1.Port != w2.Port || !w1.Target.IP.Equal(w2.Target.IP) {
			t.Fatalf("position %d diverged between identically-seeded permutations", i)
		}
	}
}

func TestPermutation_All_RespectsStop(t *testing.T) {
	p, _ := NewPermutation(testTargets(10), []int{80}, 1)
	stop := make(chan struct{})

	ch := p.All(stop)
	<-ch
	close(stop)

	// draining after stop should terminate without hanging; allow the
	// channel to close rather than asserting an exact count, since stop
	// may race with an in-flight send.
	for range ch {
	}
}
