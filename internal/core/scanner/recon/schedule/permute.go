// Package schedule implements the Scheduler (spec §4.6): target×port
// permutation, a bounded worker pool, and the discovery→probe→finalize
// phase chain that drives the scan state machines in recon.
package schedule

import (
	"fmt"

	"github.com/projectdiscovery/blackrock"

	"prtip/internal/core/scanner/recon"
)

// Work is one (target, port) pair to probe, in permuted order.
type Work struct {
	Target recon.Target
	Port   int
}

// Permutation walks the Cartesian product of targets and ports in a
// blackrock-shuffled order, so a scan spreads probes across the whole
// target set instead of hammering one host's ports consecutively (spec
// §4.6 step 1, the anti-burst property shared with the Tier-1 rate
// controller's self-correcting batch size).
type Permutation struct {
	targets []recon.Target
	ports   []int
	total   int64
	br      *blackrock.Blackrock
}

// NewPermutation builds a permutation over len(targets)*len(ports) pairs,
// seeded so a given scan-epoch reproduces the same order (useful for
// resuming an interrupted scan at a known offset).
func NewPermutation(targets []recon.Target, ports []int, seed int64) (*Permutation, error) {
	if len(targets) == 0 || len(ports) == 0 {
		return nil, fmt.Errorf("schedule: permutation needs at least one target and one port")
	}
	total := int64(len(targets)) * int64(len(ports))
	return &Permutation{
		targets: targets,
		ports:   ports,
		total:   total,
		br:      blackrock.New(total, seed),
	}, nil
}

// Total is the number of (target, port) pairs in the permutation.
func (p *Permutation) Total() int64 {
	return p.total
}

// At returns the Work for permuted position i (0 <= i < Total()).
func (p *Permutation) At(i int64) Work {
	shuffled := p.br.Shuffle(i)
	portCount := int64(len(p.ports))
	targetIdx := shuffled / portCount
	portIdx := shuffled % portCount
	return Work{Target: p.targets[targetIdx], Port: p.ports[portIdx]}
}

// All returns a channel that yields every Work item in permuted order,
// closing once exhausted or ctx-like cancellation is signaled via stop.
func (p *Permutation) All(stop <-chan struct{}) <-chan Work {
	out := make(chan Work)
	go func() {
		defer close(out)
		for i := int64(0); i < p.total; i++ {
			select {
			case out <- p.At(i):
			case <-stop:
				return
			}
		}
	}()
	return out
}
