package schedule

import (
	"context"
	"sync"
	"time"

	"prtip/internal/core/scanner/alive"
	"prtip/internal/core/scanner/recon"
	"prtip/internal/core/scanner/recon/aggregate"
)

// Engine runs the full scan: discovery, then probing, then finalization.
// The phase split mirrors pipeline.ServiceDispatcher.Dispatch's
// high-priority/low-priority two-step — each phase is a local
// sync.WaitGroup fan-out that must fully drain before the next phase
// starts, so probing never races ahead of a target whose liveness hasn't
// been decided yet.
type Engine struct {
	pool   *Pool
	perm   *Permutation
	agg    *aggregate.Aggregator
	prober alive.Prober // nil skips the discovery phase (e.g. -Pn)
}

// NewEngine wires a scheduler around an already-configured pool,
// permutation and aggregator. prober may be nil to skip discovery
// (treat every target as alive, spec §4.6 "-Pn" style bypass).
func NewEngine(pool *Pool, perm *Permutation, agg *aggregate.Aggregator, prober alive.Prober) *Engine {
	return &Engine{pool: pool, perm: perm, agg: agg, prober: prober}
}

// Run executes the discovery phase (if a prober is configured), then the
// probing phase over the full permutation, then finalizes by waiting for
// the pool to drain. It blocks until the scan completes or ctx is
// canceled.
func (e *Engine) Run(ctx context.Context, discoveryTimeout time.Duration) error {
	aliveTargets, err := e.discover(ctx, discoveryTimeout)
	if err != nil {
		return err
	}

	e.probe(ctx, aliveTargets)

	e.finalize()
	return nil
}

// discover runs liveness probes for every distinct target in the
// permutation and returns the set of addresses that answered. If no
// prober is configured, every target is treated as alive.
func (e *Engine) discover(ctx context.Context, timeout time.Duration) (map[string]bool, error) {
	aliveTargets := make(map[string]bool)
	seen := make(map[string]bool)

	var targets []recon.Target
	for _, t := range e.perm.targets {
		key := t.IP.String()
		if !seen[key] {
			seen[key] = true
			targets = append(targets, t)
		}
	}

	if e.prober == nil {
		for _, t := range targets {
			aliveTargets[t.IP.String()] = true
		}
		return aliveTargets, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, t := range targets {
		wg.Add(1)
		go func(t recon.Target) {
			defer wg.Done()
			ok, err := e.prober.Probe(ctx, t.IP.String(), timeout)
			if err != nil || !ok {
				return
			}
			mu.Lock()
			aliveTargets[t.IP.String()] = true
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	return aliveTargets, nil
}

// probe submits every (target, port) pair whose target answered
// discovery to the worker pool, streaming every observation into the
// aggregator as it arrives.
func (e *Engine) probe(ctx context.Context, aliveTargets map[string]bool) {
	stop := make(chan struct{})
	defer close(stop)

	var wg sync.WaitGroup
	for w := range e.perm.All(stop) {
		if !aliveTargets[w.Target.IP.String()] {
			continue
		}
		wg.Add(1)
		e.pool.Submit(ctx, w, func(obs recon.PortObservation, err error) {
			defer wg.Done()
			if err != nil {
				return
			}
			e.agg.Observe(obs)
		})
	}
	wg.Wait()
}

// finalize drains the worker pool — any in-flight retries the response
// matcher has scheduled (stateful mode's OnEviction retry path) must
// complete or time out before the scan is considered done.
func (e *Engine) finalize() {
	e.pool.StopAndWait()
}
