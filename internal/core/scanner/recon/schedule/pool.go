package schedule

import (
	"context"

	"github.com/alitto/pond/v2"

	"prtip/internal/core/lib/network/qos"
	"prtip/internal/core/scanner/recon"
)

// ProbeFunc sends one probe and returns the observation it produced.
// Implemented per scan kind (SYN, Connect, UDP, ...) in recon.
type ProbeFunc func(ctx context.Context, w Work) (recon.PortObservation, error)

// Pool bounds concurrent probe dispatch the way port.PortServiceScanner's
// Run() bounds concurrent port scans with a semaphore, except the
// semaphore itself is replaced by pond's worker pool and gated a second
// time by the Tier-1/Tier-2 rate controller before any probe is sent —
// the pool caps goroutine fan-out, the rate controller caps wire traffic;
// they are deliberately two different knobs (spec §4.3, §4.6).
type Pool struct {
	workers pond.Pool
	pps     *qos.PPSController
	hosts   *qos.HostgroupGate
	probe   ProbeFunc
}

// NewPool builds a pool with maxWorkers concurrent goroutines, rate
// limited by pps and hosts before each probe is actually sent.
func NewPool(maxWorkers int, pps *qos.PPSController, hosts *qos.HostgroupGate, probe ProbeFunc) *Pool {
	return &Pool{
		workers: pond.NewPool(maxWorkers),
		pps:     pps,
		hosts:   hosts,
		probe:   probe,
	}
}

// Submit schedules one probe; results are delivered to onResult, which
// must not block for long — it runs on a pool worker goroutine.
func (p *Pool) Submit(ctx context.Context, w Work, onResult func(recon.PortObservation, error)) {
	p.workers.Submit(func() {
		if p.hosts != nil {
			if err := p.hosts.Acquire(ctx); err != nil {
				onResult(recon.PortObservation{}, err)
				return
			}
			defer p.hosts.Release()
		}
		if p.pps != nil {
			if err := p.pps.Acquire(ctx); err != nil {
				onResult(recon.PortObservation{}, err)
				return
			}
		}
		obs, err := p.probe(ctx, w)
		onResult(obs, err)
	})
}

// StopAndWait drains the pool, waiting for every submitted probe to finish.
func (p *Pool) StopAndWait() {
	p.workers.StopAndWait()
}
