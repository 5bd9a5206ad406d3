package transport

import (
	"context"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SendWithRetry sends frame, retrying on ErrorRetriable failures (e.g.
// ENOBUFS when the kernel's socket send buffer is momentarily full under
// the Tier-1 rate controller's burst correction) with exponential
// backoff. A permanent error (EHOSTUNREACH, EACCES, ...) returns
// immediately — retrying those would just spend the scan's time budget
// on a target or privilege failure that retrying cannot fix.
func SendWithRetry(ctx context.Context, s *Socket, dst net.IP, frame []byte, maxElapsed backoff.BackOff) error {
	return backoff.Retry(func() error {
		err := s.Send(ctx, dst, frame)
		if err == nil {
			return nil
		}
		if ClassifyError(err) == ErrorPermanent {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(maxElapsed, ctx))
}

// DefaultRetryPolicy builds the backoff schedule SendWithRetry uses when
// the caller has no stronger opinion: short initial interval, since a
// full send buffer usually drains within a few milliseconds, bounded so
// a genuinely stuck socket doesn't stall the whole scheduler.
func DefaultRetryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Millisecond
	b.MaxInterval = 50 * time.Millisecond
	b.MaxElapsedTime = 500 * time.Millisecond
	return b
}
