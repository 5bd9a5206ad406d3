package transport

import (
	"context"
	"net"
	"time"

	"prtip/internal/pkg/logger"
)

// Frame is one captured packet handed from the receive loop to a fan-out
// consumer (the Response Matcher).
type Frame struct {
	Bytes   []byte
	Src     net.IP
	Arrived time.Time
}

// ReceiveLoop runs a single goroutine pulling frames off a Socket and
// publishing them on a channel. A single receiver per socket avoids
// contention on the capture handle; downstream matching fans out and
// shards on cookie instead (spec §9 "Async recv loop").
type ReceiveLoop struct {
	sock    *Socket
	out     chan Frame
	bufSize int
}

// NewReceiveLoop builds a loop reading up to bufSize bytes per frame,
// publishing to a channel of the given depth.
func NewReceiveLoop(sock *Socket, bufSize, chanDepth int) *ReceiveLoop {
	return &ReceiveLoop{
		sock:    sock,
		out:     make(chan Frame, chanDepth),
		bufSize: bufSize,
	}
}

// Frames returns the channel frames are published on. Closed when Run
// returns.
func (r *ReceiveLoop) Frames() <-chan Frame {
	return r.out
}

// Run reads frames until ctx is cancelled or the socket errors terminally.
// Per-read timeouts let the loop notice cancellation promptly without
// busy-polling.
func (r *ReceiveLoop) Run(ctx context.Context, perReadTimeout time.Duration) {
	defer close(r.out)
	buf := make([]byte, r.bufSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, src, arrived, err := r.sock.Recv(ctx, buf, perReadTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			class := ClassifyError(err)
			if class == ErrorPermanent {
				logger.Errorf("transport: receive loop terminating on permanent error: %v", err)
				return
			}
			// Retriable (including a plain read timeout) — loop and try again.
			continue
		}
		if n == 0 {
			continue
		}

		frame := Frame{
			Bytes:   append([]byte(nil), buf[:n]...),
			Src:     src,
			Arrived: arrived,
		}
		select {
		case r.out <- frame:
		case <-ctx.Done():
			return
		}
	}
}
