//go:build !linux

// BPF-filtered raw-socket capture (SO_ATTACH_FILTER) is a Linux-only
// facility. On other platforms the engine falls back to scan types that
// don't need it (TCP Connect); Open reports why.
package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

type Socket struct{}

type Config struct {
	Protocol  int
	Iface     string
	DropToUID int
	DropToGID int
	Filter    []byte // opaque; BPF program type is linux-only
}

func Open(cfg Config) (*Socket, error) {
	return nil, fmt.Errorf("transport: raw-socket scan types are not supported on this platform, use TCP Connect instead")
}

func (s *Socket) Send(ctx context.Context, dst net.IP, frame []byte) error {
	return fmt.Errorf("transport: unsupported platform")
}

func (s *Socket) Recv(ctx context.Context, buf []byte, timeout time.Duration) (int, net.IP, time.Time, error) {
	return 0, nil, time.Time{}, fmt.Errorf("transport: unsupported platform")
}

func (s *Socket) Close() error { return nil }

type ErrorClass int

const (
	ErrorRetriable ErrorClass = iota
	ErrorPermanent
)

func ClassifyError(err error) ErrorClass { return ErrorPermanent }
