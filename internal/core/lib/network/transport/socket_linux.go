//go:build linux
// +build linux

// Package transport wraps netraw's raw socket with the privilege-drop,
// BPF-filter, and error-classification machinery a scan engine needs
// around it, on top of the teacher's bare RawSocket.
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"prtip/internal/core/lib/network/netraw"
)

// Socket is a privilege-dropped, optionally BPF-filtered raw socket used
// by the scan state machines to send crafted frames and receive captured
// responses. It opens its privileged resources once, at construction,
// and never attempts to re-acquire them afterward.
type Socket struct {
	raw      *netraw.RawSocket
	protocol int

	mu     sync.Mutex
	closed bool
}

// Config controls socket construction.
type Config struct {
	Protocol int // syscall.IPPROTO_TCP / IPPROTO_UDP / IPPROTO_ICMP
	Iface    string
	// DropToUID/DropToGID select the unprivileged identity assumed
	// immediately after the raw socket and (optional) BPF filter are
	// set up. Zero value means "do not drop" (tests running as a
	// non-root user already lack the privilege to re-acquire).
	DropToUID int
	DropToGID int
	// Filter, if non-nil, is attached via SO_ATTACH_FILTER before the
	// privilege drop so the kernel — not this process — does the
	// narrowing of captured traffic.
	Filter []unix.SockFilter
}

// Open creates the raw socket, attaches the optional BPF filter, and then
// drops privileges. Per spec §4.2, dropping privileges and verifying
// re-acquisition fails is a hard invariant: if re-acquisition were to
// succeed, Open treats that as a privilege error (fail-closed) rather
// than silently continuing privileged.
func Open(cfg Config) (*Socket, error) {
	raw, err := netraw.NewRawSocket(cfg.Protocol)
	if err != nil {
		return nil, fmt.Errorf("transport: open raw socket: %w", err)
	}

	if cfg.Iface != "" {
		if err := raw.BindToInterface(cfg.Iface); err != nil {
			raw.Close()
			return nil, fmt.Errorf("transport: bind interface %s: %w", cfg.Iface, err)
		}
	}

	if len(cfg.Filter) > 0 {
		if err := attachFilter(raw, cfg.Filter); err != nil {
			raw.Close()
			return nil, fmt.Errorf("transport: attach bpf filter: %w", err)
		}
	}

	s := &Socket{raw: raw, protocol: cfg.Protocol}

	if cfg.DropToUID != 0 {
		if err := dropPrivileges(cfg.DropToUID, cfg.DropToGID); err != nil {
			raw.Close()
			return nil, fmt.Errorf("transport: drop privileges: %w", err)
		}
		if err := verifyPrivilegesDropped(cfg.DropToUID); err != nil {
			raw.Close()
			return nil, fmt.Errorf("transport: privilege error, drop did not hold: %w", err)
		}
	}

	return s, nil
}

// dropPrivileges assumes the unprivileged (uid, gid) identity. Order
// matters: group first, then user, so the process never holds a
// de-privileged uid with a still-privileged gid.
func dropPrivileges(uid, gid int) error {
	if gid != 0 {
		if err := unix.Setgid(gid); err != nil {
			return fmt.Errorf("setgid(%d): %w", gid, err)
		}
	}
	if err := unix.Setuid(uid); err != nil {
		return fmt.Errorf("setuid(%d): %w", uid, err)
	}
	return nil
}

// verifyPrivilegesDropped asserts that attempting to regain root fails.
// A successful re-acquisition here means the drop never really took
// effect (e.g. saved-uid still root), which this engine treats as fatal.
func verifyPrivilegesDropped(droppedUID int) error {
	if unix.Getuid() != droppedUID {
		return fmt.Errorf("effective uid %d does not match dropped uid %d", unix.Getuid(), droppedUID)
	}
	if err := unix.Setuid(0); err == nil {
		return fmt.Errorf("setuid(0) unexpectedly succeeded after drop")
	}
	return nil
}

// Send transmits a fully-built frame (IP header included). Errors are
// classified by the caller via ClassifyError.
func (s *Socket) Send(ctx context.Context, dst net.IP, frame []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.raw.Send(dst, frame)
}

// Recv blocks (bounded by timeout) for the next captured frame.
func (s *Socket) Recv(ctx context.Context, buf []byte, timeout time.Duration) (int, net.IP, time.Time, error) {
	select {
	case <-ctx.Done():
		return 0, nil, time.Time{}, ctx.Err()
	default:
	}
	n, src, err := s.raw.Receive(buf, timeout)
	return n, src, time.Now(), err
}

// Close releases the raw socket. Safe to call more than once.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.raw.Close()
}

// ErrorClass distinguishes transient send failures from permanent ones
// (spec §4.2).
type ErrorClass int

const (
	ErrorRetriable ErrorClass = iota
	ErrorPermanent
)

// ClassifyError maps a send/recv syscall error to the retry policy the
// scheduler should apply.
func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorRetriable
	}
	var errno syscall.Errno
	if e, ok := err.(syscall.Errno); ok {
		errno = e
	} else if e, ok := asErrno(err); ok {
		errno = e
	} else {
		return ErrorRetriable
	}
	switch errno {
	case syscall.EHOSTUNREACH, syscall.ENETUNREACH, syscall.EACCES:
		return ErrorPermanent
	case syscall.EWOULDBLOCK, syscall.EINTR, syscall.ENOBUFS:
		return ErrorRetriable
	default:
		return ErrorRetriable
	}
}

func asErrno(err error) (syscall.Errno, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if e, ok := err.(syscall.Errno); ok {
			return e, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return 0, false
}
