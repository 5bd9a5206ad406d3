//go:build linux
// +build linux

package transport

import (
	"fmt"
	"unsafe"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"

	"prtip/internal/core/lib/network/netraw"
)

// CompileIPProtoFilter assembles a BPF program that admits only IPv4
// packets destined for srcIP carrying one of the given L4 protocols, plus
// all ICMP traffic to srcIP (the ICMP type is not inspected; unreachables
// are needed for UDP closed/filtered determination, spec §4.2). It returns
// raw instructions ready for
// SO_ATTACH_FILTER.
func CompileIPProtoFilter(srcIP [4]byte, protocols ...int) ([]unix.SockFilter, error) {
	dstIP := uint32(srcIP[0])<<24 | uint32(srcIP[1])<<16 | uint32(srcIP[2])<<8 | uint32(srcIP[3])

	// Layout: [ip check] [proto load] [proto check]* [reject] [accept].
	// Every proto check's SkipTrue jumps past reject straight to accept;
	// falling through (no match) lands on reject. The ip check's
	// SkipFalse jumps directly to reject, skipping the proto checks.
	protos := append([]int{1}, protocols...) // ICMP (1) always admitted, for unreachables
	rejectIdx := 3 + len(protos)
	acceptIdx := rejectIdx + 1

	var insns []bpf.Instruction
	insns = append(insns, bpf.LoadAbsolute{Off: 16, Size: 4})
	insns = append(insns, bpf.JumpIf{Cond: bpf.JumpEqual, Val: dstIP, SkipFalse: uint8(rejectIdx - 2)})
	insns = append(insns, bpf.LoadAbsolute{Off: 9, Size: 1})
	for i, p := range protos {
		checkIdx := 3 + i
		insns = append(insns, bpf.JumpIf{Cond: bpf.JumpEqual, Val: uint32(p), SkipTrue: uint8(acceptIdx - checkIdx - 1)})
	}
	insns = append(insns, bpf.RetConstant{Val: 0})      // reject
	insns = append(insns, bpf.RetConstant{Val: 0xFFFF}) // accept, full packet

	raw, err := bpf.Assemble(insns)
	if err != nil {
		return nil, fmt.Errorf("transport: assemble bpf program: %w", err)
	}

	out := make([]unix.SockFilter, len(raw))
	for i, ri := range raw {
		out[i] = unix.SockFilter{Code: ri.Op, Jt: ri.Jt, Jf: ri.Jf, K: ri.K}
	}
	return out, nil
}

// attachFilter installs a compiled BPF program on the socket via
// SO_ATTACH_FILTER, so the kernel discards non-matching traffic before it
// ever reaches this process's recv loop.
func attachFilter(raw *netraw.RawSocket, prog []unix.SockFilter) error {
	fd := raw.FD()
	sockProg := unix.SockFprog{
		Len:    uint16(len(prog)),
		Filter: (*unix.SockFilter)(unsafe.Pointer(&prog[0])),
	}
	return unix.SetsockoptSockFprog(fd, unix.SOL_SOCKET, unix.SO_ATTACH_FILTER, &sockProg)
}
