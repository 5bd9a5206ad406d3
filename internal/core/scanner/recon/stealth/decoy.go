package stealth

import (
	"encoding/binary"
	"fmt"
	"math/rand"

	"prtip/internal/core/lib/network/netraw"
)

// NewDecoy returns an ExpandTransform that clones the real probe into
// count additional frames, each re-addressed from a different spoofed
// source drawn from pool, with the real probe's position among them
// shuffled. Every clone carries the same destination, ports, sequence
// number and options as the real probe — only the source address (and
// therefore the IP and transport checksums, which are recomputed) change
// — so the cookie the real probe carries is untouched in all of them
// (spec §4.8 invariant: stealth transforms never alter the cookie field).
func NewDecoy(pool []netIPv4, count int) ExpandTransform {
	return func(real []byte) ([][]byte, error) {
		if count <= 0 || len(pool) == 0 {
			return [][]byte{real}, nil
		}

		frames := make([][]byte, 0, count+1)
		frames = append(frames, real)
		for i := 0; i < count; i++ {
			decoySrc := pool[rand.Intn(len(pool))]
			clone, err := respoofSource(real, decoySrc)
			if err != nil {
				return nil, err
			}
			frames = append(frames, clone)
		}

		rand.Shuffle(len(frames), func(i, j int) { frames[i], frames[j] = frames[j], frames[i] })
		return frames, nil
	}
}

// netIPv4 is a raw 4-byte IPv4 address, avoiding a net.IP import for what
// is otherwise a fixed-size value callers build once per scan (spoofed
// decoy pool) and reuse across every probe.
type netIPv4 [4]byte

// respoofSource rewrites the IPv4 source address of frame to src and
// recomputes the IP header checksum and, for TCP/UDP, the transport
// checksum (both cover the source address via the pseudo-header).
func respoofSource(frame []byte, src netIPv4) ([]byte, error) {
	out := append([]byte(nil), frame...)
	ihl, err := ipv4HeaderLen(out)
	if err != nil {
		return nil, err
	}
	copy(out[12:16], src[:])
	out[10], out[11] = 0, 0
	binary.BigEndian.PutUint16(out[10:12], netraw.Checksum(out[:ihl]))

	proto := out[9]
	l4 := out[ihl:]
	switch proto {
	case 6: // TCP
		if len(l4) < 20 {
			return nil, fmt.Errorf("stealth: decoy: truncated tcp segment")
		}
		l4[16], l4[17] = 0, 0
		binary.BigEndian.PutUint16(l4[16:18], pseudoChecksum(out[12:16], out[16:20], 6, l4))
	case 17: // UDP
		if len(l4) < 8 {
			return nil, fmt.Errorf("stealth: decoy: truncated udp segment")
		}
		l4[6], l4[7] = 0, 0
		sum := pseudoChecksum(out[12:16], out[16:20], 17, l4)
		if sum == 0 {
			sum = 0xFFFF
		}
		binary.BigEndian.PutUint16(l4[6:8], sum)
	}
	return out, nil
}

// pseudoChecksum computes the TCP/UDP checksum over the IPv4 pseudo
// header (src, dst, zero, protocol, length) followed by l4.
func pseudoChecksum(src, dst []byte, protocol byte, l4 []byte) uint16 {
	ph := make([]byte, 12, 12+len(l4))
	copy(ph[0:4], src)
	copy(ph[4:8], dst)
	ph[8] = 0
	ph[9] = protocol
	binary.BigEndian.PutUint16(ph[10:12], uint16(len(l4)))
	ph = append(ph, l4...)
	return netraw.Checksum(ph)
}
