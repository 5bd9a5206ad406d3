package stealth

import (
	"encoding/binary"
	"fmt"

	"prtip/internal/core/lib/network/netraw"
)

const (
	ipv4FlagMF   = 0x1 << 13 // more-fragments bit, packed into the flags+offset field
	ipv4FlagsMax = 0xE000    // mask covering the 3 flag bits
)

// NewFragment returns an ExpandTransform that splits an IPv4 packet's
// payload into fragments of payloadSize bytes (rounded down to an 8-byte
// boundary, per RFC 791 §3.1 fragment offset granularity), each a
// complete, independently routable IPv4 datagram. IPv4 only — this is
// explicitly out of scope for IPv6, which has no router-level
// fragmentation to exploit (spec §4.8 Non-goals). Must run last in the
// pipeline: every earlier stage assumes one contiguous transport header.
func NewFragment(payloadSize int) ExpandTransform {
	aligned := payloadSize &^ 0x7
	if aligned < 8 {
		aligned = 8
	}

	return func(frame []byte) ([][]byte, error) {
		ihl, err := ipv4HeaderLen(frame)
		if err != nil {
			return nil, err
		}
		header := frame[:ihl]
		payload := frame[ihl:]
		if len(payload) <= aligned {
			return [][]byte{frame}, nil
		}

		var frags [][]byte
		for off := 0; off < len(payload); off += aligned {
			end := off + aligned
			more := true
			if end >= len(payload) {
				end = len(payload)
				more = false
			}
			chunk := payload[off:end]

			f := make([]byte, ihl+len(chunk))
			copy(f, header)
			copy(f[ihl:], chunk)

			binary.BigEndian.PutUint16(f[2:4], uint16(len(f)))
			flagsOff := uint16(off / 8)
			if more {
				flagsOff |= ipv4FlagMF
			}
			binary.BigEndian.PutUint16(f[6:8], flagsOff)

			f[10], f[11] = 0, 0
			binary.BigEndian.PutUint16(f[10:12], netraw.Checksum(f[:ihl]))

			frags = append(frags, f)
		}
		if len(frags) == 0 {
			return nil, fmt.Errorf("stealth: fragment produced no output for %d-byte payload", len(payload))
		}
		return frags, nil
	}
}
