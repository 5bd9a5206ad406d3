package stealth

import (
	"encoding/binary"
	"fmt"

	"prtip/internal/core/lib/network/netraw"
)

// NewTTLShape returns a ScalarTransform that overrides the IPv4 TTL field
// to the given value and recomputes the IP header checksum. Used to make
// a probe look like it traversed more or fewer hops than it actually did
// (spec §4.8, §9).
func NewTTLShape(ttl uint8) ScalarTransform {
	return func(frame []byte) ([]byte, error) {
		out := append([]byte(nil), frame...)
		ihl, err := ipv4HeaderLen(out)
		if err != nil {
			return nil, err
		}
		out[8] = ttl
		out[10], out[11] = 0, 0
		sum := netraw.Checksum(out[:ihl])
		binary.BigEndian.PutUint16(out[10:12], sum)
		return out, nil
	}
}

func ipv4HeaderLen(b []byte) (int, error) {
	if len(b) < 20 {
		return 0, fmt.Errorf("stealth: truncated ipv4 header: %d bytes", len(b))
	}
	if b[0]>>4 != 4 {
		return 0, fmt.Errorf("stealth: not an ipv4 frame (version %d)", b[0]>>4)
	}
	ihl := int(b[0]&0x0F) * 4
	if ihl < 20 || ihl > len(b) {
		return 0, fmt.Errorf("stealth: invalid ip header length %d", ihl)
	}
	return ihl, nil
}
