package stealth

import (
	"encoding/binary"
	"fmt"
)

// NewBadChecksum returns a ScalarTransform that corrupts the TCP/UDP
// checksum field of an otherwise valid probe. Middleboxes and stacks
// that validate the checksum drop the packet silently; ones that don't
// let it through — the asymmetry is itself a fingerprinting signal, so
// a reply to a bad-checksum probe is reported as a protocol anomaly
// rather than folded into the normal state lattice (spec §4.8, §9).
func NewBadChecksum() ScalarTransform {
	return func(frame []byte) ([]byte, error) {
		out := append([]byte(nil), frame...)
		ihl, err := ipv4HeaderLen(out)
		if err != nil {
			return nil, err
		}
		proto := out[9]

		var csumOff int
		switch proto {
		case 6: // TCP
			csumOff = ihl + 16
		case 17: // UDP
			csumOff = ihl + 6
		default:
			return nil, fmt.Errorf("stealth: bad checksum transform needs tcp or udp, got protocol %d", proto)
		}
		if csumOff+2 > len(out) {
			return nil, fmt.Errorf("stealth: frame too short for l4 checksum field")
		}

		current := binary.BigEndian.Uint16(out[csumOff : csumOff+2])
		binary.BigEndian.PutUint16(out[csumOff:csumOff+2], ^current) // flip every bit, guaranteed invalid
		return out, nil
	}
}
