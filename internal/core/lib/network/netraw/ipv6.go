package netraw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/net/ipv6"
)

// IPv6 next-header values used by the codec.
const (
	NextHeaderTCP       = 6
	NextHeaderUDP       = 17
	NextHeaderICMPv6    = 58
	NextHeaderFragment  = 44
)

// BuildIPv6Packet builds an IPv6 header + payload. IPv6 has no header
// checksum of its own; the transport checksum (computed against the v6
// pseudo-header, see tcpv6PseudoHeader/udpv6PseudoHeader) is mandatory,
// including for UDP.
func BuildIPv6Packet(src, dst net.IP, nextHeader int, hopLimit int, payload []byte) ([]byte, error) {
	if src.To4() != nil || dst.To4() != nil {
		return nil, fmt.Errorf("netraw: BuildIPv6Packet requires v6 addresses")
	}
	h := &ipv6.Header{
		Version:      6,
		PayloadLen:   len(payload),
		NextHeader:   nextHeader,
		HopLimit:     hopLimit,
		Src:          src,
		Dst:          dst,
	}
	hb, err := h.Marshal()
	if err != nil {
		return nil, err
	}
	return append(hb, payload...), nil
}

// pseudoHeaderV6 builds the 40-byte IPv6 pseudo-header used in TCP/UDP
// checksum computation per RFC 8200 §8.1.
func pseudoHeaderV6(src, dst net.IP, upperLayerLen uint32, nextHeader uint8) []byte {
	var buf bytes.Buffer
	buf.Write(src.To16())
	buf.Write(dst.To16())
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], upperLayerLen)
	buf.Write(lenBuf[:])
	buf.Write([]byte{0, 0, 0, byte(nextHeader)})
	return buf.Bytes()
}

// BuildTCPHeaderV6WithChecksum is BuildTCPHeaderWithChecksum's IPv6
// counterpart: same header layout, pseudo-header swapped for the v6 form.
func BuildTCPHeaderV6WithChecksum(srcIP, dstIP net.IP, srcPort, dstPort int, seq, ack uint32, flags int, window uint16, urgentPtr uint16, options []TCPOption) ([]byte, error) {
	var optBuf bytes.Buffer
	for _, opt := range options {
		optBuf.WriteByte(opt.Kind)
		if opt.Kind == TCPOptionNOP || opt.Kind == TCPOptionEOL {
			continue
		}
		optBuf.WriteByte(opt.Length)
		optBuf.Write(opt.Data)
	}
	padLen := (4 - (optBuf.Len() % 4)) % 4
	for i := 0; i < padLen; i++ {
		optBuf.WriteByte(TCPOptionNOP)
	}
	optData := optBuf.Bytes()

	headerLen := 20 + len(optData)
	if headerLen > 60 {
		return nil, fmt.Errorf("tcp header too large: %d", headerLen)
	}
	dataOffset := headerLen / 4

	h := make([]byte, headerLen)
	binary.BigEndian.PutUint16(h[0:], uint16(srcPort))
	binary.BigEndian.PutUint16(h[2:], uint16(dstPort))
	binary.BigEndian.PutUint32(h[4:], seq)
	binary.BigEndian.PutUint32(h[8:], ack)
	h[12] = byte((dataOffset << 4) | ((flags >> 8) & 0x01))
	h[13] = byte(flags & 0xFF)
	binary.BigEndian.PutUint16(h[14:], window)
	binary.BigEndian.PutUint16(h[18:], urgentPtr)
	copy(h[20:], optData)

	ph := pseudoHeaderV6(srcIP, dstIP, uint32(headerLen), NextHeaderTCP)
	var buf bytes.Buffer
	buf.Write(ph)
	buf.Write(h)
	checksum := Checksum(buf.Bytes())
	binary.BigEndian.PutUint16(h[16:], checksum)

	return h, nil
}

// BuildUDPHeaderV6 is BuildUDPHeader's IPv6 counterpart. Unlike IPv4, a
// zero UDP checksum over IPv6 is forbidden (RFC 8200 §8.1), so the
// 0->0xFFFF substitution applies unconditionally, same as v4.
func BuildUDPHeaderV6(srcIP, dstIP net.IP, srcPort, dstPort int, payload []byte) ([]byte, error) {
	length := 8 + len(payload)
	h := make([]byte, 8)
	binary.BigEndian.PutUint16(h[0:], uint16(srcPort))
	binary.BigEndian.PutUint16(h[2:], uint16(dstPort))
	binary.BigEndian.PutUint16(h[4:], uint16(length))

	ph := pseudoHeaderV6(srcIP, dstIP, uint32(length), NextHeaderUDP)
	var buf bytes.Buffer
	buf.Write(ph)
	buf.Write(h)
	buf.Write(payload)
	checksum := Checksum(buf.Bytes())
	if checksum == 0 {
		checksum = 0xFFFF
	}
	binary.BigEndian.PutUint16(h[6:], checksum)

	return append(h, payload...), nil
}
