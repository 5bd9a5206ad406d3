package netraw

import (
	"encoding/binary"
	"fmt"
	"net"
)

// L4Kind tags which transport header ParsedFrame carries.
type L4Kind int

const (
	L4Unknown L4Kind = iota
	L4TCP
	L4UDP
	L4ICMP
	L4ICMPv6
)

// ParsedIPv4 mirrors the subset of header fields BuildIPv4Packet fills in,
// so parse_frame(build_frame(p)).Headers round-trips for every field except
// the checksum, which is verified instead of compared.
type ParsedIPv4 struct {
	Version  int
	IHL      int
	TotalLen int
	ID       int
	TTL      int
	Protocol int
	Checksum uint16
	Src      net.IP
	Dst      net.IP
}

// ParsedTCP mirrors the fields BuildTCPHeaderWithChecksum fills in.
type ParsedTCP struct {
	SrcPort    int
	DstPort    int
	Seq        uint32
	Ack        uint32
	DataOffset int
	Flags      int
	Window     uint16
	Checksum   uint16
	UrgentPtr  uint16
	Options    []TCPOption
}

// ParsedUDP mirrors the fields BuildUDPHeader fills in, plus the payload
// bytes that followed (used for banner-grab responses, spec §4.5).
type ParsedUDP struct {
	SrcPort  int
	DstPort  int
	Length   int
	Checksum uint16
	Payload  []byte
}

// ParsedICMP mirrors the fields BuildICMPEchoRequest fills in, plus the
// unreachable-message fields used by response matching (§4.4).
type ParsedICMP struct {
	Type    uint8
	Code    uint8
	ID      int
	Seq     int
	Payload []byte // embedded original datagram bytes, for unreachable messages
}

// ParsedFrame is the result of ParseFrame: an IPv4 header plus whichever
// transport header followed it.
type ParsedFrame struct {
	IP   ParsedIPv4
	Kind L4Kind
	TCP  ParsedTCP
	UDP  ParsedUDP
	ICMP ParsedICMP
}

// ParseFrame parses a raw IPv4 packet (as captured off a raw socket,
// IP header included) into a ParsedFrame. It never panics: truncated or
// inconsistent input yields an error, never an index panic.
func ParseFrame(b []byte) (*ParsedFrame, error) {
	if len(b) < 20 {
		return nil, fmt.Errorf("netraw: truncated ipv4 header: %d bytes", len(b))
	}

	verIHL := b[0]
	version := int(verIHL >> 4)
	if version != 4 {
		return nil, fmt.Errorf("netraw: unsupported ip version %d", version)
	}
	ihl := int(verIHL&0x0F) * 4
	if ihl < 20 || ihl > len(b) {
		return nil, fmt.Errorf("netraw: invalid ip header length %d (packet %d bytes)", ihl, len(b))
	}

	totalLen := int(binary.BigEndian.Uint16(b[2:4]))
	if totalLen < ihl || totalLen > len(b) {
		return nil, fmt.Errorf("netraw: inconsistent total length %d (have %d, ihl %d)", totalLen, len(b), ihl)
	}

	f := &ParsedFrame{
		IP: ParsedIPv4{
			Version:  version,
			IHL:      ihl,
			TotalLen: totalLen,
			ID:       int(binary.BigEndian.Uint16(b[4:6])),
			TTL:      int(b[8]),
			Protocol: int(b[9]),
			Checksum: binary.BigEndian.Uint16(b[10:12]),
			Src:      net.IP(append([]byte(nil), b[12:16]...)),
			Dst:      net.IP(append([]byte(nil), b[16:20]...)),
		},
	}

	payload := b[ihl:totalLen]

	switch f.IP.Protocol {
	case 6: // TCP
		tcp, err := parseTCP(payload)
		if err != nil {
			return nil, err
		}
		f.Kind = L4TCP
		f.TCP = *tcp
	case 17: // UDP
		udp, err := parseUDP(payload)
		if err != nil {
			return nil, err
		}
		f.Kind = L4UDP
		f.UDP = *udp
	case 1: // ICMP
		icmp, err := parseICMP(payload)
		if err != nil {
			return nil, err
		}
		f.Kind = L4ICMP
		f.ICMP = *icmp
	default:
		f.Kind = L4Unknown
	}

	return f, nil
}

func parseTCP(b []byte) (*ParsedTCP, error) {
	if len(b) < 20 {
		return nil, fmt.Errorf("netraw: truncated tcp header: %d bytes", len(b))
	}
	dataOffset := int(b[12]>>4) * 4
	if dataOffset < 20 || dataOffset > len(b) {
		return nil, fmt.Errorf("netraw: invalid tcp data offset %d (have %d bytes)", dataOffset, len(b))
	}

	ns := int(b[12] & 0x01)
	flags := ns<<8 | int(b[13])

	t := &ParsedTCP{
		SrcPort:    int(binary.BigEndian.Uint16(b[0:2])),
		DstPort:    int(binary.BigEndian.Uint16(b[2:4])),
		Seq:        binary.BigEndian.Uint32(b[4:8]),
		Ack:        binary.BigEndian.Uint32(b[8:12]),
		DataOffset: dataOffset,
		Flags:      flags,
		Window:     binary.BigEndian.Uint16(b[14:16]),
		Checksum:   binary.BigEndian.Uint16(b[16:18]),
		UrgentPtr:  binary.BigEndian.Uint16(b[18:20]),
	}

	opts, err := parseTCPOptions(b[20:dataOffset])
	if err != nil {
		return nil, err
	}
	t.Options = opts
	return t, nil
}

func parseTCPOptions(b []byte) ([]TCPOption, error) {
	var opts []TCPOption
	i := 0
	for i < len(b) {
		kind := b[i]
		if kind == TCPOptionEOL {
			break
		}
		if kind == TCPOptionNOP {
			opts = append(opts, TCPOption{Kind: kind})
			i++
			continue
		}
		if i+1 >= len(b) {
			return nil, fmt.Errorf("netraw: truncated tcp option at byte %d", i)
		}
		length := int(b[i+1])
		if length < 2 || i+length > len(b) {
			return nil, fmt.Errorf("netraw: invalid tcp option length %d at byte %d", length, i)
		}
		opts = append(opts, TCPOption{Kind: kind, Length: b[i+1], Data: append([]byte(nil), b[i+2:i+length]...)})
		i += length
	}
	return opts, nil
}

func parseUDP(b []byte) (*ParsedUDP, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("netraw: truncated udp header: %d bytes", len(b))
	}
	length := int(binary.BigEndian.Uint16(b[4:6]))
	if length < 8 || length > len(b) {
		return nil, fmt.Errorf("netraw: inconsistent udp length %d (have %d bytes)", length, len(b))
	}
	return &ParsedUDP{
		SrcPort:  int(binary.BigEndian.Uint16(b[0:2])),
		DstPort:  int(binary.BigEndian.Uint16(b[2:4])),
		Length:   length,
		Checksum: binary.BigEndian.Uint16(b[6:8]),
		Payload:  append([]byte(nil), b[8:length]...),
	}, nil
}

func parseICMP(b []byte) (*ParsedICMP, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("netraw: truncated icmp header: %d bytes", len(b))
	}
	icmp := &ParsedICMP{
		Type: b[0],
		Code: b[1],
	}
	switch icmp.Type {
	case 3, 11: // destination unreachable, time exceeded — embeds original datagram
		icmp.Payload = append([]byte(nil), b[8:]...)
	default:
		icmp.ID = int(binary.BigEndian.Uint16(b[4:6]))
		icmp.Seq = int(binary.BigEndian.Uint16(b[6:8]))
		icmp.Payload = append([]byte(nil), b[8:]...)
	}
	return icmp, nil
}
