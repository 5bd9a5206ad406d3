package netraw

import (
	"net"
	"testing"
)

func TestParseFrame_TCPRoundTrip(t *testing.T) {
	src := net.ParseIP("192.168.0.1")
	dst := net.ParseIP("192.168.0.2")

	tcp, err := BuildTCPHeaderWithChecksum(src, dst, 40000, 443, 111, 0, 0x02, 65535, 0, nil)
	if err != nil {
		t.Fatalf("BuildTCPHeaderWithChecksum failed: %v", err)
	}
	frame, err := BuildIPv4Packet(src, dst, 6, tcp)
	if err != nil {
		t.Fatalf("BuildIPv4Packet failed: %v", err)
	}

	parsed, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if parsed.Kind != L4TCP {
		t.Fatalf("expected L4TCP, got %v", parsed.Kind)
	}
	if parsed.TCP.SrcPort != 40000 || parsed.TCP.DstPort != 443 {
		t.Errorf("port mismatch: got %d -> %d", parsed.TCP.SrcPort, parsed.TCP.DstPort)
	}
	if parsed.TCP.Seq != 111 {
		t.Errorf("expected seq 111, got %d", parsed.TCP.Seq)
	}
	if !parsed.IP.Src.Equal(src) || !parsed.IP.Dst.Equal(dst) {
		t.Errorf("ip address mismatch: %s -> %s", parsed.IP.Src, parsed.IP.Dst)
	}
}

func TestParseFrame_UDPRoundTrip(t *testing.T) {
	src := net.ParseIP("10.1.1.1")
	dst := net.ParseIP("10.1.1.2")
	payload := []byte("hello")

	udp, err := BuildUDPHeader(src, dst, 5000, 53, payload)
	if err != nil {
		t.Fatalf("BuildUDPHeader failed: %v", err)
	}
	frame, err := BuildIPv4Packet(src, dst, 17, udp)
	if err != nil {
		t.Fatalf("BuildIPv4Packet failed: %v", err)
	}

	parsed, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if parsed.Kind != L4UDP {
		t.Fatalf("expected L4UDP, got %v", parsed.Kind)
	}
	if string(parsed.UDP.Payload) != "hello" {
		t.Errorf("expected payload %q, got %q", "hello", parsed.UDP.Payload)
	}
}

func TestParseFrame_RejectsTruncated(t *testing.T) {
	if _, err := ParseFrame(make([]byte, 10)); err == nil {
		t.Error("expected error for a frame shorter than a bare IPv4 header")
	}
}

func TestParseFrame_RejectsNonIPv4(t *testing.T) {
	b := make([]byte, 20)
	b[0] = 0x60 // version 6
	if _, err := ParseFrame(b); err == nil {
		t.Error("expected error for a non-IPv4 version nibble")
	}
}

func TestParseFrame_RejectsInconsistentTotalLength(t *testing.T) {
	b := make([]byte, 20)
	b[0] = 0x45
	b[2], b[3] = 0xFF, 0xFF // huge declared total length, far beyond actual buffer
	if _, err := ParseFrame(b); err == nil {
		t.Error("expected error for a declared total length exceeding the buffer")
	}
}

func TestParseFrame_ICMPUnreachableEmbedsOriginal(t *testing.T) {
	src := net.ParseIP("172.16.0.1")
	dst := net.ParseIP("172.16.0.2")

	embedded, _ := BuildIPv4Packet(src, dst, 17, []byte{0, 0, 0, 0, 0, 8, 0, 0})
	icmpPayload := append([]byte{0, 0, 0, 0}, embedded...) // unused(4) + original datagram
	frame, err := BuildIPv4Packet(dst, src, 1, append([]byte{3, 3}, icmpPayload...))
	if err != nil {
		t.Fatalf("BuildIPv4Packet failed: %v", err)
	}

	parsed, err := ParseFrame(frame)
	if err != nil {
		t.Fatalf("ParseFrame failed: %v", err)
	}
	if parsed.Kind != L4ICMP {
		t.Fatalf("expected L4ICMP, got %v", parsed.Kind)
	}
	if parsed.ICMP.Type != 3 || parsed.ICMP.Code != 3 {
		t.Errorf("expected type=3 code=3, got type=%d code=%d", parsed.ICMP.Type, parsed.ICMP.Code)
	}
	if len(parsed.ICMP.Payload) == 0 {
		t.Error("expected the embedded original datagram to be captured in Payload")
	}
}
