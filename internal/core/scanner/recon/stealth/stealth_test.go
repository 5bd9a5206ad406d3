package stealth

import (
	"encoding/binary"
	"testing"

	"prtip/internal/core/lib/network/netraw"
)

// buildIPv4TCP assembles a minimal, checksum-valid IPv4/TCP SYN frame for
// the transforms under test to mutate. No options, 20-byte IP + 20-byte
// TCP header plus an optional payload.
func buildIPv4TCP(t *testing.T, src, dst [4]byte, ttl uint8, payload []byte) []byte {
	t.Helper()

	tcp := make([]byte, 20+len(payload))
	binary.BigEndian.PutUint16(tcp[0:2], 40000) // src port
	binary.BigEndian.PutUint16(tcp[2:4], 80)    // dst port
	binary.BigEndian.PutUint32(tcp[4:8], 123456)
	tcp[12] = 5 << 4 // data offset
	tcp[13] = 0x02   // SYN
	binary.BigEndian.PutUint16(tcp[14:16], 65535)
	copy(tcp[20:], payload)

	ip := make([]byte, 20+len(tcp))
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], uint16(len(ip)))
	ip[8] = ttl
	ip[9] = 6 // TCP
	copy(ip[12:16], src[:])
	copy(ip[16:20], dst[:])
	binary.BigEndian.PutUint16(ip[10:12], netraw.Checksum(ip[:20]))

	phSum := pseudoChecksum(ip[12:16], ip[16:20], 6, tcp)
	binary.BigEndian.PutUint16(tcp[16:18], phSum)
	copy(ip[20:], tcp)

	return ip
}

func TestTTLShape(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	transform := NewTTLShape(128)

	out, err := transform(frame)
	if err != nil {
		t.Fatalf("NewTTLShape transform failed: %v", err)
	}
	if out[8] != 128 {
		t.Fatalf("expected TTL 128, got %d", out[8])
	}
	if netraw.Checksum(out[:20]) != 0 {
		t.Error("IP header checksum invalid after TTL shaping")
	}
	if len(frame) >= 9 && frame[8] != 64 {
		t.Error("NewTTLShape mutated the caller's original frame in place")
	}
}

func TestBadChecksum_TCP(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	before := binary.BigEndian.Uint16(frame[36:38])

	transform := NewBadChecksum()
	out, err := transform(frame)
	if err != nil {
		t.Fatalf("NewBadChecksum failed: %v", err)
	}
	after := binary.BigEndian.Uint16(out[36:38])
	if after == before {
		t.Error("checksum unchanged, expected corruption")
	}
	if after != ^before {
		t.Errorf("expected bit-flipped checksum %x, got %x", ^before, after)
	}
}

func TestBadChecksum_RejectsNonTCPUDP(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	frame[9] = 1 // ICMP

	if _, err := NewBadChecksum()(frame); err == nil {
		t.Error("expected error for non-TCP/UDP protocol")
	}
}

func TestDecoy_PreservesRealFrameAndCookie(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	pool := []netIPv4{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 9, 9, 9}}

	transform := NewDecoy(pool, 3)
	frames, err := transform(frame)
	if err != nil {
		t.Fatalf("NewDecoy failed: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames (1 real + 3 decoys), got %d", len(frames))
	}

	foundReal := false
	for _, f := range frames {
		seq := binary.BigEndian.Uint32(f[24:28])
		if seq == 123456 {
			// sequence number (cookie-bearing field for SYN scans) must
			// survive on every clone, real or decoy
		} else {
			t.Errorf("a decoy frame lost the original sequence number: got %d", seq)
		}
		if netraw.Checksum(f[:20]) != 0 {
			t.Error("decoy frame has an invalid IP header checksum")
		}
		src := [4]byte{f[12], f[13], f[14], f[15]}
		if src == ([4]byte{10, 0, 0, 1}) {
			foundReal = true
		}
	}
	if !foundReal {
		t.Error("real source address not found among shuffled output frames")
	}
}

func TestDecoy_NoopWhenDisabled(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	out, err := NewDecoy(nil, 3)(frame)
	if err != nil {
		t.Fatalf("NewDecoy failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected passthrough with empty pool, got %d frames", len(out))
	}
}

func TestFragment_AlignedAndReassemblable(t *testing.T) {
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte(i)
	}
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, payload)

	transform := NewFragment(16)
	frags, err := transform(frame)
	if err != nil {
		t.Fatalf("NewFragment failed: %v", err)
	}
	if len(frags) < 2 {
		t.Fatalf("expected multiple fragments, got %d", len(frags))
	}

	for i, f := range frags {
		if netraw.Checksum(f[:20]) != 0 {
			t.Errorf("fragment %d has invalid IP header checksum", i)
		}
		flagsOff := binary.BigEndian.Uint16(f[6:8])
		more := flagsOff&ipv4FlagMF != 0
		if i < len(frags)-1 && !more {
			t.Errorf("fragment %d should set the more-fragments flag", i)
		}
		if i == len(frags)-1 && more {
			t.Error("last fragment should not set the more-fragments flag")
		}
	}
}

func TestFragment_SmallPayloadPassesThrough(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	out, err := NewFragment(64)(frame)
	if err != nil {
		t.Fatalf("NewFragment failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected single passthrough fragment, got %d", len(out))
	}
}

func TestPipeline_ComposesInOrder(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, make([]byte, 32))
	pipeline := NewPipeline(
		NewTTLShape(200),
		nil,
		NewDecoy([]netIPv4{{8, 8, 8, 8}}, 1),
		NewFragment(16),
	)

	out, err := pipeline.Apply(frame)
	if err != nil {
		t.Fatalf("Pipeline.Apply failed: %v", err)
	}
	// 2 frames (real + 1 decoy) each fragmented into multiple pieces
	if len(out) < 4 {
		t.Fatalf("expected fragmented output from both real and decoy frames, got %d", len(out))
	}
	for _, f := range out {
		if f[8] != 200 {
			t.Error("ttl shaping not applied before fragmentation")
		}
	}
}

func TestPipeline_NilStagesAreNoop(t *testing.T) {
	frame := buildIPv4TCP(t, [4]byte{10, 0, 0, 1}, [4]byte{10, 0, 0, 2}, 64, nil)
	pipeline := NewPipeline(nil, nil, nil, nil)

	out, err := pipeline.Apply(frame)
	if err != nil {
		t.Fatalf("Pipeline.Apply failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected exactly the original frame back, got %d frames", len(out))
	}
}
