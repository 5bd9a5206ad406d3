package recon

import "testing"

func TestUDPPayloadFor_KnownPorts(t *testing.T) {
	for _, port := range []int{53, 161, 123, 137, 111} {
		payload := UDPPayloadFor(port)
		if len(payload) == 0 {
			t.Errorf("port %d: expected a non-empty probe payload", port)
		}
	}
}

func TestUDPPayloadFor_UnknownPortIsNil(t *testing.T) {
	if p := UDPPayloadFor(54321); p != nil {
		t.Errorf("expected nil payload for an unmapped port, got %d bytes", len(p))
	}
}

func TestUDPPayloadFor_NTPShapeAndMode(t *testing.T) {
	payload := UDPPayloadFor(123)
	if len(payload) != 48 {
		t.Fatalf("expected a 48-byte NTPv3 packet, got %d bytes", len(payload))
	}
	mode := payload[0] & 0x07
	if mode != 3 {
		t.Errorf("expected NTP mode 3 (client), got %d", mode)
	}
}

func TestUDPPayloadFor_NetbiosNameQueryLength(t *testing.T) {
	payload := UDPPayloadFor(137)
	// 12-byte header + 1 length byte + 32 encoded name bytes + 1 root
	// terminator + 2 (qtype) + 2 (qclass)
	want := 12 + 1 + 32 + 1 + 2 + 2
	if len(payload) != want {
		t.Errorf("expected %d-byte NetBIOS query, got %d", want, len(payload))
	}
}

func TestUDPPayloadFor_RPCNullCallFields(t *testing.T) {
	payload := UDPPayloadFor(111)
	if len(payload) != 40 {
		t.Fatalf("expected a 40-byte RPC NULL call, got %d bytes", len(payload))
	}
	rpcVers := uint32(payload[8])<<24 | uint32(payload[9])<<16 | uint32(payload[10])<<8 | uint32(payload[11])
	if rpcVers != 2 {
		t.Errorf("expected rpcvers=2, got %d", rpcVers)
	}
}
