package recon

import "testing"

func ctxFor(kind ScanKind) ProbeContext {
	return ProbeContext{Port: 443, Kind: kind}
}

func TestDispatch_SYN(t *testing.T) {
	cases := []struct {
		name string
		resp Response
		want PortState
	}{
		{"syn-ack open", Response{Signal: SignalSYNACK}, StateOpen},
		{"rst closed", Response{Signal: SignalRST}, StateClosed},
		{"rst-ack closed", Response{Signal: SignalRSTACK}, StateClosed},
		{"icmp host-unreachable filtered", Response{Signal: SignalICMPUnreachable, ICMPCode: 1}, StateFiltered},
		{"timeout filtered", Response{Signal: SignalNone}, StateFiltered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Dispatch(c.resp, ctxFor(ScanSYN))
			if got.State != c.want {
				t.Errorf("got %v, want %v", got.State, c.want)
			}
		})
	}
}

func TestDispatch_Connect(t *testing.T) {
	if got := Dispatch(Response{Signal: SignalSYNACK}, ctxFor(ScanConnect)); got.State != StateOpen {
		t.Errorf("expected StateOpen, got %v", got.State)
	}
	if got := Dispatch(Response{Signal: SignalRST}, ctxFor(ScanConnect)); got.State != StateClosed {
		t.Errorf("expected StateClosed, got %v", got.State)
	}
	if got := Dispatch(Response{Signal: SignalNone}, ctxFor(ScanConnect)); got.State != StateFiltered {
		t.Errorf("expected StateFiltered on timeout, got %v", got.State)
	}
}

func TestDispatch_UDP(t *testing.T) {
	cases := []struct {
		name string
		resp Response
		want PortState
	}{
		{"reply open", Response{Signal: SignalUDPReply}, StateOpen},
		{"port unreachable closed", Response{Signal: SignalICMPUnreachable, ICMPCode: 3}, StateClosed},
		{"host unreachable filtered", Response{Signal: SignalICMPUnreachable, ICMPCode: 1}, StateFiltered},
		{"silence is openfiltered", Response{Signal: SignalNone}, StateOpenFiltered},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Dispatch(c.resp, ctxFor(ScanUDP))
			if got.State != c.want {
				t.Errorf("got %v, want %v", got.State, c.want)
			}
		})
	}
}

func TestDispatch_FinNullXmas(t *testing.T) {
	for _, kind := range []ScanKind{ScanFIN, ScanNULL, ScanXmas} {
		if got := Dispatch(Response{Signal: SignalRST}, ctxFor(kind)); got.State != StateClosed {
			t.Errorf("%v: expected StateClosed on RST, got %v", kind, got.State)
		}
		if got := Dispatch(Response{Signal: SignalNone}, ctxFor(kind)); got.State != StateOpenFiltered {
			t.Errorf("%v: expected StateOpenFiltered on silence, got %v", kind, got.State)
		}
	}
}

func TestDispatch_ACK(t *testing.T) {
	if got := Dispatch(Response{Signal: SignalRST}, ctxFor(ScanACK)); got.State != StateUnfiltered {
		t.Errorf("expected StateUnfiltered on RST, got %v", got.State)
	}
	if got := Dispatch(Response{Signal: SignalNone}, ctxFor(ScanACK)); got.State != StateFiltered {
		t.Errorf("expected StateFiltered on silence, got %v", got.State)
	}
}

func TestDispatch_UnsupportedKindIsUnknown(t *testing.T) {
	got := Dispatch(Response{Signal: SignalNone}, ctxFor(ScanIdle))
	if got.State != StateUnknown {
		t.Errorf("expected StateUnknown for a kind Dispatch doesn't route, got %v", got.State)
	}
	if got.Cause != "unsupported-scan-kind" {
		t.Errorf("expected unsupported-scan-kind cause, got %q", got.Cause)
	}
}

func TestBase_PropagatesAnomalyAndLatency(t *testing.T) {
	r := Response{Signal: SignalSYNACK, BadChecksum: true, Latency: 5}
	got := Dispatch(r, ctxFor(ScanSYN))
	if !got.Anomaly {
		t.Error("expected Anomaly to propagate from a bad-checksum reply")
	}
	if got.Latency != 5 {
		t.Errorf("expected latency to propagate, got %v", got.Latency)
	}
}
