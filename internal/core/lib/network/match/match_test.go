package match

import (
	"net"
	"testing"
	"time"

	"prtip/internal/core/lib/network/netraw"
)

func TestStatelessMatcher_VerifyAcceptsAndRejects(t *testing.T) {
	secret, err := netraw.NewCookieSecret()
	if err != nil {
		t.Fatalf("NewCookieSecret failed: %v", err)
	}
	m := NewStatelessMatcher(secret, 7)
	defer m.Close()

	dst := net.ParseIP("192.0.2.10")
	cookie := secret.DeriveCookie(dst, 443, 7, 0)

	if !m.Verify(dst, 443, 0, cookie) {
		t.Error("Verify rejected a genuinely derived cookie")
	}
	if m.Verify(dst, 443, 1, cookie) {
		t.Error("Verify accepted a cookie derived under a different attempt number")
	}
}

func TestStatelessMatcher_InsertAndMatchAreNoops(t *testing.T) {
	secret, _ := netraw.NewCookieSecret()
	m := NewStatelessMatcher(secret, 1)
	defer m.Close()

	m.Insert(123, PendingEntry{Port: 80})
	if res := m.Match(123); res.Ok {
		t.Error("stateless Match should never report Ok")
	}
}

func TestStatefulMatcher_InsertAndMatchRemoves(t *testing.T) {
	m := NewStatefulMatcher(3, nil, func(PendingEntry) {})
	defer m.Close()

	entry := PendingEntry{Port: 22, Attempt: 0, Deadline: time.Now().Add(time.Second)}
	m.InsertWithTTL(99, entry, time.Second)

	res := m.Match(99)
	if !res.Ok {
		t.Fatal("expected matching entry to be found")
	}
	if res.Entry.Port != 22 {
		t.Errorf("expected port 22, got %d", res.Entry.Port)
	}

	// second lookup for the same cookie must miss: Match removes on hit.
	if res2 := m.Match(99); res2.Ok {
		t.Error("expected entry to be removed after first Match")
	}
}

func TestStatefulMatcher_MatchMissReturnsNotOk(t *testing.T) {
	m := NewStatefulMatcher(3, nil, func(PendingEntry) {})
	defer m.Close()

	if res := m.Match(12345); res.Ok {
		t.Error("expected a miss for a cookie never inserted")
	}
}

func TestStatefulMatcher_TimeoutFiresWithoutRetry(t *testing.T) {
	timedOut := make(chan PendingEntry, 1)
	m := NewStatefulMatcher(1, nil, func(e PendingEntry) {
		timedOut <- e
	})
	defer m.Close()

	entry := PendingEntry{Port: 53, Attempt: 0, Deadline: time.Now().Add(20 * time.Millisecond)}
	m.InsertWithTTL(7, entry, 20*time.Millisecond)

	select {
	case e := <-timedOut:
		if e.Port != 53 {
			t.Errorf("expected timed-out entry for port 53, got %d", e.Port)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onTimeout never fired after entry expiry")
	}
}

func TestStatefulMatcher_RetryReinsertsUnderNewCookie(t *testing.T) {
	retried := make(chan uint32, 1)
	m := NewStatefulMatcher(3,
		func(e PendingEntry) (uint32, time.Duration, bool) {
			retried <- uint32(e.Attempt)
			return 555, 50 * time.Millisecond, true
		},
		func(PendingEntry) {},
	)
	defer m.Close()

	entry := PendingEntry{Port: 53, Attempt: 0, Deadline: time.Now().Add(20 * time.Millisecond)}
	m.InsertWithTTL(7, entry, 20*time.Millisecond)

	select {
	case attempt := <-retried:
		if attempt != 1 {
			t.Errorf("expected retry callback to see attempt incremented to 1, got %d", attempt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onRetry never fired after entry expiry")
	}

	if res := m.Match(555); !res.Ok {
		t.Error("expected the re-inserted cookie to be matchable")
	}
}
