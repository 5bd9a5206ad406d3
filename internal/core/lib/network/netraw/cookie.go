package netraw

import (
	"crypto/rand"
	"encoding/binary"
	"net"

	"github.com/cespare/xxhash/v2"
)

// CookieSecretLen is the width of the per-scan keyed-hash secret.
const CookieSecretLen = 16

// CookieSecret is a per-scan 128-bit random key used to derive ProbeCookies.
// Callers own its lifecycle: generate once at scan start, zeroize at scan end.
type CookieSecret [CookieSecretLen]byte

// NewCookieSecret draws a fresh random secret from crypto/rand.
func NewCookieSecret() (CookieSecret, error) {
	var s CookieSecret
	_, err := rand.Read(s[:])
	return s, err
}

// Zeroize overwrites the secret in place. Call when the scan tears down.
func (s *CookieSecret) Zeroize() {
	for i := range s {
		s[i] = 0
	}
}

// DeriveCookie computes a 32-bit ProbeCookie from (dst IP, dst port,
// scan-epoch, attempt#) keyed by the per-scan secret. xxhash's Sum64 with
// the secret folded into the input stream stands in for a SipHash MAC:
// both are keyed, fast, non-cryptographic hashes sized for anti-spoofing
// margins rather than collision resistance against a motivated attacker.
func (s CookieSecret) DeriveCookie(dst net.IP, dstPort uint16, scanEpoch uint32, attempt uint8) uint32 {
	var buf [32]byte
	copy(buf[0:16], s[:])
	ip4 := dst.To4()
	if ip4 != nil {
		copy(buf[16:20], ip4)
	} else if ip16 := dst.To16(); ip16 != nil {
		// fold the 16-byte v6 address down with the low/high halves
		for i := 0; i < 16; i++ {
			buf[16+(i%4)] ^= ip16[i]
		}
	}
	binary.BigEndian.PutUint16(buf[20:22], dstPort)
	binary.BigEndian.PutUint32(buf[22:26], scanEpoch)
	buf[26] = attempt

	sum := xxhash.Sum64(buf[:])
	return uint32(sum) ^ uint32(sum>>32)
}

// VerifyCookie recomputes the cookie for the given fields and compares it
// against a value recovered from a response (e.g. TCP ACK-1 or IP-ID).
func (s CookieSecret) VerifyCookie(dst net.IP, dstPort uint16, scanEpoch uint32, attempt uint8, got uint32) bool {
	return s.DeriveCookie(dst, dstPort, scanEpoch, attempt) == got
}
