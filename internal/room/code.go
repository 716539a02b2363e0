package room

import (
	"crypto/rand"
	"strings"
)

const (
	codeLength   = 4
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewCode returns a random 4-character uppercase alphanumeric room code.
// Uniqueness is the caller's job: the coordinator checks against the store
// and retries on collision.
func NewCode() string {
	// Rejection sampling to keep the distribution uniform over the alphabet.
	max := byte(255 - (256 % len(codeAlphabet)))

	out := make([]byte, 0, codeLength)
	buf := make([]byte, codeLength*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic(err)
		}
		for _, b := range buf {
			if b > max {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(out) == codeLength {
				return string(out)
			}
		}
	}
}

// NormalizeCode upper-cases and trims a client-supplied room code. Lookups of
// malformed codes simply miss, so no format error is needed here.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
