// Package daily derives deterministic answer indexes from a seed.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns HMAC-SHA256(salt, seed) % n, or 0 when n <= 0.
func Index(seed, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(seed))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Seed names the n-th game started on the UTC day of t: "YYYY-MM-DD#n".
func Seed(t time.Time, n int) string {
	return DateKey(t) + "#" + strconv.Itoa(n)
}
