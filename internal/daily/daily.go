// internal/daily/daily.go
//
// Deterministic daily challenge selection.
// Every player gets the same vocabulary set and the same shuffle on a given
// UTC date: both are derived from HMAC-SHA256(salt, YYYY-MM-DD).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func digest(date time.Time, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	return h.Sum(nil)
}

// SetIndex returns a deterministic index in [0, setCount) for a date.
func SetIndex(date time.Time, salt string, setCount int) int {
	if setCount <= 0 {
		return 0
	}
	// first 8 bytes for the modulus, the next 8 feed Seed
	n := binary.BigEndian.Uint64(digest(date, salt)[:8])
	return int(n % uint64(setCount))
}

// Seed returns the shuffle seed for a date.
func Seed(date time.Time, salt string) uint64 {
	return binary.BigEndian.Uint64(digest(date, salt)[8:16])
}
