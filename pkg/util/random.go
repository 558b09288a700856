package util

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// GenerateToken returns n random bytes hex encoded (2n characters).
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashIP returns a keyed BLAKE2b-256 digest of ip so raw addresses never reach the database.
// "unknown" is hashed like any other value so it still rate-limits as one bucket.
func HashIP(key, ip string) string {
	k := []byte(key)
	if len(k) > blake2b.Size {
		sum := blake2b.Sum256(k)
		k = sum[:]
	}
	h, err := blake2b.New256(k)
	if err != nil {
		// only reachable with an oversized key, which is truncated above
		sum := blake2b.Sum256([]byte(key + ip))
		return hex.EncodeToString(sum[:])
	}
	h.Write([]byte(strings.TrimSpace(ip)))
	return hex.EncodeToString(h.Sum(nil))
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}$`)
)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsValidZip(zip string) bool {
	return zipPattern.MatchString(zip)
}
