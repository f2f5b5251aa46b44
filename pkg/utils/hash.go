package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashString returns a stable hex digest used for cache keys.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// NormalizedHash hashes after trimming and lowercasing so that
// "5678 Westheimer Rd" and "5678 westheimer rd " share a cache slot.
func NormalizedHash(input string) string {
	return HashString(strings.ToLower(strings.TrimSpace(input)))
}
