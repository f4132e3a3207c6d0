package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// HashBytes computes the raw SHA-1 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha1.Sum(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the envelope "type\0content".
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write([]byte(objType))
	h.Write([]byte{0})
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// IsHash reports whether s is exactly HashLen hexadecimal characters.
// Both upper and lower case digits are accepted.
func IsHash(s string) bool {
	if len(s) != HashLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// ParseHash validates s and returns it in canonical lowercase form.
func ParseHash(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if !IsHash(s) {
		return "", fmt.Errorf("parse hash %q: %w: want %d hex characters", s, ErrCorrupt, HashLen)
	}
	return Hash(strings.ToLower(s)), nil
}

// Short returns the first 8 characters of h for display.
func (h Hash) Short() string {
	if len(h) > 8 {
		return string(h[:8])
	}
	return string(h)
}
