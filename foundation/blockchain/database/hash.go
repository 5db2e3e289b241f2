package database

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// hashOf returns the lowercase hex SHA-256 of the parts concatenated in order.
func hashOf(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
	}

	return hex.EncodeToString(h.Sum(nil))
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
