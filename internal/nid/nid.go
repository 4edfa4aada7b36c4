// Package nid generates the opaque 32-character identifiers assigned to
// notes, folders, and resources.
package nid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Length is the exact length of a generated id.
const Length = 32

// New returns a fresh id: 12 hex characters encoding the current Unix
// millisecond timestamp, followed by 20 random hex characters. Ids generated
// later therefore sort lexicographically after earlier ones.
func New() string {
	var buf [10]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform is broken; nothing
		// sensible can be generated without it.
		panic(fmt.Sprintf("nid: read random: %v", err))
	}
	return fmt.Sprintf("%012x", time.Now().UnixMilli()) + hex.EncodeToString(buf[:])
}

// Valid reports whether s has the canonical id shape: exactly Length
// lowercase hex characters. Ids from pre-existing stores use the same
// 32-character hex format, so this accepts them too.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
