package lingo

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// inflightKey identifies one outstanding remote call. At most one call per
// key is ever in flight; concurrent requests attach to it. Markup and plain
// requests for the same text are dispatched with different formats and must
// not coalesce into one another.
func inflightKey(text, src, dst string, markup bool) string {
	k := HashText(text) + ":" + src + ":" + dst
	if markup {
		k += ":m"
	}
	return k
}
