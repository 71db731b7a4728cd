package dedup

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable content hash for a message. It is stored as
// the claim value so that a repeated id carrying different text can be
// spotted; identity for dedup purposes is still the id alone.
func Fingerprint(source, text string) string {
	sum := sha256.Sum256([]byte(source + "|" + text))
	return hex.EncodeToString(sum[:])
}
