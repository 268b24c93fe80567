package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomSlug returns n characters from the lowercase alphanumeric alphabet.
// Falls back to a timestamp-based slug if the system randomness source fails.
func randomSlug(n int) string {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(idAlphabet))))
		if err != nil {
			return fmt.Sprintf("%x", time.Now().UnixNano())[:n]
		}
		out[i] = idAlphabet[idx.Int64()]
	}
	return string(out)
}

// GenerateEventID creates the short public identifier embedded in share links.
func GenerateEventID() string {
	return randomSlug(6)
}

// GenerateManageID creates the longer capability token for the organizer's
// management link. Longer than the public id since it grants edit access.
func GenerateManageID() string {
	return randomSlug(10)
}
