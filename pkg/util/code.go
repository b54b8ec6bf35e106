package util

import (
	"crypto/rand"
	"math/big"
)

// Venue codes are embedded in payment order identifiers, so the alphabet must
// stay free of the order id delimiter and of ambiguous characters.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateVenueCode returns a random alphanumeric code of the given length.
func GenerateVenueCode(length int) string {
	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is broken
			code[i] = codeAlphabet[0]
			continue
		}
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}
