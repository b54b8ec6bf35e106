package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVenueCode(t *testing.T) {
	code := GenerateVenueCode(8)
	assert.Len(t, code, 8)

	// Codes are embedded in dash-delimited order ids and must never
	// contain the delimiter
	for _, r := range code {
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '2' && r <= '9'
		assert.True(t, isUpper || isDigit, "unexpected character %q", r)
	}
}

func TestGenerateVenueCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateVenueCode(8)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
