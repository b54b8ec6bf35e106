// Package orderid encodes and decodes the structured payment order identifier
// that correlates a gateway transaction with a venue and license tier.
package orderid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	prefix    = "NOBAR"
	delimiter = "-"

	// MinTier and MaxTier bound the license tiers an order id may carry.
	MinTier = 1
	MaxTier = 5
)

var (
	ErrMalformed        = errors.New("malformed order id")
	ErrInvalidVenueCode = errors.New("venue code must be alphanumeric")
)

// Decoded is the result of parsing an order id.
type Decoded struct {
	VenueCode string
	Tier      int
}

// Encode builds an order id from a venue code and tier. The trailing
// timestamp disambiguates repeated orders for the same venue.
func Encode(venueCode string, tier int) (string, error) {
	if !isAlphanumeric(venueCode) {
		return "", ErrInvalidVenueCode
	}
	if tier < MinTier || tier > MaxTier {
		return "", fmt.Errorf("%w: tier %d out of range", ErrMalformed, tier)
	}
	return strings.Join([]string{
		prefix,
		venueCode,
		strconv.Itoa(tier),
		strconv.FormatInt(time.Now().UnixMilli(), 10),
	}, delimiter), nil
}

// Decode parses an order id. Inbound order ids come from webhook payloads and
// client confirmation calls, so every field is checked before use.
func Decode(orderID string) (*Decoded, error) {
	parts := strings.Split(orderID, delimiter)
	if len(parts) != 4 {
		return nil, ErrMalformed
	}
	if parts[0] != prefix {
		return nil, ErrMalformed
	}
	if parts[1] == "" || !isAlphanumeric(parts[1]) {
		return nil, ErrMalformed
	}

	tier, err := strconv.Atoi(parts[2])
	if err != nil || tier < MinTier || tier > MaxTier {
		return nil, ErrMalformed
	}

	if _, err := strconv.ParseInt(parts[3], 10, 64); err != nil {
		return nil, ErrMalformed
	}

	return &Decoded{VenueCode: parts[1], Tier: tier}, nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
