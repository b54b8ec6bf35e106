package service

import "errors"

// ErrInvalidTier is returned for tiers outside the published table. Callers
// must reject the request rather than substitute a default tier.
var ErrInvalidTier = errors.New("invalid license tier")

// basePriceByTier is the published base price table in whole IDR.
// Tiers are capacity bands; prices are strictly increasing.
var basePriceByTier = map[int]int64{
	1: 5_000_000,
	2: 10_000_000,
	3: 20_000_000,
	4: 35_000_000,
	5: 50_000_000,
}

const (
	vatRatePercent = 12
	serviceFee     = 5_000
)

// Price is the full breakdown of a license purchase, all amounts in whole IDR.
type Price struct {
	Tier  int   `json:"tier"`
	Base  int64 `json:"base"`
	VAT   int64 `json:"vat"`
	Fee   int64 `json:"fee"`
	Total int64 `json:"total"`
}

// ComputePrice prices a license tier. VAT is rounded half-up on the base
// amount; the service fee is flat and added after VAT. Amounts are computed
// server-side only, client-supplied figures are never trusted.
func ComputePrice(tier int) (*Price, error) {
	base, ok := basePriceByTier[tier]
	if !ok {
		return nil, ErrInvalidTier
	}

	vat := (base*vatRatePercent + 50) / 100

	return &Price{
		Tier:  tier,
		Base:  base,
		VAT:   vat,
		Fee:   serviceFee,
		Total: base + vat + serviceFee,
	}, nil
}
