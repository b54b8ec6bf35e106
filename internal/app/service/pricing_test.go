package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePrice_AllTiers(t *testing.T) {
	cases := []struct {
		tier  int
		base  int64
		vat   int64
		total int64
	}{
		{1, 5_000_000, 600_000, 5_605_000},
		{2, 10_000_000, 1_200_000, 11_205_000},
		{3, 20_000_000, 2_400_000, 22_405_000},
		{4, 35_000_000, 4_200_000, 39_205_000},
		{5, 50_000_000, 6_000_000, 56_005_000},
	}

	for _, tc := range cases {
		price, err := ComputePrice(tc.tier)
		require.NoError(t, err)
		assert.Equal(t, tc.tier, price.Tier)
		assert.Equal(t, tc.base, price.Base)
		assert.Equal(t, tc.vat, price.VAT)
		assert.Equal(t, int64(5_000), price.Fee)
		assert.Equal(t, tc.total, price.Total)
	}
}

func TestComputePrice_InvalidTier(t *testing.T) {
	for _, tier := range []int{0, -1, 6, 100} {
		_, err := ComputePrice(tier)
		assert.ErrorIs(t, err, ErrInvalidTier, "tier %d", tier)
	}
}

func TestComputePrice_BasePricesStrictlyIncreasing(t *testing.T) {
	var prev int64
	for tier := 1; tier <= 5; tier++ {
		price, err := ComputePrice(tier)
		require.NoError(t, err)
		assert.Greater(t, price.Base, prev)
		prev = price.Base
	}
}
