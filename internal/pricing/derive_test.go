package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	t.Run("applies default markups", func(t *testing.T) {
		got := Derive(100, DefaultCoutPct, DefaultGrosPct, DefaultVentePct)
		require.Equal(t, 102.0, got.CoutRevient)
		require.Equal(t, 110.0, got.PrixGros)
		require.Equal(t, 125.0, got.PrixVente)
	})

	t.Run("rounds each price to two decimals", func(t *testing.T) {
		got := Derive(33.33, 2, 10, 25)
		require.Equal(t, 34.0, got.CoutRevient)
		require.Equal(t, 36.66, got.PrixGros)
		require.Equal(t, 41.66, got.PrixVente)
	})

	t.Run("zero purchase price yields zero prices", func(t *testing.T) {
		got := Derive(0, 2, 10, 25)
		require.Equal(t, DerivedPrices{}, got)
	})

	t.Run("negative purchase price yields zero prices", func(t *testing.T) {
		got := Derive(-10, 2, 10, 25)
		require.Equal(t, DerivedPrices{}, got)
	})

	t.Run("negative markup discounts below purchase price", func(t *testing.T) {
		got := Derive(200, -5, 0, 0)
		require.Equal(t, 190.0, got.CoutRevient)
		require.Equal(t, 200.0, got.PrixGros)
	})
}

func TestInversePercent(t *testing.T) {
	t.Run("recovers the markup from an absolute price", func(t *testing.T) {
		pct, ok := InversePercent(100, 125)
		require.True(t, ok)
		require.Equal(t, 25.0, pct)
	})

	t.Run("rounds to four decimals", func(t *testing.T) {
		pct, ok := InversePercent(3, 4)
		require.True(t, ok)
		require.Equal(t, 33.3333, pct)
	})

	t.Run("not ok without a purchase price", func(t *testing.T) {
		_, ok := InversePercent(0, 125)
		require.False(t, ok)
	})

	t.Run("round trips through Derive", func(t *testing.T) {
		for _, prixAchat := range []float64{12.5, 99.99, 1450} {
			derived := Derive(prixAchat, 2, 10, 25)
			pct, ok := InversePercent(prixAchat, derived.PrixVente)
			require.True(t, ok)
			require.InDelta(t, 25, pct, 0.05)
		}
	})
}

func TestRounding(t *testing.T) {
	require.Equal(t, 1.46, Round2(1.455))
	require.Equal(t, 1.45, Round2(1.4549))
	require.Equal(t, 33.3333, Round4(33.33333))
	require.Equal(t, int64(1025), RoundCents(10.249))
	require.Equal(t, int64(1025), RoundCents(10.2501))
	require.Equal(t, 10.25, CentsToAmount(1025))
	require.Equal(t, 110.0, CentsToAmount(RoundCents(110.0000001)))
}

func TestParseAmount(t *testing.T) {
	require.Equal(t, 1450.75, ParseAmount("1450,75"))
	require.Equal(t, 99.9, ParseAmount("99.9"))
	require.Equal(t, 0.0, ParseAmount("abc"))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "1450.75", FormatAmount(1450.75))
	require.Equal(t, "100", FormatAmount(100.0))
}
