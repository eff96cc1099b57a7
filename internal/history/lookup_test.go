package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medina-negoce/medina-erp/internal/bons"
)

type fakeSource struct {
	byContact []bons.Bon
	byType    []bons.Bon
}

func (f *fakeSource) ByContact(_ context.Context, _ int64, _ []bons.BonType, _ int) ([]bons.Bon, error) {
	return f.byContact, nil
}

func (f *fakeSource) ByType(_ context.Context, t bons.BonType, _ int) ([]bons.Bon, error) {
	var out []bons.Bon
	for _, b := range f.byType {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out, nil
}

func day(n int) time.Time {
	return time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC)
}

func saleBon(n int, statut bons.BonStatus, items ...bons.Item) bons.Bon {
	return bons.Bon{
		Numero:  "SOR000" + string(rune('0'+n)),
		Type:    bons.TypeSortie,
		Statut:  statut,
		DateBon: day(n),
		Items:   items,
	}
}

func item(productID int64, prix, qty float64) bons.Item {
	return bons.Item{ProductID: productID, PrixUnitaire: prix, Quantite: qty}
}

func TestLastPrice(t *testing.T) {
	src := &fakeSource{byContact: []bons.Bon{
		// Most recent first, as the repository returns them. Only the
		// validé family counts here; the day-8 en-attente doc does not.
		saleBon(9, bons.StatusValide, item(2, 99, 1)),
		saleBon(8, bons.StatusEnAttente, item(1, 120, 3)),
		saleBon(7, bons.StatusValide, item(1, 110, 5)),
	}}
	lookup := NewLookup(src)

	hit, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
	require.Equal(t, 5.0, hit.Quantite)
	require.Equal(t, day(7), hit.DateBon)
}

func TestLastPriceSkipsExcludedStatuses(t *testing.T) {
	src := &fakeSource{byContact: []bons.Bon{
		saleBon(9, bons.StatusAnnule, item(1, 200, 1)),
		saleBon(8, bons.StatusBrouillon, item(1, 150, 1)),
		saleBon(7, bons.StatusValide, item(1, 110, 5)),
	}}
	lookup := NewLookup(src)

	hit, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestLastPriceSkipsUnparsableItems(t *testing.T) {
	corrupted := saleBon(9, bons.StatusValide)
	corrupted.Items = nil // row whose jsonb payload failed to decode
	src := &fakeSource{byContact: []bons.Bon{
		corrupted,
		saleBon(7, bons.StatusValide, item(1, 110, 5)),
	}}
	lookup := NewLookup(src)

	hit, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestLastPriceOnlyPendingHistory(t *testing.T) {
	src := &fakeSource{byContact: []bons.Bon{
		saleBon(9, bons.StatusEnAttente, item(1, 120, 3)),
	}}
	lookup := NewLookup(src)

	_, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.False(t, found)
}

func TestLastPriceNoHistory(t *testing.T) {
	lookup := NewLookup(&fakeSource{})
	_, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.False(t, found)
}

func TestVariantFiltering(t *testing.T) {
	v1, v2 := int64(10), int64(11)
	withVariant := func(it bons.Item, v *int64) bons.Item {
		it.VariantID = v
		return it
	}
	src := &fakeSource{byContact: []bons.Bon{
		saleBon(9, bons.StatusValide, withVariant(item(1, 130, 1), &v2)),
		saleBon(8, bons.StatusValide, withVariant(item(1, 120, 1), &v1)),
		saleBon(7, bons.StatusValide, item(1, 110, 1)),
	}}
	lookup := NewLookup(src)

	hit, found, err := lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1, VariantID: &v1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 120.0, hit.Prix)

	// Nil variant only matches lines without a variant.
	hit, found, err = lookup.LastPrice(context.Background(), 1, ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestLastComptantPrice(t *testing.T) {
	// The cash lookup accepts en-attente documents.
	comptant := saleBon(9, bons.StatusEnAttente, item(1, 95, 2))
	comptant.Type = bons.TypeComptant
	src := &fakeSource{byType: []bons.Bon{comptant}}
	lookup := NewLookup(src)

	hit, found, err := lookup.LastComptantPrice(context.Background(), ItemFilter{ProductID: 1})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 95.0, hit.Prix)
}

func TestFrequentPrice(t *testing.T) {
	docs := []bons.Bon{
		// Two sightings of 120 stay under the default threshold of five,
		// so the five older sightings of 110 carry it.
		saleBon(9, bons.StatusValide, item(1, 120, 1)),
		saleBon(8, bons.StatusValide, item(1, 120, 1)),
	}
	for n := 7; n >= 3; n-- {
		docs = append(docs, saleBon(n, bons.StatusValide, item(1, 110, 1)))
	}
	lookup := NewLookup(&fakeSource{byType: docs})

	hit, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 0)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestFrequentPriceThreshold(t *testing.T) {
	docs := []bons.Bon{
		saleBon(9, bons.StatusValide, item(1, 110, 1)),
		saleBon(8, bons.StatusValide, item(1, 110, 1)),
	}
	lookup := NewLookup(&fakeSource{byType: docs})

	// Two sightings stay under the default threshold of five.
	_, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 0)
	require.NoError(t, err)
	require.False(t, found)

	hit, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestFrequentPriceMostRecentQualifyingWins(t *testing.T) {
	docs := []bons.Bon{
		// 120 seen twice (last on day 9), 110 three times (last on day 7).
		// Both clear the threshold; the more recent price wins even with
		// fewer sightings.
		saleBon(9, bons.StatusValide, item(1, 120, 1)),
		saleBon(8, bons.StatusValide, item(1, 120, 1)),
		saleBon(7, bons.StatusValide, item(1, 110, 1)),
		saleBon(6, bons.StatusValide, item(1, 110, 1)),
		saleBon(5, bons.StatusValide, item(1, 110, 1)),
	}
	lookup := NewLookup(&fakeSource{byType: docs})

	hit, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 120.0, hit.Prix)
	require.Equal(t, day(9), hit.DateBon)
}

func TestFrequentPriceSpansContacts(t *testing.T) {
	// Frequency is per product, not per contact: the per-contact feed is
	// never consulted.
	contactOnly := []bons.Bon{
		saleBon(9, bons.StatusValide, item(1, 110, 1)),
		saleBon(8, bons.StatusValide, item(1, 110, 1)),
	}
	lookup := NewLookup(&fakeSource{byContact: contactOnly})

	_, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 2)
	require.NoError(t, err)
	require.False(t, found)

	lookup = NewLookup(&fakeSource{byType: contactOnly})
	hit, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}

func TestFrequentPriceBucketsByCents(t *testing.T) {
	docs := []bons.Bon{
		saleBon(9, bons.StatusValide, item(1, 110.0000001, 1)),
		saleBon(8, bons.StatusValide, item(1, 110, 1)),
		saleBon(7, bons.StatusValide, item(1, 109.999999, 1)),
	}
	lookup := NewLookup(&fakeSource{byType: docs})

	hit, found, err := lookup.FrequentPrice(context.Background(), ItemFilter{ProductID: 1}, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 110.0, hit.Prix)
}
