// Package history answers "what did we charge last time" questions from
// past documents: last price or quantity for a contact, last cash sale
// price, and the most frequent price over recent sales.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/medina-negoce/medina-erp/internal/bons"
	"github.com/medina-negoce/medina-erp/internal/pricing"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

// scanLimit bounds how many recent documents a lookup walks.
const scanLimit = 200

// DefaultMinCount is the occurrence threshold below which no frequent
// price is reported.
const DefaultMinCount = 5

// saleTypes are the document types price history is read from.
var saleTypes = []bons.BonType{bons.TypeSortie, bons.TypeComptant, bons.TypeDevis}

// DocumentSource is the slice of the document repository lookups need.
type DocumentSource interface {
	ByContact(ctx context.Context, contactID int64, types []bons.BonType, limit int) ([]bons.Bon, error)
	ByType(ctx context.Context, t bons.BonType, limit int) ([]bons.Bon, error)
}

// ItemFilter selects the line items a lookup considers. VariantID must
// match exactly (nil matches lines without a variant); UnitID is only
// checked when set.
type ItemFilter struct {
	ProductID int64
	VariantID *int64
	UnitID    *int64
}

func (f ItemFilter) matches(it bons.Item) bool {
	if it.ProductID != f.ProductID {
		return false
	}
	if !sameRef(it.VariantID, f.VariantID) {
		return false
	}
	if f.UnitID != nil && !sameRef(it.UnitID, f.UnitID) {
		return false
	}
	return true
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Hit is one historical observation.
type Hit struct {
	Prix     float64   `json:"prix"`
	Quantite float64   `json:"quantite"`
	DateBon  time.Time `json:"date_bon"`
	Numero   string    `json:"numero"`
}

// Lookup reads price history from stored documents.
type Lookup struct {
	source DocumentSource
}

// NewLookup constructs a Lookup over the document repository.
func NewLookup(source DocumentSource) *Lookup {
	return &Lookup{source: source}
}

// validated admits only documents in the validé family. Rows whose item
// payload failed to parse are skipped.
func validated(b bons.Bon) bool {
	return len(b.Items) > 0 && shared.IsValidatedStatus(string(b.Statut))
}

// validatedOrPending additionally admits en-attente documents; the cash
// and frequent lookups read those too.
func validatedOrPending(b bons.Bon) bool {
	if len(b.Items) == 0 {
		return false
	}
	s := string(b.Statut)
	return shared.IsValidatedStatus(s) || shared.IsPendingStatus(s)
}

// LastPrice returns the price the contact was charged on the most recent
// validated document holding the filtered line. ok is false when no
// history exists.
func (l *Lookup) LastPrice(ctx context.Context, contactID int64, f ItemFilter) (Hit, bool, error) {
	return l.lastHit(ctx, contactID, f)
}

// LastQuantity returns the most recent quantity the contact took. It is
// the same walk as LastPrice; both figures ride on the returned Hit.
func (l *Lookup) LastQuantity(ctx context.Context, contactID int64, f ItemFilter) (Hit, bool, error) {
	return l.lastHit(ctx, contactID, f)
}

func (l *Lookup) lastHit(ctx context.Context, contactID int64, f ItemFilter) (Hit, bool, error) {
	docs, err := l.source.ByContact(ctx, contactID, saleTypes, scanLimit)
	if err != nil {
		return Hit{}, false, err
	}
	return firstMatch(docs, f, validated)
}

// LastComptantPrice returns the most recent cash-sale price for the
// filtered line across all contacts; en-attente cash sales count too.
func (l *Lookup) LastComptantPrice(ctx context.Context, f ItemFilter) (Hit, bool, error) {
	docs, err := l.source.ByType(ctx, bons.TypeComptant, scanLimit)
	if err != nil {
		return Hit{}, false, err
	}
	return firstMatch(docs, f, validatedOrPending)
}

func firstMatch(docs []bons.Bon, f ItemFilter, accept func(bons.Bon) bool) (Hit, bool, error) {
	for _, b := range docs {
		if !accept(b) {
			continue
		}
		for _, it := range b.Items {
			if f.matches(it) {
				return Hit{
					Prix:     it.PrixUnitaire,
					Quantite: it.Quantite,
					DateBon:  b.DateBon,
					Numero:   b.Numero,
				}, true, nil
			}
		}
	}
	return Hit{}, false, nil
}

// FrequentPrice returns the recurring price for the filtered line across
// all contacts: the price (bucketed by cents so float noise does not
// split a bucket) must occur at least minCount times over recent sale
// documents, and among the prices that qualify the most recently used
// one wins. minCount <= 0 uses DefaultMinCount.
func (l *Lookup) FrequentPrice(ctx context.Context, f ItemFilter, minCount int) (Hit, bool, error) {
	if minCount <= 0 {
		minCount = DefaultMinCount
	}

	var docs []bons.Bon
	for _, t := range saleTypes {
		batch, err := l.source.ByType(ctx, t, scanLimit)
		if err != nil {
			return Hit{}, false, err
		}
		docs = append(docs, batch...)
	}
	// Each batch arrives newest first; restore that order over the merge.
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].DateBon.After(docs[j].DateBon)
	})

	type bucket struct {
		count int
		hit   Hit
		seen  int // walk order of first sighting; lower is more recent
	}
	buckets := make(map[int64]*bucket)
	order := 0

	for _, b := range docs {
		if !validatedOrPending(b) {
			continue
		}
		for _, it := range b.Items {
			if !f.matches(it) {
				continue
			}
			key := pricing.RoundCents(it.PrixUnitaire)
			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{
					hit: Hit{
						Prix:     pricing.CentsToAmount(key),
						Quantite: it.Quantite,
						DateBon:  b.DateBon,
						Numero:   b.Numero,
					},
					seen: order,
				}
				buckets[key] = bk
			}
			bk.count++
			order++
		}
	}

	var best *bucket
	for _, bk := range buckets {
		if bk.count < minCount {
			continue
		}
		if best == nil || bk.seen < best.seen {
			best = bk
		}
	}
	if best == nil {
		return Hit{}, false, nil
	}
	return best.hit, true, nil
}
