package bons

import "github.com/medina-negoce/medina-erp/internal/pricing"

// ActivePriceField names the price column a document type totals on.
// Purchase-side documents use prix_achat, everything else prix_unitaire.
// Every total computation must go through this single selector.
func ActivePriceField(t BonType) string {
	if t == TypeCommande || t == TypeAvoirFournisseur {
		return "prix_achat"
	}
	return "prix_unitaire"
}

// ActivePrice returns the item's price in the field selected by the
// document type.
func ActivePrice(t BonType, it Item) float64 {
	if ActivePriceField(t) == "prix_achat" {
		return it.PrixAchat
	}
	return it.PrixUnitaire
}

// LineTotal computes quantity times the type-selected price, unrounded.
func LineTotal(t BonType, it Item) float64 {
	return it.Quantite * ActivePrice(t, it)
}

// appliesRemise reports whether per-unit discounts participate in the
// document discount total and the margin.
func appliesRemise(t BonType) bool {
	switch t {
	case TypeSortie, TypeComptant, TypeAvoir, TypeAvoirComptant:
		return true
	}
	return false
}

// Totals aggregates a document's line items.
type Totals struct {
	Montant   float64  `json:"montant"`
	Poids     float64  `json:"poids"`
	Remise    float64  `json:"remise"`
	Mouvement float64  `json:"mouvement"`
	CostBase  float64  `json:"cost_base"`
	MargePct  *float64 `json:"marge_pct,omitempty"`
}

// ComputeTotals sums line totals, weight, discounts and the gross margin
// ("mouvement"). Montant uses the type-selected price field; the margin is
// always computed from sale-side prices against cout_revient, falling back
// to prix_achat when no cost price is set. No rounding happens here;
// amounts are rounded at the display edge only.
func ComputeTotals(t BonType, items []Item) Totals {
	var out Totals
	remiseCounts := appliesRemise(t)
	for _, it := range items {
		q := it.Quantite
		if q == 0 {
			continue
		}
		out.Montant += LineTotal(t, it)
		out.Poids += it.Kg * q

		remise := it.RemiseMontant * q
		if remiseCounts {
			out.Remise += remise
		}

		cost := it.CoutRevient
		if cost == 0 {
			cost = it.PrixAchat
		}
		profit := (it.PrixUnitaire - cost) * q
		if remiseCounts {
			profit -= remise
		}
		out.Mouvement += profit
		out.CostBase += cost * q
	}
	if out.CostBase > 0 {
		pct := out.Mouvement / out.CostBase * 100
		out.MargePct = &pct
	}
	return out
}

// CostSource carries the candidate cost figures for one line, in fallback
// order: snapshot, then variant, then the values typed on the item, then
// the product catalogue.
type CostSource struct {
	Snapshot *CostFigures
	Variant  *CostFigures
	Item     CostFigures
	Catalog  *CostFigures
}

// CostFigures is a (prix_achat, cout_revient) pair.
type CostFigures struct {
	PrixAchat   float64
	CoutRevient float64
}

// ResolveCosts picks the effective purchase and cost prices for a line and
// applies the unit conversion factor. CoutRevient falls back to the
// resolved prix_achat when absent everywhere. Results are rounded to 2
// decimals, matching the stored snapshots.
func ResolveCosts(src CostSource, conversionFactor float64) (prixAchat, coutRevient float64) {
	if conversionFactor <= 0 {
		conversionFactor = 1
	}

	pick := func(get func(CostFigures) float64) float64 {
		if src.Snapshot != nil && get(*src.Snapshot) != 0 {
			return get(*src.Snapshot)
		}
		if src.Variant != nil && get(*src.Variant) != 0 {
			return get(*src.Variant)
		}
		if get(src.Item) != 0 {
			return get(src.Item)
		}
		if src.Catalog != nil {
			return get(*src.Catalog)
		}
		return 0
	}

	prixAchat = pick(func(f CostFigures) float64 { return f.PrixAchat })
	coutRevient = pick(func(f CostFigures) float64 { return f.CoutRevient })
	if coutRevient == 0 {
		coutRevient = prixAchat
	}

	return pricing.Round2(prixAchat * conversionFactor), pricing.Round2(coutRevient * conversionFactor)
}

// EffectiveUnitPrice applies a unit conversion factor to a base sale
// price. The base price comes from the selected variant when present,
// otherwise from the product.
func EffectiveUnitPrice(basePrice, conversionFactor float64) float64 {
	if conversionFactor <= 0 {
		conversionFactor = 1
	}
	return basePrice * conversionFactor
}
