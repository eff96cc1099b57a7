// Package pricing implements derivation of catalogue prices from a base
// purchase price and percentage markups, together with the currency
// rounding rules shared by the document calculators.
package pricing

// Default markup percentages applied to new products.
const (
	DefaultCoutPct  = 2
	DefaultGrosPct  = 10
	DefaultVentePct = 25
)

// DerivedPrices holds the three prices computed from a purchase price.
type DerivedPrices struct {
	CoutRevient float64 `json:"cout_revient"`
	PrixGros    float64 `json:"prix_gros"`
	PrixVente   float64 `json:"prix_vente"`
}

// Derive computes cost, wholesale and sale prices from the purchase price
// and the three markup percentages. Each price is prixAchat*(1+pct/100)
// rounded to 2 decimals. A non-positive purchase price yields all zeros.
func Derive(prixAchat, coutPct, grosPct, ventePct float64) DerivedPrices {
	if prixAchat <= 0 {
		return DerivedPrices{}
	}
	return DerivedPrices{
		CoutRevient: Round2(prixAchat * (1 + coutPct/100)),
		PrixGros:    Round2(prixAchat * (1 + grosPct/100)),
		PrixVente:   Round2(prixAchat * (1 + ventePct/100)),
	}
}

// InversePercent recomputes the markup percentage implied by an absolute
// price entered by the user, so later derivations reproduce it. The
// percentage is kept at 4 decimals. Returns ok=false when the purchase
// price is non-positive; callers must then leave the stored percentage
// untouched.
func InversePercent(prixAchat, value float64) (float64, bool) {
	if prixAchat <= 0 {
		return 0, false
	}
	return Round4((value/prixAchat - 1) * 100), true
}
