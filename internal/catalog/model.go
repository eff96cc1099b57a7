// Package catalog manages products, their variants and sale units, and
// keeps derived prices consistent with the stored markup percentages.
package catalog

import "time"

// Product is a catalogue entry. The three derived prices are recomputed
// from PrixAchat and the percentage columns whenever either changes.
type Product struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	Designation string    `json:"designation"`
	CategorieID *int64    `json:"categorie_id,omitempty"`
	Quantite    float64   `json:"quantite"`
	Kg          *float64  `json:"kg,omitempty"`
	PrixAchat   float64   `json:"prix_achat"`
	CoutRevient float64   `json:"cout_revient"`
	PrixGros    float64   `json:"prix_gros"`
	PrixVente   float64   `json:"prix_vente"`
	CoutPct     float64   `json:"cout_revient_pourcentage"`
	GrosPct     float64   `json:"prix_gros_pourcentage"`
	VentePct    float64   `json:"prix_vente_pourcentage"`
	EstService  bool      `json:"est_service"`
	Variants    []Variant `json:"variants,omitempty"`
	Units       []Unit    `json:"units,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant carries its own price set and stock; absent prices fall back to
// the parent product's.
type Variant struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	Nom         string  `json:"nom"`
	Quantite    float64 `json:"quantite"`
	PrixAchat   float64 `json:"prix_achat"`
	CoutRevient float64 `json:"cout_revient"`
	PrixVente   float64 `json:"prix_vente"`
}

// Unit is an alternate sale unit. ConversionFactor is relative to the base
// unit; PrixVente is either derived (base price times factor) or manually
// fixed when PrixFixe is set.
type Unit struct {
	ID               int64   `json:"id"`
	ProductID        int64   `json:"product_id"`
	Nom              string  `json:"nom"`
	ConversionFactor float64 `json:"conversion_factor"`
	IsDefault        bool    `json:"is_default"`
	PrixFixe         bool    `json:"prix_fixe"`
	PrixVente        float64 `json:"prix_vente"`
}

// Factor returns the effective conversion factor: the base unit always
// counts as 1.
func (u Unit) Factor() float64 {
	if u.IsDefault || u.ConversionFactor <= 0 {
		return 1
	}
	return u.ConversionFactor
}
