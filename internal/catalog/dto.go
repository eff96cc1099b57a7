package catalog

type CreateProductRequest struct {
	Designation string   `json:"designation" validate:"required,max=300"`
	CategorieID *int64   `json:"categorie_id,omitempty"`
	Quantite    float64  `json:"quantite" validate:"gte=0"`
	Kg          *float64 `json:"kg,omitempty" validate:"omitempty,gte=0"`
	PrixAchat   float64  `json:"prix_achat" validate:"gte=0"`
	CoutPct     *float64 `json:"cout_revient_pourcentage,omitempty"`
	GrosPct     *float64 `json:"prix_gros_pourcentage,omitempty"`
	VentePct    *float64 `json:"prix_vente_pourcentage,omitempty"`
	EstService  bool     `json:"est_service"`
}

type UpdateProductRequest struct {
	Designation *string  `json:"designation,omitempty" validate:"omitempty,max=300"`
	CategorieID *int64   `json:"categorie_id,omitempty"`
	Quantite    *float64 `json:"quantite,omitempty" validate:"omitempty,gte=0"`
	Kg          *float64 `json:"kg,omitempty" validate:"omitempty,gte=0"`
	PrixAchat   *float64 `json:"prix_achat,omitempty" validate:"omitempty,gte=0"`
	CoutPct     *float64 `json:"cout_revient_pourcentage,omitempty"`
	GrosPct     *float64 `json:"prix_gros_pourcentage,omitempty"`
	VentePct    *float64 `json:"prix_vente_pourcentage,omitempty"`

	// Absolute prices typed by the user; each one re-derives its
	// percentage against the purchase price.
	CoutRevient *float64 `json:"cout_revient,omitempty" validate:"omitempty,gte=0"`
	PrixGros    *float64 `json:"prix_gros,omitempty" validate:"omitempty,gte=0"`
	PrixVente   *float64 `json:"prix_vente,omitempty" validate:"omitempty,gte=0"`
}

type ListProductsRequest struct {
	Search  *string `json:"search,omitempty"`
	Page    int     `json:"page" validate:"gte=0"`
	PerPage int     `json:"per_page" validate:"gte=0,lte=1000"`
}
