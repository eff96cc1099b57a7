package contacts

type CreateContactRequest struct {
	Type       ContactType `json:"type" validate:"required,oneof=Client Fournisseur"`
	NomComplet string      `json:"nom_complet" validate:"required,max=200"`
	Societe    *string     `json:"societe,omitempty" validate:"omitempty,max=200"`
	Telephone  *string     `json:"telephone,omitempty" validate:"omitempty,max=50"`
	Email      *string     `json:"email,omitempty" validate:"omitempty,email"`
	Adresse    *string     `json:"adresse,omitempty" validate:"omitempty,max=300"`
	Solde      float64     `json:"solde"`
	Plafond    *float64    `json:"plafond,omitempty" validate:"omitempty,gte=0"`
}

type UpdateContactRequest struct {
	NomComplet *string  `json:"nom_complet,omitempty" validate:"omitempty,max=200"`
	Societe    *string  `json:"societe,omitempty" validate:"omitempty,max=200"`
	Telephone  *string  `json:"telephone,omitempty" validate:"omitempty,max=50"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email"`
	Adresse    *string  `json:"adresse,omitempty" validate:"omitempty,max=300"`
	Solde      *float64 `json:"solde,omitempty"`
	Plafond    *float64 `json:"plafond,omitempty" validate:"omitempty,gte=0"`
}

type ListContactsRequest struct {
	Type    *ContactType `json:"type,omitempty" validate:"omitempty,oneof=Client Fournisseur"`
	Search  *string      `json:"search,omitempty"`
	Page    int          `json:"page" validate:"gte=0"`
	PerPage int          `json:"per_page" validate:"gte=0,lte=1000"`
}
