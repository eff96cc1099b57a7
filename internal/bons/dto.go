package bons

import "time"

type ItemRequest struct {
	ProductID     int64    `json:"product_id" validate:"required,gt=0"`
	VariantID     *int64   `json:"variant_id,omitempty" validate:"omitempty,gt=0"`
	UnitID        *int64   `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
	Quantite      float64  `json:"quantite" validate:"required,gt=0"`
	PrixUnitaire  *float64 `json:"prix_unitaire,omitempty" validate:"omitempty,gte=0"`
	PrixAchat     *float64 `json:"prix_achat,omitempty" validate:"omitempty,gte=0"`
	RemiseMontant float64  `json:"remise_montant" validate:"gte=0"`
}

type CreateBonRequest struct {
	Type          BonType       `json:"type" validate:"required"`
	DateBon       time.Time     `json:"date_bon" validate:"required"`
	ClientID      *int64        `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	ClientNom     string        `json:"client_nom,omitempty" validate:"max=200"`
	FournisseurID *int64        `json:"fournisseur_id,omitempty" validate:"omitempty,gt=0"`
	VehiculeID    *int64        `json:"vehicule_id,omitempty" validate:"omitempty,gt=0"`
	LieuCharge    string        `json:"lieu_charge,omitempty" validate:"max=200"`
	Items         []ItemRequest `json:"items" validate:"required,min=1,dive"`

	// Optional WhatsApp destination; when set the rendered PDF is sent
	// there after creation.
	WhatsAppPhone *string `json:"whatsapp_phone,omitempty" validate:"omitempty,max=30"`
}

type UpdateBonRequest struct {
	DateBon       *time.Time     `json:"date_bon,omitempty"`
	ClientID      *int64         `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	ClientNom     *string        `json:"client_nom,omitempty" validate:"omitempty,max=200"`
	FournisseurID *int64         `json:"fournisseur_id,omitempty" validate:"omitempty,gt=0"`
	VehiculeID    *int64         `json:"vehicule_id,omitempty" validate:"omitempty,gt=0"`
	LieuCharge    *string        `json:"lieu_charge,omitempty" validate:"omitempty,max=200"`
	Items         *[]ItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type UpdateStatusRequest struct {
	Statut BonStatus `json:"statut" validate:"required"`
}

type ListBonsRequest struct {
	Type     *BonType   `json:"type,omitempty"`
	Statut   *BonStatus `json:"statut,omitempty"`
	ClientID *int64     `json:"client_id,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
	Page     int        `json:"page" validate:"gte=0"`
	PerPage  int        `json:"per_page" validate:"gte=0,lte=1000"`
}

// CheckCreditRequest is the advisory check run when the form selects a
// contact, before the final total is known.
type CheckCreditRequest struct {
	ClientID int64   `json:"client_id" validate:"required,gt=0"`
	Montant  float64 `json:"montant" validate:"gte=0"`
}

// ConfirmCreditRequest records a manager's acceptance of an overage.
type ConfirmCreditRequest struct {
	ClientID int64 `json:"client_id" validate:"required,gt=0"`
}

// MouvementRequest recomputes margins for ad-hoc item lists, resolving
// missing cost figures from the catalogue.
type MouvementRequest struct {
	Type  BonType       `json:"type" validate:"required"`
	Items []ItemRequest `json:"items" validate:"required,max=500,dive"`
}
