// Package bons manages commercial documents (commandes, sorties, avoirs,
// devis) and the totals, credit checks and numbering attached to them.
package bons

import "time"

// BonType enumerates document types.
type BonType string

const (
	TypeCommande         BonType = "Commande"
	TypeSortie           BonType = "Sortie"
	TypeComptant         BonType = "Comptant"
	TypeAvoir            BonType = "Avoir"
	TypeAvoirComptant    BonType = "AvoirComptant"
	TypeAvoirFournisseur BonType = "AvoirFournisseur"
	TypeDevis            BonType = "Devis"
	TypeVehicule         BonType = "Vehicule"
)

// BonStatus enumerates document statuses. Stored values keep the accented
// French spelling; comparisons go through shared.NormalizeStatus.
type BonStatus string

const (
	StatusBrouillon BonStatus = "Brouillon"
	StatusEnAttente BonStatus = "En attente"
	StatusValide    BonStatus = "Validé"
	StatusAnnule    BonStatus = "Annulé"
	StatusRefuse    BonStatus = "Refusé"
	StatusExpire    BonStatus = "Expiré"
)

// Bon is a commercial document with its line items. Exactly one of
// ClientID, FournisseurID or the free-text ClientNom is active, depending
// on the type.
type Bon struct {
	ID             int64      `json:"id"`
	Numero         string     `json:"numero"`
	Type           BonType    `json:"type"`
	Statut         BonStatus  `json:"statut"`
	DateBon        time.Time  `json:"date_bon"`
	DateValidation *time.Time `json:"date_validation,omitempty"`
	ClientID       *int64     `json:"client_id,omitempty"`
	ClientNom      string     `json:"client_nom,omitempty"`
	ClientAdresse  string     `json:"client_adresse,omitempty"`
	FournisseurID  *int64     `json:"fournisseur_id,omitempty"`
	FournisseurNom string     `json:"fournisseur_nom,omitempty"`
	VehiculeID     *int64     `json:"vehicule_id,omitempty"`
	LieuCharge     string     `json:"lieu_charge,omitempty"`
	MontantTotal   float64    `json:"montant_total"`
	Items          []Item     `json:"items"`
	CreatedBy      int64      `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Item is one document line. Prices are snapshots taken at document time;
// PrixUnitaire already includes the unit conversion factor when a unit is
// selected.
type Item struct {
	ProductID        int64   `json:"product_id"`
	VariantID        *int64  `json:"variant_id,omitempty"`
	UnitID           *int64  `json:"unit_id,omitempty"`
	ProductReference string  `json:"product_reference,omitempty"`
	Designation      string  `json:"designation,omitempty"`
	Quantite         float64 `json:"quantite"`
	PrixAchat        float64 `json:"prix_achat"`
	PrixUnitaire     float64 `json:"prix_unitaire"`
	CoutRevient      float64 `json:"cout_revient"`
	RemiseMontant    float64 `json:"remise_montant"`
	Kg               float64 `json:"kg"`
	Total            float64 `json:"total"`
}

// RequiresClient reports whether the type links to a client.
func (t BonType) RequiresClient() bool {
	switch t {
	case TypeSortie, TypeComptant, TypeDevis, TypeAvoir, TypeAvoirComptant:
		return true
	}
	return false
}

// RequiresFournisseur reports whether the type links to a supplier.
func (t BonType) RequiresFournisseur() bool {
	return t == TypeCommande || t == TypeAvoirFournisseur
}

// AllowsFreeTextClient reports whether the type accepts a typed-in client
// name instead of a contact reference.
func (t BonType) AllowsFreeTextClient() bool {
	return t == TypeComptant || t == TypeDevis
}

// Valid reports whether t is a known document type.
func (t BonType) Valid() bool {
	switch t {
	case TypeCommande, TypeSortie, TypeComptant, TypeAvoir, TypeAvoirComptant,
		TypeAvoirFournisseur, TypeDevis, TypeVehicule:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s BonStatus) Valid() bool {
	switch s {
	case StatusBrouillon, StatusEnAttente, StatusValide, StatusAnnule, StatusRefuse, StatusExpire:
		return true
	}
	return false
}

// Final reports whether the status ends the document's life; no further
// transitions are allowed out of it.
func (s BonStatus) Final() bool {
	return s == StatusAnnule || s == StatusRefuse || s == StatusExpire
}

// Editable reports whether a document in this status may still be changed.
func (s BonStatus) Editable() bool {
	return s == StatusBrouillon || s == StatusEnAttente
}

// Prefix returns the reference prefix used in document numbers.
func (t BonType) Prefix() string {
	switch t {
	case TypeComptant:
		return "COM"
	case TypeSortie:
		return "SOR"
	case TypeCommande:
		return "CMD"
	case TypeDevis:
		return "DEV"
	case TypeAvoir:
		return "AVC"
	case TypeAvoirFournisseur:
		return "AVF"
	case TypeAvoirComptant:
		return "AVCC"
	case TypeVehicule:
		return "VEH"
	}
	return "BON"
}
