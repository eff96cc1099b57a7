// Package payments records client and supplier settlements. Payments
// reduce the contact's cumulative balance; the balance itself is computed
// by the contacts repository.
package payments

import "time"

// PaymentMode enumerates settlement modes.
type PaymentMode string

const (
	ModeEspeces  PaymentMode = "Espèces"
	ModeCheque   PaymentMode = "Chèque"
	ModeVirement PaymentMode = "Virement"
	ModeTraite   PaymentMode = "Traite"
)

// Valid reports whether m is a known mode.
func (m PaymentMode) Valid() bool {
	switch m {
	case ModeEspeces, ModeCheque, ModeVirement, ModeTraite:
		return true
	}
	return false
}

// Payment is one settlement. TypePaiement mirrors the contact's type so
// balance queries can join without a second lookup.
type Payment struct {
	ID           int64       `json:"id"`
	ContactID    int64       `json:"contact_id"`
	ContactNom   string      `json:"contact_nom,omitempty"`
	TypePaiement string      `json:"type_paiement"`
	Montant      float64     `json:"montant"`
	Mode         PaymentMode `json:"mode_paiement"`
	Reference    string      `json:"reference,omitempty"`
	Statut       string      `json:"statut"`
	DatePaiement time.Time   `json:"date_paiement"`
	Notes        string      `json:"notes,omitempty"`
	CreatedBy    int64       `json:"created_by"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
