// Package contacts manages clients and fournisseurs, including the
// backend-computed cumulative balance used by credit checks.
package contacts

import "time"

// ContactType distinguishes clients from suppliers.
type ContactType string

const (
	TypeClient      ContactType = "Client"
	TypeFournisseur ContactType = "Fournisseur"
)

// Contact is a client or supplier. Solde is the manually-set starting
// balance; SoldeCumule is the running balance computed by the repository
// from documents and payments and is never derived client-side. Plafond
// is the credit ceiling for clients; nil or 0 means no limit enforced.
type Contact struct {
	ID          int64       `json:"id"`
	Type        ContactType `json:"type"`
	Reference   string      `json:"reference"`
	NomComplet  string      `json:"nom_complet"`
	Societe     *string     `json:"societe,omitempty"`
	Telephone   *string     `json:"telephone,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Adresse     *string     `json:"adresse,omitempty"`
	Solde       float64     `json:"solde"`
	SoldeCumule float64     `json:"solde_cumule"`
	Plafond     *float64    `json:"plafond,omitempty"`
	CreatedBy   int64       `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PlafondValue returns the ceiling or 0 when unlimited.
func (c *Contact) PlafondValue() float64 {
	if c == nil || c.Plafond == nil {
		return 0
	}
	return *c.Plafond
}
