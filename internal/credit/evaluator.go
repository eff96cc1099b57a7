// Package credit implements the client credit-limit rules applied before a
// document is created or updated. It decides whether the acting user may
// proceed directly, must confirm an overage, or is blocked.
package credit

import (
	"github.com/medina-negoce/medina-erp/internal/shared"
)

// Outcome is the result of a credit evaluation.
type Outcome string

const (
	// Allow lets the document through without interaction.
	Allow Outcome = "ALLOW"
	// AllowWithConfirmation requires an explicit manager confirmation.
	AllowWithConfirmation Outcome = "ALLOW_WITH_CONFIRMATION"
	// Deny blocks the document for non-manager roles.
	Deny Outcome = "DENY"
)

// EvalInput carries the figures a credit decision is based on. SoldeCumule
// is the backend-computed running balance, never recomputed client-side.
type EvalInput struct {
	SoldeCumule float64
	Plafond     float64
	MontantBon  float64
	Role        shared.Role
}

// Decision is the outcome plus the overage reported to the user when a
// confirmation or denial is involved.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Overage float64 `json:"overage,omitempty"`
}

// Evaluate applies the ceiling rules. A non-positive plafond means no
// limit is enforced. When the contact is already over the ceiling the
// reported overage is the current one; when this document would push the
// balance over, the overage is the resulting excess.
func Evaluate(in EvalInput) Decision {
	if in.Plafond <= 0 {
		return Decision{Outcome: Allow}
	}

	switch {
	case in.SoldeCumule > in.Plafond:
		return decide(in.Role, in.SoldeCumule-in.Plafond)
	case in.SoldeCumule+in.MontantBon > in.Plafond:
		return decide(in.Role, in.SoldeCumule+in.MontantBon-in.Plafond)
	default:
		return Decision{Outcome: Allow}
	}
}

func decide(role shared.Role, overage float64) Decision {
	if role == shared.RolePDG {
		return Decision{Outcome: AllowWithConfirmation, Overage: overage}
	}
	return Decision{Outcome: Deny, Overage: overage}
}
