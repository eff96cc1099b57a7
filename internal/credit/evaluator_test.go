package credit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		in          EvalInput
		wantOutcome Outcome
		wantOverage float64
	}{
		{
			name:        "no plafond allows anything",
			in:          EvalInput{SoldeCumule: 1_000_000, Plafond: 0, MontantBon: 50_000, Role: shared.RoleEmploye},
			wantOutcome: Allow,
		},
		{
			name:        "negative plafond allows anything",
			in:          EvalInput{SoldeCumule: 1_000_000, Plafond: -1, MontantBon: 50_000, Role: shared.RoleEmploye},
			wantOutcome: Allow,
		},
		{
			name:        "under the ceiling allows",
			in:          EvalInput{SoldeCumule: 4_000, Plafond: 10_000, MontantBon: 5_000, Role: shared.RoleEmploye},
			wantOutcome: Allow,
		},
		{
			name:        "exactly at the ceiling allows",
			in:          EvalInput{SoldeCumule: 4_000, Plafond: 10_000, MontantBon: 6_000, Role: shared.RoleEmploye},
			wantOutcome: Allow,
		},
		{
			name:        "already over the ceiling denies employe with current overage",
			in:          EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RoleEmploye},
			wantOutcome: Deny,
			wantOverage: 2_000,
		},
		{
			name:        "already over the ceiling asks pdg to confirm",
			in:          EvalInput{SoldeCumule: 12_000, Plafond: 10_000, MontantBon: 100, Role: shared.RolePDG},
			wantOutcome: AllowWithConfirmation,
			wantOverage: 2_000,
		},
		{
			name:        "document pushing over the ceiling reports resulting excess",
			in:          EvalInput{SoldeCumule: 8_000, Plafond: 10_000, MontantBon: 5_000, Role: shared.RolePDG},
			wantOutcome: AllowWithConfirmation,
			wantOverage: 3_000,
		},
		{
			name:        "manager without pdg role is denied",
			in:          EvalInput{SoldeCumule: 8_000, Plafond: 10_000, MontantBon: 5_000, Role: shared.RoleManager},
			wantOutcome: Deny,
			wantOverage: 3_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.in)
			require.Equal(t, tt.wantOutcome, got.Outcome)
			require.Equal(t, tt.wantOverage, got.Overage)
		})
	}
}
