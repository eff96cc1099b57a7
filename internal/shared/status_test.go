package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	require.Equal(t, "valide", NormalizeStatus("Validé"))
	require.Equal(t, "valide", NormalizeStatus("  VALIDE "))
	require.Equal(t, "annule", NormalizeStatus("Annulé"))
	require.Equal(t, "en attente", NormalizeStatus("En attente"))
	require.Equal(t, "", NormalizeStatus(""))
}

func TestIsValidatedStatus(t *testing.T) {
	require.True(t, IsValidatedStatus("Validé"))
	require.True(t, IsValidatedStatus("valide"))
	require.True(t, IsValidatedStatus("Validée"))
	require.False(t, IsValidatedStatus("En attente"))
	require.False(t, IsValidatedStatus("Annulé"))
}

func TestIsPendingStatus(t *testing.T) {
	require.True(t, IsPendingStatus("En attente"))
	require.True(t, IsPendingStatus("en attente"))
	require.False(t, IsPendingStatus("Validé"))
}

func TestCountsTowardBalance(t *testing.T) {
	for _, s := range []string{"Validé", "valide", "En attente", "Livré"} {
		require.True(t, CountsTowardBalance(s), s)
	}
	for _, s := range []string{
		"Annulé", "annule", "Supprimé", "supprime",
		"Brouillon", "Refusé", "refuse", "Expiré", "expire",
	} {
		require.False(t, CountsTowardBalance(s), s)
	}
}
