package bons

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivePriceField(t *testing.T) {
	require.Equal(t, "prix_achat", ActivePriceField(TypeCommande))
	require.Equal(t, "prix_achat", ActivePriceField(TypeAvoirFournisseur))
	require.Equal(t, "prix_unitaire", ActivePriceField(TypeSortie))
	require.Equal(t, "prix_unitaire", ActivePriceField(TypeComptant))
	require.Equal(t, "prix_unitaire", ActivePriceField(TypeDevis))
	require.Equal(t, "prix_unitaire", ActivePriceField(TypeAvoir))
}

func TestComputeTotals(t *testing.T) {
	items := []Item{
		{Quantite: 2, PrixUnitaire: 125, PrixAchat: 100, CoutRevient: 102, RemiseMontant: 5, Kg: 1.5},
		{Quantite: 1, PrixUnitaire: 50, PrixAchat: 40, RemiseMontant: 0, Kg: 0},
	}

	t.Run("sale document", func(t *testing.T) {
		got := ComputeTotals(TypeSortie, items)
		require.Equal(t, 300.0, got.Montant)
		require.Equal(t, 3.0, got.Poids)
		require.Equal(t, 10.0, got.Remise)
		// (125-102)*2 + (50-40)*1 - 10 de remise
		require.Equal(t, 46.0, got.Mouvement)
		require.Equal(t, 244.0, got.CostBase)
		require.NotNil(t, got.MargePct)
		require.InDelta(t, 46.0/244.0*100, *got.MargePct, 1e-9)
	})

	t.Run("purchase document totals on prix_achat", func(t *testing.T) {
		got := ComputeTotals(TypeCommande, items)
		require.Equal(t, 240.0, got.Montant)
		// Commandes never count remise.
		require.Equal(t, 0.0, got.Remise)
	})

	t.Run("remise ignored outside sale types", func(t *testing.T) {
		got := ComputeTotals(TypeDevis, items)
		require.Equal(t, 0.0, got.Remise)
		// Margin keeps the raw spread without the discount.
		require.Equal(t, 56.0, got.Mouvement)
	})

	t.Run("zero quantity lines are skipped", func(t *testing.T) {
		withEmpty := append([]Item{{Quantite: 0, PrixUnitaire: 9999}}, items...)
		require.Equal(t, ComputeTotals(TypeSortie, items), ComputeTotals(TypeSortie, withEmpty))
	})

	t.Run("cost falls back to prix_achat", func(t *testing.T) {
		got := ComputeTotals(TypeSortie, []Item{
			{Quantite: 1, PrixUnitaire: 50, PrixAchat: 40},
		})
		require.Equal(t, 10.0, got.Mouvement)
	})

	t.Run("no items yields no margin", func(t *testing.T) {
		got := ComputeTotals(TypeSortie, nil)
		require.Nil(t, got.MargePct)
	})
}

func TestResolveCosts(t *testing.T) {
	catalog := &CostFigures{PrixAchat: 100, CoutRevient: 102}

	t.Run("snapshot wins over everything", func(t *testing.T) {
		pa, cr := ResolveCosts(CostSource{
			Snapshot: &CostFigures{PrixAchat: 90, CoutRevient: 95},
			Variant:  &CostFigures{PrixAchat: 80},
			Item:     CostFigures{PrixAchat: 70},
			Catalog:  catalog,
		}, 1)
		require.Equal(t, 90.0, pa)
		require.Equal(t, 95.0, cr)
	})

	t.Run("variant beats item and catalog", func(t *testing.T) {
		pa, _ := ResolveCosts(CostSource{
			Variant: &CostFigures{PrixAchat: 80},
			Item:    CostFigures{PrixAchat: 70},
			Catalog: catalog,
		}, 1)
		require.Equal(t, 80.0, pa)
	})

	t.Run("zero values fall through per field", func(t *testing.T) {
		pa, cr := ResolveCosts(CostSource{
			Variant: &CostFigures{PrixAchat: 80}, // no cout on the variant
			Catalog: catalog,
		}, 1)
		require.Equal(t, 80.0, pa)
		require.Equal(t, 102.0, cr)
	})

	t.Run("cout falls back to resolved prix_achat", func(t *testing.T) {
		pa, cr := ResolveCosts(CostSource{
			Item: CostFigures{PrixAchat: 70},
		}, 1)
		require.Equal(t, 70.0, pa)
		require.Equal(t, 70.0, cr)
	})

	t.Run("conversion factor scales both figures", func(t *testing.T) {
		pa, cr := ResolveCosts(CostSource{Catalog: catalog}, 25)
		require.Equal(t, 2500.0, pa)
		require.Equal(t, 2550.0, cr)
	})

	t.Run("non-positive factor counts as one", func(t *testing.T) {
		pa, _ := ResolveCosts(CostSource{Catalog: catalog}, 0)
		require.Equal(t, 100.0, pa)
	})
}

func TestEffectiveUnitPrice(t *testing.T) {
	require.Equal(t, 312.5, EffectiveUnitPrice(12.5, 25))
	require.Equal(t, 12.5, EffectiveUnitPrice(12.5, 0))
	require.Equal(t, 12.5, EffectiveUnitPrice(12.5, -1))
}

func TestBonTypeLinkage(t *testing.T) {
	for _, tt := range []struct {
		typ         BonType
		client      bool
		fournisseur bool
		freeText    bool
	}{
		{TypeSortie, true, false, false},
		{TypeComptant, true, false, true},
		{TypeDevis, true, false, true},
		{TypeAvoir, true, false, false},
		{TypeAvoirComptant, true, false, false},
		{TypeCommande, false, true, false},
		{TypeAvoirFournisseur, false, true, false},
		{TypeVehicule, false, false, false},
	} {
		require.Equal(t, tt.client, tt.typ.RequiresClient(), "%s client", tt.typ)
		require.Equal(t, tt.fournisseur, tt.typ.RequiresFournisseur(), "%s fournisseur", tt.typ)
		require.Equal(t, tt.freeText, tt.typ.AllowsFreeTextClient(), "%s free text", tt.typ)
	}
}

func TestNumeroPrefix(t *testing.T) {
	require.Equal(t, "COM", TypeComptant.Prefix())
	require.Equal(t, "SOR", TypeSortie.Prefix())
	require.Equal(t, "CMD", TypeCommande.Prefix())
	require.Equal(t, "DEV", TypeDevis.Prefix())
	require.Equal(t, "AVC", TypeAvoir.Prefix())
	require.Equal(t, "AVF", TypeAvoirFournisseur.Prefix())
	require.Equal(t, "AVCC", TypeAvoirComptant.Prefix())
	require.Equal(t, "VEH", TypeVehicule.Prefix())
}

func TestStatusLifecycle(t *testing.T) {
	require.True(t, StatusBrouillon.Editable())
	require.True(t, StatusEnAttente.Editable())
	require.False(t, StatusValide.Editable())
	require.True(t, StatusAnnule.Final())
	require.True(t, StatusRefuse.Final())
	require.True(t, StatusExpire.Final())
	require.False(t, StatusValide.Final())
}
