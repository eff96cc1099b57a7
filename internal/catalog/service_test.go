package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

type memoryRepo struct {
	products map[int64]*Product
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]*Product)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(_ context.Context, id int64) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryRepo) GetVariant(_ context.Context, _ int64) (*Variant, error) {
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) GetUnit(_ context.Context, _ int64) (*Unit, error) {
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) List(_ context.Context, _ ListProductsRequest) ([]Product, int, error) {
	return nil, 0, nil
}

func (r *memoryRepo) Create(_ context.Context, p Product) (int64, error) {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = &p
	return p.ID, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "designation":
			p.Designation = v.(string)
		case "prix_achat":
			p.PrixAchat = v.(float64)
		case "cout_revient":
			p.CoutRevient = v.(float64)
		case "prix_gros":
			p.PrixGros = v.(float64)
		case "prix_vente":
			p.PrixVente = v.(float64)
		case "cout_revient_pourcentage":
			p.CoutPct = v.(float64)
		case "prix_gros_pourcentage":
			p.GrosPct = v.(float64)
		case "prix_vente_pourcentage":
			p.VentePct = v.(float64)
		case "quantite":
			p.Quantite = v.(float64)
		}
	}
	return nil
}

func (r *memoryRepo) GenerateReference(_ context.Context) (string, error) {
	return fmt.Sprintf("PROD%04d", r.nextID+1), nil
}

func TestCreateDerivesPricesWithDefaults(t *testing.T) {
	service := NewService(newMemoryRepo())

	product, err := service.Create(context.Background(), CreateProductRequest{
		Designation: "Ciment 50kg",
		PrixAchat:   100,
	}, 7)
	require.NoError(t, err)

	require.Equal(t, "PROD0001", product.Reference)
	require.Equal(t, 102.0, product.CoutRevient)
	require.Equal(t, 110.0, product.PrixGros)
	require.Equal(t, 125.0, product.PrixVente)
	require.Equal(t, 2.0, product.CoutPct)
	require.Equal(t, 10.0, product.GrosPct)
	require.Equal(t, 25.0, product.VentePct)
}

func TestCreateWithExplicitPercentages(t *testing.T) {
	service := NewService(newMemoryRepo())

	vente := 40.0
	product, err := service.Create(context.Background(), CreateProductRequest{
		Designation: "Fer 12mm",
		PrixAchat:   50,
		VentePct:    &vente,
	}, 7)
	require.NoError(t, err)
	require.Equal(t, 70.0, product.PrixVente)
	require.Equal(t, 51.0, product.CoutRevient)
}

func TestCreateServiceWithoutPurchasePrice(t *testing.T) {
	service := NewService(newMemoryRepo())

	product, err := service.Create(context.Background(), CreateProductRequest{
		Designation: "Transport",
		EstService:  true,
	}, 7)
	require.NoError(t, err)
	require.Zero(t, product.PrixVente)
	// Percentages are stored even when nothing can be derived yet.
	require.Equal(t, 25.0, product.VentePct)
}

func TestUpdatePrixAchatReDerives(t *testing.T) {
	service := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateProductRequest{Designation: "Ciment", PrixAchat: 100}, 7)
	require.NoError(t, err)

	newPrix := 200.0
	updated, err := service.Update(ctx, created.ID, UpdateProductRequest{PrixAchat: &newPrix})
	require.NoError(t, err)

	require.Equal(t, 204.0, updated.CoutRevient)
	require.Equal(t, 220.0, updated.PrixGros)
	require.Equal(t, 250.0, updated.PrixVente)
	require.Equal(t, 25.0, updated.VentePct, "percentages survive a price change")
}

func TestUpdateAbsolutePriceReversesPercentage(t *testing.T) {
	service := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateProductRequest{Designation: "Ciment", PrixAchat: 100}, 7)
	require.NoError(t, err)

	vente := 150.0
	updated, err := service.Update(ctx, created.ID, UpdateProductRequest{PrixVente: &vente})
	require.NoError(t, err)

	require.Equal(t, 50.0, updated.VentePct)
	require.Equal(t, 150.0, updated.PrixVente)
	// Other prices keep their stored percentages.
	require.Equal(t, 102.0, updated.CoutRevient)
}

func TestUpdateAbsolutePriceWithoutPurchasePrice(t *testing.T) {
	service := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateProductRequest{Designation: "Transport", EstService: true}, 7)
	require.NoError(t, err)

	vente := 150.0
	updated, err := service.Update(ctx, created.ID, UpdateProductRequest{PrixVente: &vente})
	require.NoError(t, err)

	// No purchase price: the percentage stays untouched and nothing can
	// be derived.
	require.Equal(t, 25.0, updated.VentePct)
	require.Zero(t, updated.PrixVente)
}

func TestUnitFactor(t *testing.T) {
	require.Equal(t, 25.0, Unit{ConversionFactor: 25}.Factor())
	require.Equal(t, 1.0, Unit{ConversionFactor: 25, IsDefault: true}.Factor())
	require.Equal(t, 1.0, Unit{ConversionFactor: 0}.Factor())
	require.Equal(t, 1.0, Unit{ConversionFactor: -3}.Factor())
}
