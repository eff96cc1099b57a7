package catalog

import (
	"context"
	"fmt"

	"github.com/medina-negoce/medina-erp/internal/pricing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest, createdBy int64) (*Product, error) {
	coutPct := orDefault(req.CoutPct, pricing.DefaultCoutPct)
	grosPct := orDefault(req.GrosPct, pricing.DefaultGrosPct)
	ventePct := orDefault(req.VentePct, pricing.DefaultVentePct)

	derived := pricing.Derive(req.PrixAchat, coutPct, grosPct, ventePct)

	product := Product{
		Designation: req.Designation,
		CategorieID: req.CategorieID,
		Quantite:    req.Quantite,
		Kg:          req.Kg,
		PrixAchat:   req.PrixAchat,
		CoutRevient: derived.CoutRevient,
		PrixGros:    derived.PrixGros,
		PrixVente:   derived.PrixVente,
		CoutPct:     coutPct,
		GrosPct:     grosPct,
		VentePct:    ventePct,
		EstService:  req.EstService,
		CreatedBy:   createdBy,
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		ref, err := repo.GenerateReference(ctx)
		if err != nil {
			return fmt.Errorf("generate reference: %w", err)
		}
		product.Reference = ref
		id, err = repo.Create(ctx, product)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return s.repo.Get(ctx, id)
}

// Update applies the request and re-derives prices. When an absolute price
// is posted its percentage is recomputed against the purchase price
// (reverse derivation); when the purchase price is zero the percentages
// stay untouched.
func (s *Service) Update(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	prixAchat := existing.PrixAchat
	if req.PrixAchat != nil {
		prixAchat = *req.PrixAchat
	}
	coutPct := orDefault(req.CoutPct, existing.CoutPct)
	grosPct := orDefault(req.GrosPct, existing.GrosPct)
	ventePct := orDefault(req.VentePct, existing.VentePct)

	if req.CoutRevient != nil {
		if pct, ok := pricing.InversePercent(prixAchat, *req.CoutRevient); ok {
			coutPct = pct
		}
	}
	if req.PrixGros != nil {
		if pct, ok := pricing.InversePercent(prixAchat, *req.PrixGros); ok {
			grosPct = pct
		}
	}
	if req.PrixVente != nil {
		if pct, ok := pricing.InversePercent(prixAchat, *req.PrixVente); ok {
			ventePct = pct
		}
	}

	derived := pricing.Derive(prixAchat, coutPct, grosPct, ventePct)

	updates := map[string]interface{}{
		"prix_achat":               prixAchat,
		"cout_revient":             derived.CoutRevient,
		"prix_gros":                derived.PrixGros,
		"prix_vente":               derived.PrixVente,
		"cout_revient_pourcentage": coutPct,
		"prix_gros_pourcentage":    grosPct,
		"prix_vente_pourcentage":   ventePct,
	}
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.CategorieID != nil {
		updates["categorie_id"] = *req.CategorieID
	}
	if req.Quantite != nil {
		updates["quantite"] = *req.Quantite
	}
	if req.Kg != nil {
		updates["kg"] = *req.Kg
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetVariant(ctx context.Context, id int64) (*Variant, error) {
	return s.repo.GetVariant(ctx, id)
}

func (s *Service) GetUnit(ctx context.Context, id int64) (*Unit, error) {
	return s.repo.GetUnit(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	return s.repo.List(ctx, req)
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
