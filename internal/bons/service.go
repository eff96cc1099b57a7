package bons

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/medina-negoce/medina-erp/internal/catalog"
	"github.com/medina-negoce/medina-erp/internal/contacts"
	"github.com/medina-negoce/medina-erp/internal/credit"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

// Enqueuer schedules background work after a document write commits.
type Enqueuer interface {
	EnqueueBonPDF(ctx context.Context, bonID int64) error
	EnqueueWhatsApp(ctx context.Context, bonID int64, phone string) error
}

// Notifier pushes document events to connected clients.
type Notifier interface {
	DocumentEvent(event string, payload any)
}

// CreditError is returned when the credit check blocks a write. The
// decision carries the outcome and the overage to report.
type CreditError struct {
	Decision credit.Decision
}

func (e *CreditError) Error() string {
	return fmt.Sprintf("credit check: %s (overage %.2f)", e.Decision.Outcome, e.Decision.Overage)
}

type Service struct {
	repo     Repository
	contacts contacts.Repository
	catalog  catalog.Repository
	credit   *credit.Checker
	jobs     Enqueuer
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, contactsRepo contacts.Repository, catalogRepo catalog.Repository,
	checker *credit.Checker, jobs Enqueuer, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		contacts: contactsRepo,
		catalog:  catalogRepo,
		credit:   checker,
		jobs:     jobs,
		notifier: notifier,
		logger:   logger,
	}
}

// creditApplies reports whether the type adds to a client's balance and
// therefore goes through the ceiling check. Avoirs reduce the balance and
// devis never touch it.
func creditApplies(t BonType) bool {
	return t == TypeSortie || t == TypeComptant
}

func (s *Service) Create(ctx context.Context, req CreateBonRequest, ident shared.Identity) (*Bon, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", shared.ErrValidation, req.Type)
	}

	b := Bon{
		Type:       req.Type,
		Statut:     StatusEnAttente,
		DateBon:    req.DateBon,
		VehiculeID: req.VehiculeID,
		LieuCharge: req.LieuCharge,
		CreatedBy:  ident.UserID,
	}

	var client *contacts.Contact
	if err := s.resolveParties(ctx, &b, req.ClientID, req.ClientNom, req.FournisseurID, &client); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Type, req.Items)
	if err != nil {
		return nil, err
	}
	b.Items = items

	totals := ComputeTotals(req.Type, items)
	b.MontantTotal = totals.Montant

	// Authoritative check, before any write.
	if client != nil && creditApplies(req.Type) {
		if err := s.checkCredit(ctx, ident, client, totals.Montant); err != nil {
			return nil, err
		}
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		numero, err := repo.GenerateNumero(ctx, req.Type)
		if err != nil {
			return fmt.Errorf("generate numero: %w", err)
		}
		b.Numero = numero
		id, err = repo.Create(ctx, b)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bon: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "bon.created", created, req.WhatsAppPhone)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateBonRequest, ident shared.Identity) (*Bon, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Statut.Editable() {
		return nil, fmt.Errorf("%w: statut %q is not editable", shared.ErrValidation, existing.Statut)
	}

	b := *existing
	if req.DateBon != nil {
		b.DateBon = *req.DateBon
	}
	if req.LieuCharge != nil {
		b.LieuCharge = *req.LieuCharge
	}
	if req.VehiculeID != nil {
		b.VehiculeID = req.VehiculeID
	}

	clientID := b.ClientID
	if req.ClientID != nil {
		clientID = req.ClientID
	}
	clientNom := b.ClientNom
	if req.ClientNom != nil {
		clientNom = *req.ClientNom
	}
	fournisseurID := b.FournisseurID
	if req.FournisseurID != nil {
		fournisseurID = req.FournisseurID
	}

	var client *contacts.Contact
	if err := s.resolveParties(ctx, &b, clientID, clientNom, fournisseurID, &client); err != nil {
		return nil, err
	}

	if req.Items != nil {
		items, err := s.buildItems(ctx, b.Type, *req.Items)
		if err != nil {
			return nil, err
		}
		b.Items = items
	}

	totals := ComputeTotals(b.Type, b.Items)
	b.MontantTotal = totals.Montant

	if client != nil && creditApplies(b.Type) {
		if err := s.checkCredit(ctx, ident, client, totals.Montant); err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("update bon: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "bon.updated", updated, nil)
	return updated, nil
}

// UpdateStatus moves the document through its lifecycle. Final statuses
// are terminal; a validated document may only be cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id int64, statut BonStatus, ident shared.Identity) (*Bon, error) {
	if !statut.Valid() {
		return nil, fmt.Errorf("%w: unknown statut %q", shared.ErrValidation, statut)
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case existing.Statut == statut:
		return existing, nil
	case existing.Statut.Final():
		return nil, fmt.Errorf("%w: statut %q is final", shared.ErrValidation, existing.Statut)
	case existing.Statut == StatusValide && statut != StatusAnnule:
		return nil, fmt.Errorf("%w: a validated document can only be cancelled", shared.ErrValidation)
	}

	var validatedAt *time.Time
	if statut == StatusValide {
		now := time.Now()
		validatedAt = &now
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.UpdateStatus(ctx, id, statut, validatedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("update statut: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "bon.status_changed", updated, nil)
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Bon, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListBonsRequest) ([]Bon, int, error) {
	return s.repo.List(ctx, req)
}

// Mouvement recomputes totals and margins for an ad-hoc item list,
// resolving missing cost figures from the catalogue the same way document
// creation does.
func (s *Service) Mouvement(ctx context.Context, req MouvementRequest) (Totals, error) {
	if !req.Type.Valid() {
		return Totals{}, fmt.Errorf("%w: unknown type %q", shared.ErrValidation, req.Type)
	}
	items, err := s.buildItems(ctx, req.Type, req.Items)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(req.Type, items), nil
}

// CheckCredit runs the advisory evaluation when the form selects a
// contact. The same rules run again, authoritatively, on submission.
func (s *Service) CheckCredit(ctx context.Context, req CheckCreditRequest, ident shared.Identity) (credit.Decision, error) {
	client, err := s.contacts.Get(ctx, req.ClientID)
	if err != nil {
		return credit.Decision{}, err
	}
	return s.credit.Check(ctx, ident.UserID, client.ID, credit.EvalInput{
		SoldeCumule: client.SoldeCumule,
		Plafond:     client.PlafondValue(),
		MontantBon:  req.Montant,
		Role:        ident.Role,
	})
}

// ConfirmCredit records a manager's acceptance of a reported overage for
// the approval window.
func (s *Service) ConfirmCredit(ctx context.Context, clientID int64, ident shared.Identity) error {
	if !ident.IsManager() {
		return shared.ErrForbidden
	}
	return s.credit.Confirm(ctx, ident.UserID, clientID)
}

// ResetCredit drops a cached confirmation when the form switches contact;
// a zero clientID drops all of the user's confirmations.
func (s *Service) ResetCredit(ctx context.Context, clientID int64, ident shared.Identity) error {
	if clientID == 0 {
		return s.credit.ResetAll(ctx, ident.UserID)
	}
	return s.credit.Reset(ctx, ident.UserID, clientID)
}

func (s *Service) checkCredit(ctx context.Context, ident shared.Identity, client *contacts.Contact, montant float64) error {
	decision, err := s.credit.Check(ctx, ident.UserID, client.ID, credit.EvalInput{
		SoldeCumule: client.SoldeCumule,
		Plafond:     client.PlafondValue(),
		MontantBon:  montant,
		Role:        ident.Role,
	})
	if err != nil {
		return fmt.Errorf("credit check: %w", err)
	}
	if decision.Outcome != credit.Allow {
		return &CreditError{Decision: decision}
	}
	return nil
}

// resolveParties enforces the contact linkage invariant for the type and
// snapshots contact names onto the document. client is set when a real
// client contact is linked.
func (s *Service) resolveParties(ctx context.Context, b *Bon, clientID *int64, clientNom string,
	fournisseurID *int64, client **contacts.Contact) error {
	b.ClientID = nil
	b.ClientNom = ""
	b.ClientAdresse = ""
	b.FournisseurID = nil
	b.FournisseurNom = ""

	switch {
	case b.Type.RequiresClient():
		if clientID != nil {
			c, err := s.contacts.Get(ctx, *clientID)
			if err != nil {
				return fmt.Errorf("get client: %w", err)
			}
			if c.Type != contacts.TypeClient {
				return fmt.Errorf("%w: contact %d is not a client", shared.ErrValidation, c.ID)
			}
			b.ClientID = &c.ID
			b.ClientNom = c.NomComplet
			if c.Adresse != nil {
				b.ClientAdresse = *c.Adresse
			}
			*client = c
		} else if b.Type.AllowsFreeTextClient() && clientNom != "" {
			b.ClientNom = clientNom
		} else {
			return fmt.Errorf("%w: type %q requires a client", shared.ErrValidation, b.Type)
		}
	case b.Type.RequiresFournisseur():
		if fournisseurID == nil {
			return fmt.Errorf("%w: type %q requires a fournisseur", shared.ErrValidation, b.Type)
		}
		c, err := s.contacts.Get(ctx, *fournisseurID)
		if err != nil {
			return fmt.Errorf("get fournisseur: %w", err)
		}
		if c.Type != contacts.TypeFournisseur {
			return fmt.Errorf("%w: contact %d is not a fournisseur", shared.ErrValidation, c.ID)
		}
		b.FournisseurID = &c.ID
		b.FournisseurNom = c.NomComplet
	case b.Type == TypeVehicule:
		if b.VehiculeID == nil {
			return fmt.Errorf("%w: type Vehicule requires a vehicule", shared.ErrValidation)
		}
	}
	return nil
}

// buildItems turns posted lines into stored snapshots: prices and costs
// are resolved now and never recomputed from the catalogue afterwards.
func (s *Service) buildItems(ctx context.Context, t BonType, reqs []ItemRequest) ([]Item, error) {
	items := make([]Item, 0, len(reqs))
	for i, req := range reqs {
		product, err := s.catalog.Get(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item %d: get product: %w", i, err)
		}

		var variant *catalog.Variant
		if req.VariantID != nil {
			variant, err = s.catalog.GetVariant(ctx, *req.VariantID)
			if err != nil {
				return nil, fmt.Errorf("item %d: get variant: %w", i, err)
			}
			if variant.ProductID != product.ID {
				return nil, fmt.Errorf("%w: item %d: variant %d does not belong to product %d",
					shared.ErrValidation, i, variant.ID, product.ID)
			}
		}

		var unit *catalog.Unit
		factor := 1.0
		if req.UnitID != nil {
			unit, err = s.catalog.GetUnit(ctx, *req.UnitID)
			if err != nil {
				return nil, fmt.Errorf("item %d: get unit: %w", i, err)
			}
			if unit.ProductID != product.ID {
				return nil, fmt.Errorf("%w: item %d: unit %d does not belong to product %d",
					shared.ErrValidation, i, unit.ID, product.ID)
			}
			factor = unit.Factor()
		}

		src := CostSource{
			Catalog: &CostFigures{PrixAchat: product.PrixAchat, CoutRevient: product.CoutRevient},
		}
		if variant != nil {
			src.Variant = &CostFigures{PrixAchat: variant.PrixAchat, CoutRevient: variant.CoutRevient}
		}
		if req.PrixAchat != nil {
			src.Item.PrixAchat = *req.PrixAchat
		}
		prixAchat, coutRevient := ResolveCosts(src, factor)

		it := Item{
			ProductID:        product.ID,
			VariantID:        req.VariantID,
			UnitID:           req.UnitID,
			ProductReference: product.Reference,
			Designation:      product.Designation,
			Quantite:         req.Quantite,
			PrixAchat:        prixAchat,
			CoutRevient:      coutRevient,
			RemiseMontant:    req.RemiseMontant,
		}
		if variant != nil && variant.Nom != "" {
			it.Designation = product.Designation + " " + variant.Nom
		}
		if product.Kg != nil {
			it.Kg = *product.Kg * factor
		}

		switch {
		case req.PrixUnitaire != nil:
			// Typed-in prices are already per selected unit.
			it.PrixUnitaire = *req.PrixUnitaire
		case unit != nil && unit.PrixFixe && unit.PrixVente > 0:
			it.PrixUnitaire = unit.PrixVente
		default:
			base := product.PrixVente
			if variant != nil && variant.PrixVente > 0 {
				base = variant.PrixVente
			}
			it.PrixUnitaire = EffectiveUnitPrice(base, factor)
		}

		it.Total = LineTotal(t, it)
		items = append(items, it)
	}
	return items, nil
}

// afterWrite fans out side effects. Failures here never fail the request;
// the document is already committed.
func (s *Service) afterWrite(ctx context.Context, event string, b *Bon, phone *string) {
	if s.notifier != nil {
		s.notifier.DocumentEvent(event, b)
	}
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueBonPDF(ctx, b.ID); err != nil {
		s.logger.Warn("enqueue pdf", "bon_id", b.ID, "error", err)
	}
	if phone != nil && *phone != "" {
		if err := s.jobs.EnqueueWhatsApp(ctx, b.ID, *phone); err != nil {
			s.logger.Warn("enqueue whatsapp", "bon_id", b.ID, "error", err)
		}
	}
}
