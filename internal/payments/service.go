package payments

import (
	"context"
	"fmt"

	"github.com/medina-negoce/medina-erp/internal/contacts"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

type Service struct {
	repo     Repository
	contacts contacts.Repository
}

func NewService(repo Repository, contactsRepo contacts.Repository) *Service {
	return &Service{repo: repo, contacts: contactsRepo}
}

func (s *Service) Create(ctx context.Context, req CreatePaymentRequest, createdBy int64) (*Payment, error) {
	if !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", shared.ErrValidation, req.Mode)
	}

	contact, err := s.contacts.Get(ctx, req.ContactID)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	p := Payment{
		ContactID:    contact.ID,
		TypePaiement: string(contact.Type),
		Montant:      req.Montant,
		Mode:         req.Mode,
		Reference:    req.Reference,
		Statut:       "Validé",
		DatePaiement: req.DatePaiement,
		Notes:        req.Notes,
		CreatedBy:    createdBy,
	}

	var id int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		id, err = repo.Create(ctx, p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdatePaymentRequest) (*Payment, error) {
	if req.Mode != nil && !req.Mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", shared.ErrValidation, *req.Mode)
	}

	updates := make(map[string]interface{})
	if req.Montant != nil {
		updates["montant"] = *req.Montant
	}
	if req.Mode != nil {
		updates["mode_paiement"] = *req.Mode
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.Statut != nil {
		updates["statut"] = *req.Statut
	}
	if req.DatePaiement != nil {
		updates["date_paiement"] = *req.DatePaiement
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return s.repo.Get(ctx, id)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	return s.repo.List(ctx, req)
}
