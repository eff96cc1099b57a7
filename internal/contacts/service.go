package contacts

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateContactRequest, createdBy int64) (*Contact, error) {
	contact := Contact{
		Type:       req.Type,
		NomComplet: req.NomComplet,
		Societe:    req.Societe,
		Telephone:  req.Telephone,
		Email:      req.Email,
		Adresse:    req.Adresse,
		Solde:      req.Solde,
		CreatedBy:  createdBy,
	}
	// Plafond only applies to clients; suppliers have no ceiling.
	if req.Type == TypeClient {
		contact.Plafond = req.Plafond
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		ref, err := repo.GenerateReference(ctx, req.Type)
		if err != nil {
			return fmt.Errorf("generate reference: %w", err)
		}
		contact.Reference = ref
		id, err = repo.Create(ctx, contact)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateContactRequest) (*Contact, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	updates := make(map[string]interface{})
	if req.NomComplet != nil {
		updates["nom_complet"] = *req.NomComplet
	}
	if req.Societe != nil {
		updates["societe"] = *req.Societe
	}
	if req.Telephone != nil {
		updates["telephone"] = *req.Telephone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Adresse != nil {
		updates["adresse"] = *req.Adresse
	}
	if req.Solde != nil {
		updates["solde"] = *req.Solde
	}
	if req.Plafond != nil && existing.Type == TypeClient {
		updates["plafond"] = *req.Plafond
	}

	if len(updates) == 0 {
		return existing, nil
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, id, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Contact, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	return s.repo.List(ctx, req)
}

// SoldeCumule reads the authoritative running balance for one contact.
func (s *Service) SoldeCumule(ctx context.Context, id int64) (float64, error) {
	return s.repo.SoldeCumule(ctx, id)
}
