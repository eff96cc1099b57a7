package contacts

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

type memoryRepo struct {
	contacts map[int64]*Contact
	nextID   int64
	updates  map[string]interface{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{contacts: make(map[int64]*Contact)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(_ context.Context, id int64) (*Contact, error) {
	c, ok := r.contacts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memoryRepo) List(_ context.Context, _ ListContactsRequest) ([]Contact, int, error) {
	return nil, 0, nil
}

func (r *memoryRepo) Create(_ context.Context, c Contact) (int64, error) {
	r.nextID++
	c.ID = r.nextID
	r.contacts[c.ID] = &c
	return c.ID, nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	c, ok := r.contacts[id]
	if !ok {
		return shared.ErrNotFound
	}
	r.updates = updates
	if v, ok := updates["nom_complet"]; ok {
		c.NomComplet = v.(string)
	}
	if v, ok := updates["solde"]; ok {
		c.Solde = v.(float64)
	}
	if v, ok := updates["plafond"]; ok {
		p := v.(float64)
		c.Plafond = &p
	}
	return nil
}

func (r *memoryRepo) GenerateReference(_ context.Context, t ContactType) (string, error) {
	prefix := "CLI"
	if t == TypeFournisseur {
		prefix = "FOU"
	}
	var count int
	for _, c := range r.contacts {
		if c.Type == t {
			count++
		}
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func (r *memoryRepo) SoldeCumule(_ context.Context, id int64) (float64, error) {
	c, ok := r.contacts[id]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return c.SoldeCumule, nil
}

func TestCreateClient(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	plafond := 20_000.0
	contact, err := service.Create(context.Background(), CreateContactRequest{
		Type:       TypeClient,
		NomComplet: "Ahmed Benali",
		Solde:      500,
		Plafond:    &plafond,
	}, 7)
	require.NoError(t, err)

	require.Equal(t, "CLI0001", contact.Reference)
	require.Equal(t, 500.0, contact.Solde)
	require.NotNil(t, contact.Plafond)
	require.Equal(t, 20_000.0, *contact.Plafond)
	require.Equal(t, int64(7), contact.CreatedBy)
}

func TestCreateFournisseurIgnoresPlafond(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)

	plafond := 20_000.0
	contact, err := service.Create(context.Background(), CreateContactRequest{
		Type:       TypeFournisseur,
		NomComplet: "Sonadim SARL",
		Plafond:    &plafond,
	}, 7)
	require.NoError(t, err)

	require.Equal(t, "FOU0001", contact.Reference)
	require.Nil(t, contact.Plafond)
	require.Equal(t, 0.0, contact.PlafondValue())
}

func TestReferencesCountPerType(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)
	ctx := context.Background()

	_, err := service.Create(ctx, CreateContactRequest{Type: TypeClient, NomComplet: "A"}, 1)
	require.NoError(t, err)
	second, err := service.Create(ctx, CreateContactRequest{Type: TypeClient, NomComplet: "B"}, 1)
	require.NoError(t, err)
	fournisseur, err := service.Create(ctx, CreateContactRequest{Type: TypeFournisseur, NomComplet: "C"}, 1)
	require.NoError(t, err)

	require.Equal(t, "CLI0002", second.Reference)
	require.Equal(t, "FOU0001", fournisseur.Reference)
}

func TestUpdateOnlyProvidedFields(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateContactRequest{Type: TypeClient, NomComplet: "Ahmed"}, 1)
	require.NoError(t, err)

	nom := "Ahmed Benali"
	updated, err := service.Update(ctx, created.ID, UpdateContactRequest{NomComplet: &nom})
	require.NoError(t, err)

	require.Equal(t, "Ahmed Benali", updated.NomComplet)
	require.Len(t, repo.updates, 1)
}

func TestUpdatePlafondIgnoredForFournisseur(t *testing.T) {
	repo := newMemoryRepo()
	service := NewService(repo)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateContactRequest{Type: TypeFournisseur, NomComplet: "Sonadim"}, 1)
	require.NoError(t, err)

	plafond := 5_000.0
	updated, err := service.Update(ctx, created.ID, UpdateContactRequest{Plafond: &plafond})
	require.NoError(t, err)
	require.Nil(t, updated.Plafond)
}

func TestUpdateUnknownContact(t *testing.T) {
	service := NewService(newMemoryRepo())
	nom := "X"
	_, err := service.Update(context.Background(), 99, UpdateContactRequest{NomComplet: &nom})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
