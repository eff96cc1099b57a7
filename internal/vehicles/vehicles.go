// Package vehicles is the fleet masterdata referenced by Vehicule
// documents.
package vehicles

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medina-negoce/medina-erp/internal/shared"
)

type Vehicle struct {
	ID              int64     `json:"id"`
	Immatriculation string    `json:"immatriculation"`
	Marque          string    `json:"marque,omitempty"`
	Modele          string    `json:"modele,omitempty"`
	Chauffeur       string    `json:"chauffeur,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateVehicleRequest struct {
	Immatriculation string `json:"immatriculation" validate:"required,max=30"`
	Marque          string `json:"marque,omitempty" validate:"max=100"`
	Modele          string `json:"modele,omitempty" validate:"max=100"`
	Chauffeur       string `json:"chauffeur,omitempty" validate:"max=200"`
}

// Repository persists vehicles.
type Repository interface {
	Get(ctx context.Context, id int64) (*Vehicle, error)
	List(ctx context.Context) ([]Vehicle, error)
	Create(ctx context.Context, v Vehicle) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const vehicleColumns = `id, immatriculation, marque, modele, chauffeur, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Vehicle, error) {
	v, err := scanVehicle(r.pool.QueryRow(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *repository) List(ctx context.Context) ([]Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+vehicleColumns+" FROM vehicles ORDER BY immatriculation ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, v Vehicle) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO vehicles
		(immatriculation, marque, modele, chauffeur)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		v.Immatriculation, nullStr(v.Marque), nullStr(v.Modele), nullStr(v.Chauffeur)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	var marque, modele, chauffeur pgtype.Text
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&v.ID, &v.Immatriculation, &marque, &modele, &chauffeur, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	v.Marque = marque.String
	v.Modele = modele.String
	v.Chauffeur = chauffeur.String
	if createdAt.Valid {
		v.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		v.UpdatedAt = updatedAt.Time
	}
	return &v, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
