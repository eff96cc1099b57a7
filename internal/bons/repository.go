package bons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medina-negoce/medina-erp/internal/platform/db"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

// Repository persists documents. Line items live in a jsonb column: item
// lists are always read and written whole, and old rows may carry shapes
// from earlier versions, which the scanner tolerates.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Bon, error)
	List(ctx context.Context, req ListBonsRequest) ([]Bon, int, error)
	Create(ctx context.Context, b Bon) (int64, error)
	Update(ctx context.Context, b Bon) error
	UpdateStatus(ctx context.Context, id int64, statut BonStatus, validatedAt *time.Time) error
	GenerateNumero(ctx context.Context, t BonType) (string, error)
	ByContact(ctx context.Context, contactID int64, types []BonType, limit int) ([]Bon, error)
	ByType(ctx context.Context, t BonType, limit int) ([]Bon, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const bonColumns = `b.id, b.numero, b.type, b.statut, b.date_bon, b.date_validation,
	b.client_id, b.client_nom, b.client_adresse, b.fournisseur_id, b.fournisseur_nom,
	b.vehicule_id, b.lieu_charge, b.montant_total, b.items, b.created_by, b.created_at, b.updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Bon, error) {
	query := fmt.Sprintf(`SELECT %s FROM bons b WHERE b.id = $1 AND b.deleted_at IS NULL`, bonColumns)
	b, err := scanBon(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *repository) List(ctx context.Context, req ListBonsRequest) ([]Bon, int, error) {
	conditions := []string{"b.deleted_at IS NULL"}
	var args []interface{}
	argPos := 1

	if req.Type != nil {
		conditions = append(conditions, fmt.Sprintf("b.type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.Statut != nil {
		conditions = append(conditions, fmt.Sprintf("b.statut = $%d", argPos))
		args = append(args, *req.Statut)
		argPos++
	}
	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("b.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("b.date_bon >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("b.date_bon <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM bons b %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := shared.NewPagination(req.Page, req.PerPage, total)
	query := fmt.Sprintf(`SELECT %s FROM bons b %s
		ORDER BY b.date_bon DESC, b.id DESC LIMIT $%d OFFSET $%d`,
		bonColumns, whereClause, argPos, argPos+1)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Bon
	for rows.Next() {
		b, err := scanBon(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *b)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, b Bon) (int64, error) {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRow(ctx, `INSERT INTO bons
		(numero, type, statut, date_bon, client_id, client_nom, client_adresse,
		 fournisseur_id, fournisseur_nom, vehicule_id, lieu_charge, montant_total, items, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		b.Numero, b.Type, b.Statut, b.DateBon, b.ClientID, nullStr(b.ClientNom), nullStr(b.ClientAdresse),
		b.FournisseurID, nullStr(b.FournisseurNom), b.VehiculeID, nullStr(b.LieuCharge),
		b.MontantTotal, items, b.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, b Bon) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE bons SET
		date_bon = $1, client_id = $2, client_nom = $3, client_adresse = $4,
		fournisseur_id = $5, fournisseur_nom = $6, vehicule_id = $7, lieu_charge = $8,
		montant_total = $9, items = $10, updated_at = NOW()
		WHERE id = $11 AND deleted_at IS NULL`,
		b.DateBon, b.ClientID, nullStr(b.ClientNom), nullStr(b.ClientAdresse),
		b.FournisseurID, nullStr(b.FournisseurNom), b.VehiculeID, nullStr(b.LieuCharge),
		b.MontantTotal, items, b.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, statut BonStatus, validatedAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE bons SET statut = $1,
		date_validation = COALESCE($2, date_validation), updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL`, statut, validatedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) GenerateNumero(ctx context.Context, t BonType) (string, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM bons WHERE type = $1", t).Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", t.Prefix(), count+1), nil
}

// ByContact returns the contact's documents of the given types, most
// recent first. Used by price history lookups.
func (r *repository) ByContact(ctx context.Context, contactID int64, types []BonType, limit int) ([]Bon, error) {
	query := fmt.Sprintf(`SELECT %s FROM bons b
		WHERE (b.client_id = $1 OR b.fournisseur_id = $1) AND b.type = ANY($2)
		  AND b.deleted_at IS NULL
		ORDER BY b.date_bon DESC, b.id DESC LIMIT $3`, bonColumns)
	return r.queryBons(ctx, query, contactID, typeStrings(types), limit)
}

// ByType returns the most recent documents of one type regardless of
// contact.
func (r *repository) ByType(ctx context.Context, t BonType, limit int) ([]Bon, error) {
	query := fmt.Sprintf(`SELECT %s FROM bons b
		WHERE b.type = $1 AND b.deleted_at IS NULL
		ORDER BY b.date_bon DESC, b.id DESC LIMIT $2`, bonColumns)
	return r.queryBons(ctx, query, t, limit)
}

func (r *repository) queryBons(ctx context.Context, query string, args ...interface{}) ([]Bon, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bon
	for rows.Next() {
		b, err := scanBon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func scanBon(row pgx.Row) (*Bon, error) {
	var b Bon
	var clientNom, clientAdresse, fournisseurNom, lieuCharge pgtype.Text
	var dateValidation pgtype.Timestamptz
	var montant pgtype.Numeric
	var items []byte
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&b.ID, &b.Numero, &b.Type, &b.Statut, &b.DateBon, &dateValidation,
		&b.ClientID, &clientNom, &clientAdresse, &b.FournisseurID, &fournisseurNom,
		&b.VehiculeID, &lieuCharge, &montant, &items, &b.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if dateValidation.Valid {
		b.DateValidation = &dateValidation.Time
	}
	b.ClientNom = clientNom.String
	b.ClientAdresse = clientAdresse.String
	b.FournisseurNom = fournisseurNom.String
	b.LieuCharge = lieuCharge.String
	b.MontantTotal = numericToFloat(montant)
	// Malformed item payloads leave b.Items nil instead of failing the
	// whole row.
	if len(items) > 0 {
		_ = json.Unmarshal(items, &b.Items)
	}
	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		b.UpdatedAt = updatedAt.Time
	}
	return &b, nil
}

func typeStrings(types []BonType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
