package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medina-negoce/medina-erp/internal/platform/db"
	"github.com/medina-negoce/medina-erp/internal/shared"
)

// Repository persists payments.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Payment, error)
	List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error)
	Create(ctx context.Context, p Payment) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
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

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const paymentColumns = `p.id, p.contact_id, c.nom_complet, p.type_paiement, p.montant,
	p.mode_paiement, p.reference, p.statut, p.date_paiement, p.notes,
	p.created_by, p.created_at, p.updated_at`

const paymentFrom = `FROM payments p JOIN contacts c ON c.id = p.contact_id`

func (r *repository) Get(ctx context.Context, id int64) (*Payment, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE p.id = $1 AND p.deleted_at IS NULL`, paymentColumns, paymentFrom)
	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, req ListPaymentsRequest) ([]Payment, int, error) {
	conditions := []string{"p.deleted_at IS NULL"}
	var args []interface{}
	argPos := 1

	if req.ContactID != nil {
		conditions = append(conditions, fmt.Sprintf("p.contact_id = $%d", argPos))
		args = append(args, *req.ContactID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("p.date_paiement >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("p.date_paiement <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) %s %s", paymentFrom, whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := shared.NewPagination(req.Page, req.PerPage, total)
	query := fmt.Sprintf(`SELECT %s %s %s
		ORDER BY p.date_paiement DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, paymentFrom, whereClause, argPos, argPos+1)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		pmt, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *pmt)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Payment) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO payments
		(contact_id, type_paiement, montant, mode_paiement, reference, statut, date_paiement, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		p.ContactID, p.TypePaiement, p.Montant, p.Mode, nullStr(p.Reference),
		p.Statut, p.DatePaiement, nullStr(p.Notes), p.CreatedBy).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, shared.ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE payments SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range []string{"montant", "mode_paiement", "reference", "statut", "date_paiement", "notes"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argPos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	var reference, notes pgtype.Text
	var montant pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.ContactID, &p.ContactNom, &p.TypePaiement, &montant,
		&p.Mode, &reference, &p.Statut, &p.DatePaiement, &notes,
		&p.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.Montant = numericToFloat(montant)
	p.Reference = reference.String
	p.Notes = notes.String
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
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
