package contacts

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

// Repository persists contacts and computes cumulative balances.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Contact, error)
	List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error)
	Create(ctx context.Context, c Contact) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	GenerateReference(ctx context.Context, t ContactType) (string, error)
	SoldeCumule(ctx context.Context, id int64) (float64, error)
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

// excludedStatusList mirrors shared.CountsTowardBalance for SQL filters:
// both accented and plain spellings are listed because stored statuses
// vary.
const excludedStatusList = `('annulé','annule','supprimé','supprime','brouillon','refusé','refuse','expiré','expire')`

// soldeCumuleExpr computes the running balance: starting solde plus sales
// (clients) or purchases (suppliers), minus payments and avoirs, counting
// only statuses that participate in the balance.
const soldeCumuleExpr = `
	c.solde
	+ CASE WHEN c.type = 'Client' THEN COALESCE((
		SELECT SUM(b.montant_total) FROM bons b
		WHERE b.client_id = c.id AND b.type IN ('Sortie','Comptant')
		  AND lower(btrim(b.statut)) NOT IN ` + excludedStatusList + `
	), 0) ELSE COALESCE((
		SELECT SUM(b.montant_total) FROM bons b
		WHERE b.fournisseur_id = c.id AND b.type = 'Commande'
		  AND lower(btrim(b.statut)) NOT IN ` + excludedStatusList + `
	), 0) END
	- CASE WHEN c.type = 'Client' THEN COALESCE((
		SELECT SUM(b.montant_total) FROM bons b
		WHERE b.client_id = c.id AND b.type IN ('Avoir','AvoirComptant')
		  AND lower(btrim(b.statut)) NOT IN ` + excludedStatusList + `
	), 0) ELSE COALESCE((
		SELECT SUM(b.montant_total) FROM bons b
		WHERE b.fournisseur_id = c.id AND b.type = 'AvoirFournisseur'
		  AND lower(btrim(b.statut)) NOT IN ` + excludedStatusList + `
	), 0) END
	- COALESCE((
		SELECT SUM(p.montant) FROM payments p
		WHERE p.contact_id = c.id AND p.type_paiement = c.type
		  AND lower(btrim(p.statut)) NOT IN ` + excludedStatusList + `
	), 0)
`

const contactColumns = `c.id, c.type, c.reference, c.nom_complet, c.societe, c.telephone,
	c.email, c.adresse, c.solde, c.plafond, c.created_by, c.created_at, c.updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Contact, error) {
	query := fmt.Sprintf(`SELECT %s, %s AS solde_cumule FROM contacts c WHERE c.id = $1 AND c.deleted_at IS NULL`,
		contactColumns, soldeCumuleExpr)
	c, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) SoldeCumule(ctx context.Context, id int64) (float64, error) {
	query := fmt.Sprintf(`SELECT %s FROM contacts c WHERE c.id = $1 AND c.deleted_at IS NULL`, soldeCumuleExpr)
	var solde pgtype.Numeric
	if err := r.db.QueryRow(ctx, query, id).Scan(&solde); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return numericToFloat(solde), nil
}

func (r *repository) List(ctx context.Context, req ListContactsRequest) ([]Contact, int, error) {
	conditions := []string{"c.deleted_at IS NULL"}
	var args []interface{}
	argPos := 1

	if req.Type != nil {
		conditions = append(conditions, fmt.Sprintf("c.type = $%d", argPos))
		args = append(args, *req.Type)
		argPos++
	}
	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.nom_complet ILIKE $%d OR c.societe ILIKE $%d OR c.reference ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM contacts c %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := shared.NewPagination(req.Page, req.PerPage, total)
	query := fmt.Sprintf(`SELECT %s, %s AS solde_cumule FROM contacts c %s
		ORDER BY c.nom_complet ASC LIMIT $%d OFFSET $%d`,
		contactColumns, soldeCumuleExpr, whereClause, argPos, argPos+1)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Contact) (int64, error) {
	var plafond pgtype.Numeric
	if c.Plafond != nil {
		_ = plafond.Scan(fmt.Sprintf("%f", *c.Plafond))
	}
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO contacts
		(type, reference, nom_complet, societe, telephone, email, adresse, solde, plafond, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		c.Type, c.Reference, c.NomComplet, c.Societe, c.Telephone, c.Email, c.Adresse,
		c.Solde, plafond, c.CreatedBy).Scan(&id)
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
	query := "UPDATE contacts SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range []string{"nom_complet", "societe", "telephone", "email", "adresse", "solde", "plafond"} {
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

func (r *repository) GenerateReference(ctx context.Context, t ContactType) (string, error) {
	prefix := "CLI"
	if t == TypeFournisseur {
		prefix = "FOU"
	}
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM contacts WHERE type = $1", t).Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	var societe, telephone, email, adresse pgtype.Text
	var solde, plafond, soldeCumule pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&c.ID, &c.Type, &c.Reference, &c.NomComplet, &societe, &telephone,
		&email, &adresse, &solde, &plafond, &c.CreatedBy, &createdAt, &updatedAt, &soldeCumule)
	if err != nil {
		return nil, err
	}

	if societe.Valid {
		c.Societe = &societe.String
	}
	if telephone.Valid {
		c.Telephone = &telephone.String
	}
	if email.Valid {
		c.Email = &email.String
	}
	if adresse.Valid {
		c.Adresse = &adresse.String
	}
	c.Solde = numericToFloat(solde)
	if plafond.Valid {
		v := numericToFloat(plafond)
		c.Plafond = &v
	}
	c.SoldeCumule = numericToFloat(soldeCumule)
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
