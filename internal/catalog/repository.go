package catalog

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

// Repository persists products with their variants and units.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Product, error)
	GetVariant(ctx context.Context, id int64) (*Variant, error)
	GetUnit(ctx context.Context, id int64) (*Unit, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, int, error)
	Create(ctx context.Context, p Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	GenerateReference(ctx context.Context) (string, error)
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

const productColumns = `p.id, p.reference, p.designation, p.categorie_id, p.quantite, p.kg,
	p.prix_achat, p.cout_revient, p.prix_gros, p.prix_vente,
	p.cout_revient_pourcentage, p.prix_gros_pourcentage, p.prix_vente_pourcentage,
	p.est_service, p.created_by, p.created_at, p.updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM products p WHERE p.id = $1", productColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	variants, err := r.variantsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Variants = variants

	units, err := r.unitsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Units = units

	return p, nil
}

func (r *repository) GetVariant(ctx context.Context, id int64) (*Variant, error) {
	var v Variant
	var prixAchat, coutRevient, prixVente, quantite pgtype.Numeric
	err := r.db.QueryRow(ctx, `SELECT id, product_id, nom, quantite, prix_achat, cout_revient, prix_vente
		FROM product_variants WHERE id = $1`, id).
		Scan(&v.ID, &v.ProductID, &v.Nom, &quantite, &prixAchat, &coutRevient, &prixVente)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	v.Quantite = numericToFloat(quantite)
	v.PrixAchat = numericToFloat(prixAchat)
	v.CoutRevient = numericToFloat(coutRevient)
	v.PrixVente = numericToFloat(prixVente)
	return &v, nil
}

func (r *repository) GetUnit(ctx context.Context, id int64) (*Unit, error) {
	var u Unit
	var factor, prixVente pgtype.Numeric
	err := r.db.QueryRow(ctx, `SELECT id, product_id, nom, conversion_factor, is_default, prix_fixe, prix_vente
		FROM product_units WHERE id = $1`, id).
		Scan(&u.ID, &u.ProductID, &u.Nom, &factor, &u.IsDefault, &u.PrixFixe, &prixVente)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.ConversionFactor = numericToFloat(factor)
	u.PrixVente = numericToFloat(prixVente)
	return &u, nil
}

func (r *repository) variantsFor(ctx context.Context, productID int64) ([]Variant, error) {
	rows, err := r.db.Query(ctx, `SELECT id, product_id, nom, quantite, prix_achat, cout_revient, prix_vente
		FROM product_variants WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Variant
	for rows.Next() {
		var v Variant
		var quantite, prixAchat, coutRevient, prixVente pgtype.Numeric
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Nom, &quantite, &prixAchat, &coutRevient, &prixVente); err != nil {
			return nil, err
		}
		v.Quantite = numericToFloat(quantite)
		v.PrixAchat = numericToFloat(prixAchat)
		v.CoutRevient = numericToFloat(coutRevient)
		v.PrixVente = numericToFloat(prixVente)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repository) unitsFor(ctx context.Context, productID int64) ([]Unit, error) {
	rows, err := r.db.Query(ctx, `SELECT id, product_id, nom, conversion_factor, is_default, prix_fixe, prix_vente
		FROM product_units WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Unit
	for rows.Next() {
		var u Unit
		var factor, prixVente pgtype.Numeric
		if err := rows.Scan(&u.ID, &u.ProductID, &u.Nom, &factor, &u.IsDefault, &u.PrixFixe, &prixVente); err != nil {
			return nil, err
		}
		u.ConversionFactor = numericToFloat(factor)
		u.PrixVente = numericToFloat(prixVente)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListProductsRequest) ([]Product, int, error) {
	conditions := []string{"TRUE"}
	var args []interface{}
	argPos := 1

	if req.Search != nil && *req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.designation ILIKE $%d OR p.reference ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+*req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	p := shared.NewPagination(req.Page, req.PerPage, total)
	query := fmt.Sprintf("SELECT %s FROM products p %s ORDER BY p.designation ASC LIMIT $%d OFFSET $%d",
		productColumns, whereClause, argPos, argPos+1)
	args = append(args, p.PerPage, p.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		prod, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *prod)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO products
		(reference, designation, categorie_id, quantite, kg, prix_achat, cout_revient, prix_gros, prix_vente,
		 cout_revient_pourcentage, prix_gros_pourcentage, prix_vente_pourcentage, est_service, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`,
		p.Reference, p.Designation, p.CategorieID, p.Quantite, p.Kg,
		p.PrixAchat, p.CoutRevient, p.PrixGros, p.PrixVente,
		p.CoutPct, p.GrosPct, p.VentePct, p.EstService, p.CreatedBy).Scan(&id)
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
	query := "UPDATE products SET updated_at = NOW()"
	var args []interface{}
	argPos := 1
	for _, col := range []string{"designation", "categorie_id", "quantite", "kg",
		"prix_achat", "cout_revient", "prix_gros", "prix_vente",
		"cout_revient_pourcentage", "prix_gros_pourcentage", "prix_vente_pourcentage", "est_service"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}
	query += fmt.Sprintf(" WHERE id = $%d", argPos)
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

func (r *repository) GenerateReference(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("PROD%04d", count+1), nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var categorieID pgtype.Int8
	var kg pgtype.Numeric
	var quantite, prixAchat, coutRevient, prixGros, prixVente, coutPct, grosPct, ventePct pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&p.ID, &p.Reference, &p.Designation, &categorieID, &quantite, &kg,
		&prixAchat, &coutRevient, &prixGros, &prixVente,
		&coutPct, &grosPct, &ventePct, &p.EstService, &p.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if categorieID.Valid {
		p.CategorieID = &categorieID.Int64
	}
	p.Quantite = numericToFloat(quantite)
	if kg.Valid {
		v := numericToFloat(kg)
		p.Kg = &v
	}
	p.PrixAchat = numericToFloat(prixAchat)
	p.CoutRevient = numericToFloat(coutRevient)
	p.PrixGros = numericToFloat(prixGros)
	p.PrixVente = numericToFloat(prixVente)
	p.CoutPct = numericToFloat(coutPct)
	p.GrosPct = numericToFloat(grosPct)
	p.VentePct = numericToFloat(ventePct)
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}
	return &p, nil
}

func numericToFloat(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
