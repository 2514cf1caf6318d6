package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// CompanyRepo handles the company catalog.
type CompanyRepo struct {
	db *sql.DB
}

func NewCompanyRepo(db *sql.DB) *CompanyRepo { return &CompanyRepo{db: db} }

func (r *CompanyRepo) Upsert(ctx context.Context, c Company) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO companies(id, name, document)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 document=excluded.document;
	`, c.ID, c.Name, c.Document)
	return err
}

func (r *CompanyRepo) List(ctx context.Context) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, document FROM companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Document); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ProductGroupRepo handles product groups.
type ProductGroupRepo struct {
	db *sql.DB
}

func NewProductGroupRepo(db *sql.DB) *ProductGroupRepo { return &ProductGroupRepo{db: db} }

func (r *ProductGroupRepo) Upsert(ctx context.Context, g ProductGroup) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO product_groups(id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, g.ID, g.Name)
	return err
}

func (r *ProductGroupRepo) List(ctx context.Context) ([]ProductGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM product_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductGroup
	for rows.Next() {
		var g ProductGroup
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ProductFilters defines list filters. Zero values disable a filter.
type ProductFilters struct {
	CompanyID string
	GroupID   string
	From      time.Time // first counted day, inclusive
	To        time.Time // last counted day, inclusive
}

// ProductRepo handles products.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Upsert(ctx context.Context, p Product) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO products(id, company_id, group_id, name, unit, quantity, counted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 company_id=excluded.company_id,
	 group_id=excluded.group_id,
	 name=excluded.name,
	 unit=excluded.unit,
	 quantity=excluded.quantity,
	 counted_at=excluded.counted_at;
	`, p.ID, p.CompanyID, p.GroupID, p.Name, p.Unit, p.Quantity, p.CountedAt.UTC())
	return err
}

const productColumns = `p.id, p.company_id, p.group_id, g.name, p.name, p.unit, p.quantity, p.counted_at`

func (r *ProductRepo) List(ctx context.Context, f ProductFilters) ([]Product, error) {
	var where []string
	var args []interface{}

	if f.CompanyID != "" {
		where = append(where, "p.company_id = ?")
		args = append(args, f.CompanyID)
	}
	if f.GroupID != "" {
		where = append(where, "p.group_id = ?")
		args = append(args, f.GroupID)
	}
	if !f.From.IsZero() {
		start := dayStart(f.From)
		where = append(where, "p.counted_at >= ?")
		args = append(args, start.UTC())
	}
	if !f.To.IsZero() {
		end := dayStart(f.To).AddDate(0, 0, 1)
		where = append(where, "p.counted_at < ?")
		args = append(args, end.UTC())
	}

	query := "SELECT " + productColumns + " FROM products p JOIN product_groups g ON g.id = p.group_id"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY g.name, p.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns nil, nil for an unknown id.
func (r *ProductRepo) Get(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p JOIN product_groups g ON g.id = p.group_id WHERE p.id = ?", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (Product, error) {
	var p Product
	err := s.Scan(&p.ID, &p.CompanyID, &p.GroupID, &p.GroupName, &p.Name, &p.Unit, &p.Quantity, &p.CountedAt)
	return p, err
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
