package repository

import (
	"context"
	"database/sql"
	"errors"
)

// CompanySelectionRepo persists the active company.
type CompanySelectionRepo struct {
	db *sql.DB
}

func NewCompanySelectionRepo(db *sql.DB) *CompanySelectionRepo {
	return &CompanySelectionRepo{db: db}
}

// Get returns nil, nil when no company has been chosen yet.
func (r *CompanySelectionRepo) Get(ctx context.Context) (*CompanySelection, error) {
	var c CompanySelection
	err := r.db.QueryRowContext(ctx, `SELECT company_id, company_name FROM company_selection WHERE slot = 1`).
		Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanySelectionRepo) Save(ctx context.Context, c CompanySelection) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO company_selection(slot, company_id, company_name, updated_at)
	VALUES (1, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(slot) DO UPDATE SET
	 company_id=excluded.company_id,
	 company_name=excluded.company_name,
	 updated_at=excluded.updated_at;
	`, c.ID, c.Name)
	return err
}

func (r *CompanySelectionRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM company_selection`)
	return err
}

// ProductFilterRepo persists the active product group filter.
type ProductFilterRepo struct {
	db *sql.DB
}

func NewProductFilterRepo(db *sql.DB) *ProductFilterRepo {
	return &ProductFilterRepo{db: db}
}

func (r *ProductFilterRepo) Get(ctx context.Context) (*ProductFilter, error) {
	var f ProductFilter
	err := r.db.QueryRowContext(ctx, `SELECT filter_id, filter_name FROM product_filter_selection WHERE slot = 1`).
		Scan(&f.FilterID, &f.FilterName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *ProductFilterRepo) Save(ctx context.Context, f ProductFilter) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO product_filter_selection(slot, filter_id, filter_name, updated_at)
	VALUES (1, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(slot) DO UPDATE SET
	 filter_id=excluded.filter_id,
	 filter_name=excluded.filter_name,
	 updated_at=excluded.updated_at;
	`, f.FilterID, f.FilterName)
	return err
}

func (r *ProductFilterRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM product_filter_selection`)
	return err
}

// DateFilterRepo persists the active counting period.
type DateFilterRepo struct {
	db *sql.DB
}

func NewDateFilterRepo(db *sql.DB) *DateFilterRepo {
	return &DateFilterRepo{db: db}
}

func (r *DateFilterRepo) Get(ctx context.Context) (*DateFilter, error) {
	var f DateFilter
	err := r.db.QueryRowContext(ctx, `SELECT initial_date, final_date, period_name FROM date_filter_selection WHERE slot = 1`).
		Scan(&f.InitialDate, &f.FinalDate, &f.PeriodName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *DateFilterRepo) Save(ctx context.Context, f DateFilter) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO date_filter_selection(slot, initial_date, final_date, period_name, updated_at)
	VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(slot) DO UPDATE SET
	 initial_date=excluded.initial_date,
	 final_date=excluded.final_date,
	 period_name=excluded.period_name,
	 updated_at=excluded.updated_at;
	`, f.InitialDate.UTC(), f.FinalDate.UTC(), f.PeriodName)
	return err
}

func (r *DateFilterRepo) Delete(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM date_filter_selection`)
	return err
}
