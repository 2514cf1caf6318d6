package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jask/stockcheck/internal/database/repository"
)

type seedProduct struct {
	group    string
	name     string
	unit     string
	quantity float64
	daysAgo  int
}

var (
	defaultCompanies = []repository.Company{
		{Name: "Matriz", Document: "12.345.678/0001-90"},
		{Name: "Filial Centro", Document: "12.345.678/0002-71"},
		{Name: "Filial Norte", Document: "12.345.678/0003-52"},
	}
	defaultGroups = []string{"Bebidas", "Mercearia", "Limpeza", "Hortifruti", "Padaria"}

	defaultProducts = []seedProduct{
		{"Bebidas", "Água mineral 500ml", "UN", 240, 0},
		{"Bebidas", "Refrigerante cola 2L", "UN", 96, 3},
		{"Bebidas", "Suco de uva 1L", "UN", 36, 12},
		{"Mercearia", "Arroz tipo 1 5kg", "PCT", 80, 1},
		{"Mercearia", "Feijão carioca 1kg", "PCT", 120, 8},
		{"Mercearia", "Café torrado 500g", "PCT", 64, 40},
		{"Limpeza", "Detergente neutro 500ml", "UN", 150, 5},
		{"Limpeza", "Água sanitária 2L", "UN", 48, 70},
		{"Hortifruti", "Banana prata", "KG", 35.5, 0},
		{"Hortifruti", "Tomate italiano", "KG", 22.3, 2},
		{"Padaria", "Pão francês", "KG", 18, 0},
	}
)

// SeedDefaults ensures a demo catalog exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	companies := repository.NewCompanyRepo(db)
	existing, err := companies.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	return WithTx(db, func(tx *sql.Tx) error {
		for _, c := range defaultCompanies {
			c.ID = seedID("company", c.Name)
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO companies(id, name, document) VALUES (?, ?, ?)`, c.ID, c.Name, c.Document); err != nil {
				return err
			}
		}
		for _, name := range defaultGroups {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO product_groups(id, name) VALUES (?, ?)`, seedID("group", name), name); err != nil {
				return err
			}
		}
		for _, c := range defaultCompanies {
			companyID := seedID("company", c.Name)
			for _, p := range defaultProducts {
				id := seedID("product", c.Name+"/"+p.name)
				counted := today.AddDate(0, 0, -p.daysAgo).Add(9 * time.Hour)
				if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO products(id, company_id, group_id, name, unit, quantity, counted_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
					id, companyID, seedID("group", p.group), p.name, p.unit, p.quantity, counted); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// seedID derives a stable id so reseeding never duplicates rows.
func seedID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+name)).String()
}
