package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/stockcheck/internal/database"
)

// MaintenanceService houses destructive actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// selectionTables hold the per-user choices; the catalog is left alone.
var selectionTables = []string{
	"company_selection",
	"product_filter_selection",
	"date_filter_selection",
}

// ResetSelections forgets the stored company, group filter and period. The
// next start behaves like a first run.
func (s *MaintenanceService) ResetSelections(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	return database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, t := range selectionTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	})
}

// Compact reclaims space after large catalog changes.
func (s *MaintenanceService) Compact(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}
