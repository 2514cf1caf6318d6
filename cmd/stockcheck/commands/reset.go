package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/stockcheck/internal/prefs"
	"github.com/jask/stockcheck/internal/service"
)

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every stored selection and compact the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			m := &service.MaintenanceService{DB: e.db}
			if err := m.ResetSelections(ctx); err != nil {
				return err
			}
			// the file backend keeps its own copies
			s := prefs.NewStores(e.cfg.Storage.Dir)
			for _, del := range []func() error{
				func() error { return s.Company.Delete(ctx) },
				func() error { return s.Filter.Delete(ctx) },
				func() error { return s.DateFilter.Delete(ctx) },
			} {
				if err := del(); err != nil {
					return fmt.Errorf("reset file selections: %w", err)
				}
			}
			if err := m.Compact(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Selections reset.")
			return nil
		},
	}
}
