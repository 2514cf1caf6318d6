package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/stockcheck/internal/settings"
)

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the group filter and the counting period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			sink := logSink{log: e.log.Named("headless")}
			p := settings.New(e.stores, sink, sink, e.log)
			if err := p.DeleteFilter(ctx); err != nil {
				return fmt.Errorf("clear filter: %w", err)
			}
			p.DeleteDateFilter(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), "Filters cleared.")
			return nil
		},
	}
}
