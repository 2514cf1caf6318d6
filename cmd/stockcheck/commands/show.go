package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/stockcheck/internal/period"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the persisted company, group filter and period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			company, err := e.stores.Company.Get(ctx)
			if err != nil {
				return fmt.Errorf("read company: %w", err)
			}
			filter, err := e.stores.Filter.Get(ctx)
			if err != nil {
				return fmt.Errorf("read filter: %w", err)
			}
			dates, err := e.stores.DateFilter.Get(ctx)
			if err != nil {
				return fmt.Errorf("read period: %w", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case company == nil:
				fmt.Fprintln(out, "Company: (none)")
			default:
				fmt.Fprintf(out, "Company: %s [%s]\n", company.Name, company.ID)
			}
			switch {
			case filter == nil:
				fmt.Fprintln(out, "Group:   (all)")
			default:
				fmt.Fprintf(out, "Group:   %s [%s]\n", filter.FilterName, filter.FilterID)
			}
			switch {
			case dates == nil:
				fmt.Fprintln(out, "Period:  (any)")
			default:
				fmt.Fprintf(out, "Period:  %s\n", period.Label(*dates, e.cfg.UI.DateFormat, e.loc))
			}
			return nil
		},
	}
}
