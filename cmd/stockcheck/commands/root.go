package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/stockcheck/internal/metrics"
	"github.com/jask/stockcheck/internal/settings"
	"github.com/jask/stockcheck/internal/tui"
)

var configPath string

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stockcheck",
		Short:        "Stock counting terminal UI",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $STOCKCHECK_CONFIG or ~/.config/stockcheck/config.toml)")

	root.AddCommand(showCmd(), clearCmd(), resetCmd())
	return root
}

func runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e, err := openEnv(ctx, configPath)
	if err != nil {
		return err
	}
	defer e.Close()

	if addr := e.cfg.Metrics.Listen; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				e.log.Error("metrics listener", zap.String("addr", addr), zap.Error(err))
			}
		}()
	}

	bridge := tui.NewBridge()
	provider := settings.New(e.stores, bridge, bridge, e.log)
	router := tui.NewRouter(ctx, tui.Deps{
		Provider:   provider,
		Bridge:     bridge,
		Catalog:    e.catalog,
		Location:   e.loc,
		DateFormat: e.cfg.UI.DateFormat,
		ToastTTL:   time.Duration(e.cfg.UI.ToastSeconds) * time.Second,
	})
	defer router.Close()

	e.log.Info("starting ui", zap.String("backend", e.cfg.Storage.Backend))
	if _, err := tea.NewProgram(router, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
