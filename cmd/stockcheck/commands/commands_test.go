package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/prefs"
)

func writeConfig(t *testing.T, backend string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	selections := filepath.Join(dir, "selections")
	cfg := fmt.Sprintf(`
[database]
path = %q

[storage]
backend = %q
dir = %q

[ui]
timezone = "UTC"

[log]
path = %q
`, filepath.Join(dir, "stockcheck.db"), backend, selections, filepath.Join(dir, "stockcheck.log"))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, selections
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestShowEmptySelections(t *testing.T) {
	cfg, _ := writeConfig(t, "sqlite")
	out := execute(t, "show", "--config", cfg)
	require.Contains(t, out, "Company: (none)")
	require.Contains(t, out, "Group:   (all)")
	require.Contains(t, out, "Period:  (any)")
}

func TestShowAndClearWithFileBackend(t *testing.T) {
	cfg, dir := writeConfig(t, "file")
	ctx := context.Background()
	stores := prefs.NewStores(dir)
	require.NoError(t, stores.Company.Save(ctx, repository.CompanySelection{ID: "c1", Name: "Matriz"}))
	require.NoError(t, stores.Filter.Save(ctx, repository.ProductFilter{FilterID: "g1", FilterName: "Bebidas"}))

	out := execute(t, "show", "--config", cfg)
	require.Contains(t, out, "Company: Matriz [c1]")
	require.Contains(t, out, "Group:   Bebidas [g1]")

	out = execute(t, "clear", "--config", cfg)
	require.Contains(t, out, "Filters cleared.")

	f, err := stores.Filter.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, f)
	c, err := stores.Company.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Matriz", c.Name)
}

func TestUnknownBackendFails(t *testing.T) {
	cfg, _ := writeConfig(t, "redis")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"show", "--config", cfg})
	require.ErrorContains(t, root.ExecuteContext(context.Background()), "unknown storage backend")
}

func TestResetForgetsCompany(t *testing.T) {
	cfg, dir := writeConfig(t, "file")
	ctx := context.Background()
	stores := prefs.NewStores(dir)
	require.NoError(t, stores.Company.Save(ctx, repository.CompanySelection{ID: "c1", Name: "Matriz"}))

	out := execute(t, "reset", "--config", cfg)
	require.Contains(t, out, "Selections reset.")

	out = execute(t, "show", "--config", cfg)
	require.Contains(t, out, "Company: (none)")
}
