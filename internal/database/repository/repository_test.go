package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/stockcheck/internal/database"
	"github.com/jask/stockcheck/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCompanySelectionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewCompanySelectionRepo(openDB(t))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "empty store reads as absent")

	require.NoError(t, repo.Save(ctx, repository.CompanySelection{ID: "1", Name: "Matriz"}))
	require.NoError(t, repo.Save(ctx, repository.CompanySelection{ID: "2", Name: "Filial"}))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, &repository.CompanySelection{ID: "2", Name: "Filial"}, got)

	require.NoError(t, repo.Delete(ctx))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestProductFilterDeleteWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProductFilterRepo(openDB(t))

	require.NoError(t, repo.Delete(ctx))
	require.NoError(t, repo.Save(ctx, repository.ProductFilter{FilterID: "7", FilterName: "Bebidas"}))
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bebidas", got.FilterName)
}

func TestDateFilterRoundTripsInstants(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewDateFilterRepo(openDB(t))
	loc := time.FixedZone("BRT", -3*3600)
	in := repository.DateFilter{
		InitialDate: time.Date(2026, 10, 1, 0, 0, 0, 0, loc),
		FinalDate:   time.Date(2026, 10, 15, 0, 0, 0, 0, loc),
		PeriodName:  "This Month",
	}
	require.NoError(t, repo.Save(ctx, in))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.True(t, got.InitialDate.Equal(in.InitialDate))
	require.True(t, got.FinalDate.Equal(in.FinalDate))
	require.Equal(t, "This Month", got.PeriodName)
}

func TestProductListFilters(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	companies := repository.NewCompanyRepo(db)
	groups := repository.NewProductGroupRepo(db)
	products := repository.NewProductRepo(db)

	require.NoError(t, companies.Upsert(ctx, repository.Company{ID: "c1", Name: "Matriz"}))
	require.NoError(t, companies.Upsert(ctx, repository.Company{ID: "c2", Name: "Filial"}))
	require.NoError(t, groups.Upsert(ctx, repository.ProductGroup{ID: "g1", Name: "Bebidas"}))
	require.NoError(t, groups.Upsert(ctx, repository.ProductGroup{ID: "g2", Name: "Limpeza"}))

	day := func(d int) time.Time { return time.Date(2026, 10, d, 14, 0, 0, 0, time.UTC) }
	rows := []repository.Product{
		{ID: "p1", CompanyID: "c1", GroupID: "g1", Name: "Água", Unit: "UN", Quantity: 10, CountedAt: day(1)},
		{ID: "p2", CompanyID: "c1", GroupID: "g1", Name: "Suco", Unit: "UN", Quantity: 5, CountedAt: day(10)},
		{ID: "p3", CompanyID: "c1", GroupID: "g2", Name: "Detergente", Unit: "UN", Quantity: 3, CountedAt: day(10)},
		{ID: "p4", CompanyID: "c2", GroupID: "g1", Name: "Água", Unit: "UN", Quantity: 1, CountedAt: day(10)},
	}
	for _, p := range rows {
		require.NoError(t, products.Upsert(ctx, p))
	}

	all, err := products.List(ctx, repository.ProductFilters{CompanyID: "c1"})
	require.NoError(t, err)
	require.Len(t, all, 3)

	drinks, err := products.List(ctx, repository.ProductFilters{CompanyID: "c1", GroupID: "g1"})
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	require.Equal(t, "Bebidas", drinks[0].GroupName)

	// final day is inclusive
	ranged, err := products.List(ctx, repository.ProductFilters{
		CompanyID: "c1",
		From:      time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		To:        time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	for _, p := range ranged {
		require.NotEqual(t, "p1", p.ID)
	}

	one, err := products.Get(ctx, "p3")
	require.NoError(t, err)
	require.Equal(t, "Detergente", one.Name)
	require.Equal(t, "Limpeza", one.GroupName)

	missing, err := products.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}
