package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/prefs"
	"github.com/jask/stockcheck/internal/settings"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCompanies []repository.Company

func (f fakeCompanies) List(context.Context) ([]repository.Company, error) { return f, nil }

type fakeGroups []repository.ProductGroup

func (f fakeGroups) List(context.Context) ([]repository.ProductGroup, error) { return f, nil }

type fakeProducts []repository.Product

func (f fakeProducts) List(_ context.Context, pf repository.ProductFilters) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range f {
		if p.CompanyID == pf.CompanyID && (pf.GroupID == "" || p.GroupID == pf.GroupID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakeProducts) Get(_ context.Context, id string) (*repository.Product, error) {
	for _, p := range f {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

type harness struct {
	router *Router
	stores prefs.Stores
}

func newHarness(t *testing.T, seed func(prefs.Stores)) *harness {
	t.Helper()
	stores := prefs.NewStores(t.TempDir())
	if seed != nil {
		seed(stores)
	}
	bridge := NewBridge()
	provider := settings.New(settings.Stores{
		Company:    stores.Company,
		Filter:     stores.Filter,
		DateFilter: stores.DateFilter,
	}, bridge, bridge, zaptest.NewLogger(t))
	r := NewRouter(context.Background(), Deps{
		Provider: provider,
		Bridge:   bridge,
		Catalog: Catalog{
			Companies: fakeCompanies{{ID: "c1", Name: "Matriz"}, {ID: "c2", Name: "Filial Centro"}},
			Groups:    fakeGroups{{ID: "g1", Name: "Bebidas"}},
			Products: fakeProducts{
				{ID: "p1", CompanyID: "c1", GroupID: "g1", GroupName: "Bebidas", Name: "Água mineral", Unit: "UN", Quantity: 12},
				{ID: "p2", CompanyID: "c2", GroupID: "g1", GroupName: "Bebidas", Name: "Suco de uva", Unit: "UN", Quantity: 4},
			},
		},
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(r.Close)
	return &harness{router: r, stores: stores}
}

// pump feeds everything the provider posted into the router, the way the
// bubbletea loop would.
func (h *harness) pump() {
	b := h.router.deps.Bridge
	for {
		b.mu.Lock()
		queue := b.queue
		b.queue = nil
		b.mu.Unlock()
		if len(queue) == 0 {
			return
		}
		for _, msg := range queue {
			h.router.Update(msg)
		}
	}
}

// run executes cmd and feeds its message back to the router.
func (h *harness) run(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	_, next := h.router.Update(msg)
	return next
}

func (h *harness) init(t *testing.T) {
	t.Helper()
	h.router.deps.Provider.Initialize(context.Background())
	h.pump()
	require.False(t, h.router.root.state.Loading)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func withCompany(s prefs.Stores) {
	_ = s.Company.Save(context.Background(), repository.CompanySelection{ID: "c1", Name: "Matriz"})
}

func TestInitWithoutCompanyOpensSettings(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, "AppScreens/CheckList", h.router.Current())
	require.Contains(t, h.router.View(), "Loading settings")

	h.init(t)

	require.Equal(t, "AppScreens/Settings", h.router.Current())
	require.NotNil(t, h.router.toast)
	require.Equal(t, "Choose a unit first!", h.router.toast.Title)
	require.Equal(t, settings.KindError, h.router.toast.Kind)
	require.Contains(t, h.router.View(), "Pick a company below to continue")
}

func TestInitWithCompanyStaysOnCheckList(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	require.Equal(t, "AppScreens/CheckList", h.router.Current())
	require.Nil(t, h.router.toast)
	require.Equal(t, "Matriz", h.router.root.state.Company.Name)
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t, withCompany)
	h.router.Update(runes("3"))
	require.Equal(t, "AppScreens/CheckList", h.router.Current())
}

func TestSelectCompanyFromSettings(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	_, cmd := h.router.Update(runes("3"))
	require.Equal(t, "AppScreens/Settings", h.router.Current())
	h.run(cmd)
	require.Len(t, h.router.root.companies, 2)

	h.router.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = h.router.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.run(cmd)
	h.pump()

	require.Equal(t, "Company set to Filial Centro", h.router.status)
	require.Equal(t, "c2", h.router.root.state.Company.ID)
	stored, err := h.stores.Company.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, &repository.CompanySelection{ID: "c2", Name: "Filial Centro"}, stored)
}

func TestClearFilterLandsOnProductList(t *testing.T) {
	h := newHarness(t, func(s prefs.Stores) {
		withCompany(s)
		_ = s.Filter.Save(context.Background(), repository.ProductFilter{FilterID: "g1", FilterName: "Bebidas"})
	})
	h.init(t)

	_, cmd := h.router.Update(runes("c"))
	h.run(cmd)
	h.pump()

	require.Equal(t, "AppScreens/ProductList", h.router.Current())
	require.Equal(t, "Filters cleared!", h.router.toast.Title)
	require.Equal(t, settings.KindSuccess, h.router.toast.Kind)
	stored, err := h.stores.Filter.Get(context.Background())
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestGroupPickerSavesFilter(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	_, cmd := h.router.Update(runes("f"))
	h.run(cmd)
	require.Equal(t, "Filter by group", h.router.Current())

	_, cmd = h.router.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 1, h.router.stack.Len())
	h.run(cmd)
	h.pump()

	require.Equal(t, &repository.ProductFilter{FilterID: "g1", FilterName: "Bebidas"}, h.router.root.state.Filter)
	require.Equal(t, "Showing Bebidas", h.router.status)
}

func TestPeriodPickerSavesDateFilter(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	_, cmd := h.router.Update(runes("p"))
	h.run(cmd)
	require.Equal(t, "Counting period", h.router.Current())

	_, cmd = h.router.Update(tea.KeyMsg{Type: tea.KeyEnter})
	h.run(cmd)
	h.pump()

	require.Equal(t, "AppScreens/ProductList", h.router.Current())
	df := h.router.root.state.DateFilter
	require.NotNil(t, df)
	require.Equal(t, "Today", df.PeriodName)
	require.True(t, df.InitialDate.Equal(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))

	_, cmd = h.router.Update(runes("x"))
	h.run(cmd)
	h.pump()
	require.Nil(t, h.router.root.state.DateFilter)
}

func TestProductScreenPushAndPop(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	_, cmd := h.router.Update(runes("2"))
	h.run(cmd)
	require.Len(t, h.router.root.products, 1)

	_, cmd = h.router.Update(tea.KeyMsg{Type: tea.KeyEnter})
	load := h.run(cmd)
	require.Equal(t, "ProductScreen", h.router.Current())
	require.Contains(t, h.router.View(), "Loading")

	h.run(load)
	require.Contains(t, h.router.View(), "Água mineral")

	h.router.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, "AppScreens/ProductList", h.router.Current())
}

func TestNavigateToAppScreensPopsToRoot(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	h.router.Update(navigateMsg{screen: settings.ScreenProduct, params: settings.Params{"productID": "p1"}})
	require.Equal(t, 2, h.router.stack.Len())

	h.router.Update(navigateMsg{screen: settings.ScreenAppScreens})
	require.Equal(t, 1, h.router.stack.Len())
	require.Equal(t, "AppScreens/CheckList", h.router.Current())
}

func TestUnknownScreenReportsError(t *testing.T) {
	h := newHarness(t, withCompany)
	h.init(t)

	h.router.Update(navigateMsg{screen: "Nowhere"})

	require.True(t, h.router.isErr)
	require.Contains(t, h.router.status, `unknown screen "Nowhere"`)
	require.Equal(t, "AppScreens/CheckList", h.router.Current())
}

func TestToastExpiresOnlyForLatest(t *testing.T) {
	h := newHarness(t, withCompany)

	h.router.Update(toastMsg{n: settings.Notification{Title: "first"}})
	h.router.Update(toastMsg{n: settings.Notification{Title: "second"}})

	h.router.Update(toastExpiredMsg{seq: 1})
	require.Equal(t, "second", h.router.toast.Title)

	h.router.Update(toastExpiredMsg{seq: 2})
	require.Nil(t, h.router.toast)
}

func TestScreenStackKeepsRoot(t *testing.T) {
	var s screenStack
	root := &productScreen{id: "root"}
	s.Push(root)
	s.Push(nil)
	require.Equal(t, 1, s.Len())
	require.Nil(t, s.Pop())
	require.Same(t, root, s.Top())
}
