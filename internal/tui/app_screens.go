package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/period"
	"github.com/jask/stockcheck/internal/settings"
)

var tabOrder = []settings.Screen{
	settings.ScreenCheckList,
	settings.ScreenProductList,
	settings.ScreenSettings,
}

// appScreens is the container route. It hosts the three nested screens as
// tabs and shows a spinner until the provider finished loading.
type appScreens struct {
	ctx     context.Context
	deps    Deps
	state   settings.State
	tab     int
	spinner spinner.Model

	companies     []repository.Company
	companyCursor int
	products      []repository.Product
	productCursor int
}

func newAppScreens(ctx context.Context, deps Deps, state settings.State) *appScreens {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = selectedStyle
	return &appScreens{ctx: ctx, deps: deps, state: state, spinner: sp}
}

func (a *appScreens) Title() string { return string(settings.ScreenAppScreens) }

func (a *appScreens) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadCompanies())
}

func (a *appScreens) current() settings.Screen { return tabOrder[a.tab] }

func (a *appScreens) selectTab(s settings.Screen) tea.Cmd {
	for i, t := range tabOrder {
		if t == s {
			a.tab = i
		}
	}
	switch a.current() {
	case settings.ScreenProductList:
		return a.loadProducts()
	case settings.ScreenSettings:
		return a.loadCompanies()
	}
	return nil
}

func (a *appScreens) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch m := msg.(type) {
	case stateMsg:
		prev := a.state
		a.state = m.state
		if selectionChanged(prev, m.state) {
			return a, a.loadProducts(), false
		}
		return a, nil, false
	case spinner.TickMsg:
		if !a.state.Loading {
			return a, nil, false
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd, false
	case companiesMsg:
		if m.err != nil {
			return a, reportErr(fmt.Errorf("load companies: %w", m.err)), false
		}
		a.companies = m.companies
		if a.companyCursor >= len(a.companies) {
			a.companyCursor = 0
		}
		return a, nil, false
	case productsMsg:
		if m.err != nil {
			return a, reportErr(fmt.Errorf("load products: %w", m.err)), false
		}
		a.products = m.products
		if a.productCursor >= len(a.products) {
			a.productCursor = 0
		}
		return a, nil, false
	case tea.KeyMsg:
		return a, a.handleKey(m), false
	}
	return a, nil, false
}

func (a *appScreens) handleKey(m tea.KeyMsg) tea.Cmd {
	key := m.String()
	if key == "q" {
		return tea.Quit
	}
	if a.state.Loading {
		return nil
	}
	switch key {
	case "tab", "right":
		return a.selectTab(tabOrder[(a.tab+1)%len(tabOrder)])
	case "shift+tab", "left":
		return a.selectTab(tabOrder[(a.tab+len(tabOrder)-1)%len(tabOrder)])
	case "1", "2", "3":
		return a.selectTab(tabOrder[int(key[0]-'1')])
	}

	switch a.current() {
	case settings.ScreenCheckList:
		return a.filterKeys(key)
	case settings.ScreenProductList:
		switch key {
		case "up", "k":
			if a.productCursor > 0 {
				a.productCursor--
			}
			return nil
		case "down", "j":
			if a.productCursor < len(a.products)-1 {
				a.productCursor++
			}
			return nil
		case "enter":
			if len(a.products) == 0 {
				return nil
			}
			id := a.products[a.productCursor].ID
			return func() tea.Msg {
				return navigateMsg{screen: settings.ScreenProduct, params: settings.Params{"productID": id}}
			}
		}
		return a.filterKeys(key)
	case settings.ScreenSettings:
		switch key {
		case "up", "k":
			if a.companyCursor > 0 {
				a.companyCursor--
			}
		case "down", "j":
			if a.companyCursor < len(a.companies)-1 {
				a.companyCursor++
			}
		case "enter":
			if len(a.companies) > 0 {
				return a.saveCompanyCmd(a.companies[a.companyCursor])
			}
		}
	}
	return nil
}

// filterKeys are shared by CheckList and ProductList.
func (a *appScreens) filterKeys(key string) tea.Cmd {
	switch key {
	case "f":
		return a.openGroupPicker()
	case "p":
		return a.openPeriodPicker()
	case "c":
		return a.deleteFilterCmd()
	case "x":
		return a.deleteDateFilterCmd()
	}
	return nil
}

func selectionChanged(prev, next settings.State) bool {
	return !sameCompany(prev.Company, next.Company) ||
		!sameFilter(prev.Filter, next.Filter) ||
		!sameDates(prev.DateFilter, next.DateFilter)
}

func sameCompany(a, b *repository.CompanySelection) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameFilter(a, b *repository.ProductFilter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDates(a, b *repository.DateFilter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PeriodName == b.PeriodName && a.InitialDate.Equal(b.InitialDate) && a.FinalDate.Equal(b.FinalDate)
}

func reportErr(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

// commands

func (a *appScreens) loadCompanies() tea.Cmd {
	ctx, companies := a.ctx, a.deps.Catalog.Companies
	return func() tea.Msg {
		list, err := companies.List(ctx)
		return companiesMsg{companies: list, err: err}
	}
}

func (a *appScreens) loadProducts() tea.Cmd {
	if a.state.Company == nil {
		a.products = nil
		return nil
	}
	f := repository.ProductFilters{CompanyID: a.state.Company.ID}
	if a.state.Filter != nil {
		f.GroupID = a.state.Filter.FilterID
	}
	if a.state.DateFilter != nil {
		f.From = a.state.DateFilter.InitialDate.In(a.deps.Location)
		f.To = a.state.DateFilter.FinalDate.In(a.deps.Location)
	}
	ctx, products := a.ctx, a.deps.Catalog.Products
	return func() tea.Msg {
		list, err := products.List(ctx, f)
		return productsMsg{products: list, err: err}
	}
}

func (a *appScreens) saveCompanyCmd(c repository.Company) tea.Cmd {
	ctx, p := a.ctx, a.deps.Provider
	return func() tea.Msg {
		if err := p.SaveCompany(ctx, repository.CompanySelection{ID: c.ID, Name: c.Name}); err != nil {
			return errMsg{fmt.Errorf("save company: %w", err)}
		}
		return statusMsg("Company set to " + c.Name)
	}
}

func (a *appScreens) deleteFilterCmd() tea.Cmd {
	ctx, p := a.ctx, a.deps.Provider
	return func() tea.Msg {
		if err := p.DeleteFilter(ctx); err != nil {
			return errMsg{fmt.Errorf("clear filter: %w", err)}
		}
		return nil
	}
}

func (a *appScreens) deleteDateFilterCmd() tea.Cmd {
	ctx, p := a.ctx, a.deps.Provider
	return func() tea.Msg {
		p.DeleteDateFilter(ctx)
		return nil
	}
}

func (a *appScreens) openGroupPicker() tea.Cmd {
	ctx, deps := a.ctx, a.deps
	return func() tea.Msg {
		groups, err := deps.Catalog.Groups.List(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load groups: %w", err)}
		}
		items := make([]pickerItem, 0, len(groups))
		for _, g := range groups {
			items = append(items, pickerItem{id: g.ID, label: g.Name})
		}
		return pushScreenMsg{screen: newPicker("Filter by group", items, func(it pickerItem) tea.Cmd {
			return func() tea.Msg {
				if err := deps.Provider.SaveFilter(ctx, settings.FilterInput{ID: it.id, Name: it.label}); err != nil {
					return errMsg{fmt.Errorf("save filter: %w", err)}
				}
				return statusMsg("Showing " + it.label)
			}
		})}
	}
}

func (a *appScreens) openPeriodPicker() tea.Cmd {
	ctx, deps := a.ctx, a.deps
	now := deps.Now().In(deps.Location)
	items := make([]pickerItem, 0, len(period.Presets()))
	for _, p := range period.Presets() {
		start, end, _ := period.Bounds(p, now)
		items = append(items, pickerItem{
			id:    strconv.Itoa(int(p)),
			label: p.String(),
			desc:  start.Format(deps.DateFormat) + " – " + end.Format(deps.DateFormat),
		})
	}
	picker := newPicker("Counting period", items, func(it pickerItem) tea.Cmd {
		return func() tea.Msg {
			n, _ := strconv.Atoi(it.id)
			f, ok := period.Filter(period.Preset(n), now)
			if !ok {
				return errMsg{fmt.Errorf("unknown period %q", it.label)}
			}
			if err := deps.Provider.SaveDateFilter(ctx, f); err != nil {
				return errMsg{fmt.Errorf("save period: %w", err)}
			}
			return nil
		}
	})
	return func() tea.Msg { return pushScreenMsg{screen: picker} }
}

// view

func (a *appScreens) View(width, height int) string {
	var b strings.Builder
	company := "no company"
	if a.state.Company != nil {
		company = a.state.Company.Name
	}
	b.WriteString(titleStyle.Render("stockcheck") + mutedStyle.Render(" · "+company) + "\n")
	for i, t := range tabOrder {
		label := fmt.Sprintf("%d %s", i+1, t)
		if i == a.tab {
			b.WriteString(activeTab.Render(label))
		} else {
			b.WriteString(tabStyle.Render(label))
		}
	}
	b.WriteString("\n\n")

	if a.state.Loading {
		b.WriteString(a.spinner.View() + " Loading settings...\n")
		return b.String()
	}

	switch a.current() {
	case settings.ScreenCheckList:
		b.WriteString(a.renderCheckList())
	case settings.ScreenProductList:
		b.WriteString(a.renderProductList(height))
	case settings.ScreenSettings:
		b.WriteString(a.renderSettings())
	}
	b.WriteString("\n" + mutedStyle.Render("[tab] Switch  [q] Quit"))
	return b.String()
}

func (a *appScreens) filterSummary() (string, string) {
	group := "All groups"
	if a.state.Filter != nil {
		group = a.state.Filter.FilterName
	}
	dates := "Any date"
	if a.state.DateFilter != nil {
		dates = period.Label(*a.state.DateFilter, a.deps.DateFormat, a.deps.Location)
	}
	return group, dates
}

func (a *appScreens) renderCheckList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Check list") + "\n")
	company := "(none, open Settings)"
	if a.state.Company != nil {
		company = a.state.Company.Name
	}
	group, dates := a.filterSummary()
	fmt.Fprintf(&b, "Company: %s\n", company)
	fmt.Fprintf(&b, "Group:   %s\n", group)
	fmt.Fprintf(&b, "Period:  %s\n", dates)
	b.WriteString("\n[f] Filter group  [p] Period  [c] Clear filter  [x] Clear period\n")
	return b.String()
}

func (a *appScreens) renderProductList(height int) string {
	var b strings.Builder
	group, dates := a.filterSummary()
	b.WriteString(titleStyle.Render("Products") + mutedStyle.Render(" · "+group+" · "+dates) + "\n")
	if a.state.Company == nil {
		b.WriteString("Choose a company in Settings first.\n")
		return b.String()
	}
	if len(a.products) == 0 {
		b.WriteString("  (no products match)\n")
	}
	start, end := visibleWindow(a.productCursor, len(a.products), height-8)
	for i := start; i < end; i++ {
		p := a.products[i]
		line := fmt.Sprintf("%-28s %-12s %8.2f %-3s %s",
			p.Name, p.GroupName, p.Quantity, p.Unit, p.CountedAt.In(a.deps.Location).Format(a.deps.DateFormat))
		if i == a.productCursor {
			b.WriteString(selectedStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n[enter] Details  [f] Filter group  [p] Period  [c] Clear filter  [x] Clear period\n")
	return b.String()
}

func (a *appScreens) renderSettings() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n")
	b.WriteString("Company\n")
	if len(a.companies) == 0 {
		b.WriteString("  (no companies)\n")
	}
	for i, c := range a.companies {
		marker := " "
		if i == a.companyCursor {
			marker = "▶"
		}
		active := ""
		if a.state.Company != nil && a.state.Company.ID == c.ID {
			active = " ✓"
		}
		fmt.Fprintf(&b, "%s %s%s\n", marker, c.Name, active)
	}
	b.WriteString("\n[enter] Use company\n")
	return b.String()
}

// visibleWindow keeps the cursor on screen when rows exceed the height.
func visibleWindow(cursor, total, rows int) (int, int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}
