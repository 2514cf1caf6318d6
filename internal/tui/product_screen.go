package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/settings"
)

// productScreen is the ProductScreen route: one product's details.
type productScreen struct {
	ctx     context.Context
	deps    Deps
	id      string
	product *repository.Product
	loaded  bool
}

func newProductScreen(ctx context.Context, deps Deps, id string) *productScreen {
	return &productScreen{ctx: ctx, deps: deps, id: id}
}

func (s *productScreen) Title() string { return string(settings.ScreenProduct) }

func (s *productScreen) Init() tea.Cmd {
	ctx, products, id := s.ctx, s.deps.Catalog.Products, s.id
	return func() tea.Msg {
		p, err := products.Get(ctx, id)
		return productMsg{id: id, product: p, err: err}
	}
}

func (s *productScreen) Update(msg tea.Msg) (Screen, tea.Cmd, bool) {
	switch m := msg.(type) {
	case productMsg:
		if m.id != s.id {
			return s, nil, false
		}
		s.loaded = true
		if m.err != nil {
			return s, reportErr(fmt.Errorf("load product: %w", m.err)), false
		}
		s.product = m.product
	case tea.KeyMsg:
		switch m.String() {
		case "esc", "backspace", "q":
			return s, nil, true
		}
	}
	return s, nil, false
}

func (s *productScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Product") + "\n\n")
	switch {
	case !s.loaded:
		b.WriteString("Loading...\n")
	case s.product == nil:
		b.WriteString(fmt.Sprintf("Product %s not found.\n", s.id))
	default:
		p := s.product
		fmt.Fprintf(&b, "Name:     %s\n", p.Name)
		fmt.Fprintf(&b, "Group:    %s\n", p.GroupName)
		fmt.Fprintf(&b, "Quantity: %.2f %s\n", p.Quantity, p.Unit)
		fmt.Fprintf(&b, "Counted:  %s\n", p.CountedAt.In(s.deps.Location).Format(s.deps.DateFormat+" 15:04"))
	}
	b.WriteString("\n" + mutedStyle.Render("[esc] Back"))
	return b.String()
}
