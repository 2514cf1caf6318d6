package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/settings"
)

// Screen is one entry of the navigation stack. Update returns pop=true when the
// screen wants to be removed.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd, bool)
	View(width, height int) string
	Title() string
}

type CompanyLister interface {
	List(ctx context.Context) ([]repository.Company, error)
}

type GroupLister interface {
	List(ctx context.Context) ([]repository.ProductGroup, error)
}

type ProductFinder interface {
	List(ctx context.Context, f repository.ProductFilters) ([]repository.Product, error)
	Get(ctx context.Context, id string) (*repository.Product, error)
}

// Catalog is the read side the screens browse.
type Catalog struct {
	Companies CompanyLister
	Groups    GroupLister
	Products  ProductFinder
}

// Deps are shared by every screen under the router.
type Deps struct {
	Provider   *settings.Provider
	Bridge     *Bridge
	Catalog    Catalog
	Location   *time.Location
	DateFormat string
	ToastTTL   time.Duration
	Now        func() time.Time
}

type screenStack struct {
	items []Screen
}

func (s *screenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

// Pop never removes the root screen.
func (s *screenStack) Pop() Screen {
	if len(s.items) <= 1 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s screenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s screenStack) Len() int { return len(s.items) }

func (s *screenStack) replaceTop(screen Screen) {
	if screen != nil && len(s.items) > 0 {
		s.items[len(s.items)-1] = screen
	}
}

// Router is the composition root of the UI. Its route table is AppScreens
// (initial; hosts CheckList, ProductList and Settings) and ProductScreen. It
// owns the settings provider subscription for its whole lifetime.
type Router struct {
	ctx   context.Context
	deps  Deps
	root  *appScreens
	stack screenStack

	toast    *settings.Notification
	toastSeq int
	status   string
	isErr    bool

	width, height int
	unsubscribe   func()
}

func NewRouter(ctx context.Context, deps Deps) *Router {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.DateFormat == "" {
		deps.DateFormat = "02/01/2006"
	}
	if deps.ToastTTL <= 0 {
		deps.ToastTTL = 3 * time.Second
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ctx = settings.WithContext(ctx, deps.Provider)
	r := &Router{ctx: ctx, deps: deps}
	r.root = newAppScreens(ctx, deps, deps.Provider.Snapshot())
	r.stack.Push(r.root)
	r.unsubscribe = deps.Provider.Subscribe(deps.Bridge.Publish)
	return r
}

// Close drops the provider subscription and releases the bridge.
func (r *Router) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.deps.Bridge.Close()
}

func (r *Router) Init() tea.Cmd {
	return tea.Batch(r.deps.Bridge.Wait(), r.initialize(), r.root.Init())
}

func (r *Router) initialize() tea.Cmd {
	return func() tea.Msg {
		r.deps.Provider.Initialize(r.ctx)
		return nil
	}
}

func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case bridgeMsg:
		_, cmd := r.Update(m.msg)
		return r, tea.Batch(cmd, r.deps.Bridge.Wait())
	case tea.WindowSizeMsg:
		r.width, r.height = m.Width, m.Height
		return r, nil
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return r, tea.Quit
		}
		r.status = ""
		return r, r.updateTop(m)
	case navigateMsg:
		return r, r.navigate(m.screen, m.params)
	case pushScreenMsg:
		r.stack.Push(m.screen)
		return r, m.screen.Init()
	case toastMsg:
		n := m.n
		r.toast = &n
		r.toastSeq++
		seq := r.toastSeq
		return r, tea.Tick(r.deps.ToastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
	case toastExpiredMsg:
		if m.seq == r.toastSeq {
			r.toast = nil
		}
		return r, nil
	case statusMsg:
		r.status, r.isErr = string(m), false
		return r, nil
	case errMsg:
		r.status, r.isErr = "error: "+m.Error(), true
		return r, nil
	}
	return r, r.broadcast(msg)
}

// updateTop sends msg to the top screen only.
func (r *Router) updateTop(msg tea.Msg) tea.Cmd {
	top := r.stack.Top()
	next, cmd, pop := top.Update(msg)
	if pop {
		r.stack.Pop()
		return cmd
	}
	r.stack.replaceTop(next)
	return cmd
}

// broadcast delivers a non-key message to every screen; each ignores what it
// does not own.
func (r *Router) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, s := range r.stack.items {
		next, cmd, _ := s.Update(msg)
		if next != nil {
			r.stack.items[i] = next
		}
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (r *Router) popToRoot() {
	for r.stack.Pop() != nil {
	}
}

func (r *Router) navigate(screen settings.Screen, params settings.Params) tea.Cmd {
	switch screen {
	case settings.ScreenAppScreens:
		r.popToRoot()
		return nil
	case settings.ScreenCheckList, settings.ScreenProductList, settings.ScreenSettings:
		r.popToRoot()
		return r.root.selectTab(screen)
	case settings.ScreenProduct:
		s := newProductScreen(r.ctx, r.deps, params["productID"])
		r.stack.Push(s)
		return s.Init()
	default:
		r.status, r.isErr = fmt.Sprintf("error: unknown screen %q", screen), true
		return nil
	}
}

// Current names the visible route, e.g. "AppScreens/Settings".
func (r *Router) Current() string {
	if r.stack.Len() == 1 {
		return string(settings.ScreenAppScreens) + "/" + string(r.root.current())
	}
	return r.stack.Top().Title()
}

func (r *Router) View() string {
	var b strings.Builder
	b.WriteString(r.stack.Top().View(r.width, r.height))
	if r.toast != nil {
		style := toastSuccess
		if r.toast.Kind == settings.KindError {
			style = toastError
		}
		b.WriteString("\n")
		b.WriteString(style.Render(titleStyle.Render(r.toast.Title) + "\n" + r.toast.Body))
	}
	if r.status != "" {
		b.WriteString("\n")
		if r.isErr {
			b.WriteString(errorStyle.Render(r.status))
		} else {
			b.WriteString(mutedStyle.Render(r.status))
		}
	}
	return b.String()
}
