// Package settings holds the user's current selections (company, product
// filter, counting period), writes them through to a Store and publishes every
// change to subscribers.
//
// Two error policies coexist. SaveCompany, SaveFilter, DeleteFilter and
// SaveDateFilter return storage failures to the caller. GetCompany and
// DeleteDateFilter log them and carry on, which is why they have no error
// result.
package settings

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jask/stockcheck/internal/database/repository"
	"github.com/jask/stockcheck/internal/metrics"
)

// FilterInput is the shape the group picker hands over.
type FilterInput struct {
	ID   string
	Name string
}

// State is a point-in-time copy of the selections. Nil means "not set".
type State struct {
	Company    *repository.CompanySelection
	Filter     *repository.ProductFilter
	DateFilter *repository.DateFilter
	Loading    bool
}

func (s State) clone() State {
	out := State{Loading: s.Loading}
	if s.Company != nil {
		c := *s.Company
		out.Company = &c
	}
	if s.Filter != nil {
		f := *s.Filter
		out.Filter = &f
	}
	if s.DateFilter != nil {
		d := *s.DateFilter
		out.DateFilter = &d
	}
	return out
}

const (
	opSaveCompany      = "save_company"
	opGetCompany       = "get_company"
	opSaveFilter       = "save_filter"
	opDeleteFilter     = "delete_filter"
	opSaveDateFilter   = "save_date_filter"
	opDeleteDateFilter = "delete_date_filter"
)

var (
	noCompanyNotice = Notification{
		Kind:  KindError,
		Title: "Choose a unit first!",
		Body:  "Pick a company below to continue",
	}
	filtersClearedNotice = Notification{
		Kind:  KindSuccess,
		Title: "Filters cleared!",
		Body:  "All products will be listed",
	}
)

// Provider owns the selection state. It is safe for concurrent use, but
// operations are not serialized: concurrent writers race and the one whose
// storage call finishes last wins.
type Provider struct {
	stores Stores
	nav    Navigator
	notify Notifier
	log    *zap.Logger

	// pub serializes update+publish so subscribers see changes in order
	pub     sync.Mutex
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	initOnce sync.Once
}

// New builds a provider. Loading starts true and stays true until the first
// GetCompany finishes.
func New(stores Stores, nav Navigator, notify Notifier, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		stores: stores,
		nav:    nav,
		notify: notify,
		log:    log.Named("settings"),
		state:  State{Loading: true},
		subs:   make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (p *Provider) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.clone()
}

// Subscribe registers fn for every state change and returns a func that
// removes it. fn runs on the goroutine that made the change.
func (p *Provider) Subscribe(fn func(State)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

// Initialize loads the persisted company. Only the first call does anything.
func (p *Provider) Initialize(ctx context.Context) {
	p.initOnce.Do(func() { p.GetCompany(ctx) })
}

func (p *Provider) SaveCompany(ctx context.Context, c repository.CompanySelection) error {
	start := time.Now()
	if err := p.stores.Company.Save(ctx, c); err != nil {
		metrics.RecordOperation(opSaveCompany, metrics.ResultError, time.Since(start))
		return err
	}
	metrics.RecordOperation(opSaveCompany, metrics.ResultOK, time.Since(start))
	p.update(func(s *State) { s.Company = &c })
	return nil
}

// GetCompany loads the persisted company into state. When none is stored the
// user is warned and sent to Settings. Loading is cleared on every outcome.
func (p *Provider) GetCompany(ctx context.Context) {
	var loaded *repository.CompanySelection
	defer func() {
		p.update(func(s *State) {
			if loaded != nil {
				s.Company = loaded
			}
			s.Loading = false
		})
	}()

	start := time.Now()
	c, err := p.stores.Company.Get(ctx)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordOperation(opGetCompany, metrics.ResultIgnored, elapsed)
		p.log.Error("load company", zap.String("operation", opGetCompany), zap.Error(err))
		return
	}
	if c == nil {
		metrics.RecordOperation(opGetCompany, metrics.ResultEmpty, elapsed)
		p.notify.Show(noCompanyNotice)
		p.navigate(ScreenSettings, nil)
		return
	}
	metrics.RecordOperation(opGetCompany, metrics.ResultOK, elapsed)
	loaded = c
}

// SaveFilter stores in as the product filter, renaming ID/Name to
// FilterID/FilterName.
func (p *Provider) SaveFilter(ctx context.Context, in FilterInput) error {
	f := repository.ProductFilter{FilterID: in.ID, FilterName: in.Name}
	start := time.Now()
	if err := p.stores.Filter.Save(ctx, f); err != nil {
		metrics.RecordOperation(opSaveFilter, metrics.ResultError, time.Since(start))
		return err
	}
	metrics.RecordOperation(opSaveFilter, metrics.ResultOK, time.Since(start))
	p.update(func(s *State) { s.Filter = &f })
	return nil
}

// DeleteFilter clears the product filter, confirms with a toast and lands on
// ProductList by way of CheckList.
func (p *Provider) DeleteFilter(ctx context.Context) error {
	start := time.Now()
	if err := p.stores.Filter.Delete(ctx); err != nil {
		metrics.RecordOperation(opDeleteFilter, metrics.ResultError, time.Since(start))
		return err
	}
	metrics.RecordOperation(opDeleteFilter, metrics.ResultOK, time.Since(start))
	p.update(func(s *State) { s.Filter = nil })
	p.notify.Show(filtersClearedNotice)
	p.navigate(ScreenCheckList, nil)
	p.navigate(ScreenProductList, nil)
	return nil
}

// SaveDateFilter stores the counting period and opens ProductList.
func (p *Provider) SaveDateFilter(ctx context.Context, f repository.DateFilter) error {
	start := time.Now()
	if err := p.stores.DateFilter.Save(ctx, f); err != nil {
		metrics.RecordOperation(opSaveDateFilter, metrics.ResultError, time.Since(start))
		return err
	}
	metrics.RecordOperation(opSaveDateFilter, metrics.ResultOK, time.Since(start))
	p.update(func(s *State) { s.DateFilter = &f })
	p.navigate(ScreenProductList, nil)
	return nil
}

// DeleteDateFilter clears the counting period. On storage failure the current
// period is kept and the error only reaches the log.
func (p *Provider) DeleteDateFilter(ctx context.Context) {
	start := time.Now()
	if err := p.stores.DateFilter.Delete(ctx); err != nil {
		metrics.RecordOperation(opDeleteDateFilter, metrics.ResultIgnored, time.Since(start))
		p.log.Error("delete date filter", zap.String("operation", opDeleteDateFilter), zap.Error(err))
		return
	}
	metrics.RecordOperation(opDeleteDateFilter, metrics.ResultOK, time.Since(start))
	p.update(func(s *State) { s.DateFilter = nil })
}

func (p *Provider) navigate(screen Screen, params Params) {
	metrics.Navigations.WithLabelValues(string(screen)).Inc()
	p.nav.Navigate(screen, params)
}

// update applies fn and publishes the result. Subscribers may call Snapshot
// but must not start another operation synchronously.
func (p *Provider) update(fn func(*State)) {
	p.pub.Lock()
	defer p.pub.Unlock()

	p.mu.Lock()
	fn(&p.state)
	snapshot := p.state.clone()
	subs := make([]func(State), 0, len(p.subs))
	for _, s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
