package settings

import (
	"context"

	"github.com/jask/stockcheck/internal/database/repository"
)

// Store persists a single current value of T. Get returns nil, nil when
// nothing is stored.
type Store[T any] interface {
	Get(ctx context.Context) (*T, error)
	Save(ctx context.Context, v T) error
	Delete(ctx context.Context) error
}

// Stores groups the per-entity stores the provider writes through.
type Stores struct {
	Company    Store[repository.CompanySelection]
	Filter     Store[repository.ProductFilter]
	DateFilter Store[repository.DateFilter]
}

// Screen names a navigation target.
type Screen string

const (
	ScreenAppScreens  Screen = "AppScreens"
	ScreenProduct     Screen = "ProductScreen"
	ScreenCheckList   Screen = "CheckList"
	ScreenProductList Screen = "ProductList"
	ScreenSettings    Screen = "Settings"
)

// Params are passed along with a navigation request.
type Params map[string]string

// Navigator moves the screen stack. Navigate must not block.
type Navigator interface {
	Navigate(screen Screen, params Params)
}

// Kind is a notification style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a short toast.
type Notification struct {
	Kind  Kind
	Title string
	Body  string
}

// Notifier shows toasts. Show must not block.
type Notifier interface {
	Show(n Notification)
}
