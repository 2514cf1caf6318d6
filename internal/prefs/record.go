// Package prefs is the file-backed selection store: one JSON document per
// entity under a directory, replaced atomically on every save.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/stockcheck/internal/database/repository"
)

// ErrCorrupt is returned when a stored document cannot be decoded.
var ErrCorrupt = errors.New("prefs: corrupt record")

// Record stores a single value of T in dir/name.json.
type Record[T any] struct {
	path string
}

func NewRecord[T any](dir, name string) *Record[T] {
	return &Record[T]{path: filepath.Join(dir, name+".json")}
}

// Path returns the backing file.
func (r *Record[T]) Path() string { return r.path }

// Get returns nil, nil when nothing has been saved.
func (r *Record[T]) Get(ctx context.Context) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(r.path), err)
	}
	return &v, nil
}

func (r *Record[T]) Save(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}

// Delete removes the record; deleting an absent record is not an error.
func (r *Record[T]) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Stores bundles the three selection records kept under one directory.
type Stores struct {
	Company    *Record[repository.CompanySelection]
	Filter     *Record[repository.ProductFilter]
	DateFilter *Record[repository.DateFilter]
}

func NewStores(dir string) Stores {
	return Stores{
		Company:    NewRecord[repository.CompanySelection](dir, "company"),
		Filter:     NewRecord[repository.ProductFilter](dir, "filter"),
		DateFilter: NewRecord[repository.DateFilter](dir, "date_filter"),
	}
}
