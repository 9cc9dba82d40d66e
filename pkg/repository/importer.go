package repository

import (
	"context"

	"gorm.io/gorm"

	"droscher.com/FestivalGargoyle/pkg/model"
)

// ImportStore is the slice of the repository the feed importer writes
// through. Satisfied by *Repository; ImportTransaction hands the importer a
// transaction-scoped view so a half-written feed never becomes visible.
type ImportStore interface {
	UpsertBrewery(ctx context.Context, brewery model.Brewery) (*model.Brewery, error)
	UpsertBeer(ctx context.Context, beer model.Beer) (*model.Beer, error)
	DeleteAllBeers(ctx context.Context) error
	DeleteAllBreweries(ctx context.Context) error
	ImportTransaction(ctx context.Context, fn func(tx ImportStore) error) error
}

func (r *Repository) ImportTransaction(ctx context.Context, fn func(tx ImportStore) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{DB: tx, Logger: r.Logger})
	})
}
