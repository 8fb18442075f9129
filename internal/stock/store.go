package stock

import (
	"context"
	"fmt"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Store persists the stock_items table document for a company scope.
type Store struct {
	docs docstore.Store
}

// NewStore constructs a Store over the given document store.
func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// List returns all stock items for the company. A missing table yields nil.
func (s *Store) List(ctx context.Context, company string) ([]Item, error) {
	return docstore.ReadRecords[Item](ctx, s.docs, docstore.TableStockItems, company)
}

// Replace overwrites the whole stock_items table.
func (s *Store) Replace(ctx context.Context, company string, items []Item) error {
	return docstore.WriteRecords(ctx, s.docs, docstore.TableStockItems, items, company)
}

// Get resolves a single item by name.
func (s *Store) Get(ctx context.Context, company, name string) (Item, error) {
	items, err := s.List(ctx, company)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.Name == name {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("stock item %q: %w", name, shared.ErrNotFound)
}
