package ledger

import (
	"context"
	"fmt"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// Store persists the ledgers table document for a company scope.
type Store struct {
	docs docstore.Store
}

// NewStore constructs a Store over the given document store.
func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// List returns all ledgers for the company. A missing table yields nil.
func (s *Store) List(ctx context.Context, company string) ([]Ledger, error) {
	return docstore.ReadRecords[Ledger](ctx, s.docs, docstore.TableLedgers, company)
}

// Replace overwrites the whole ledgers table.
func (s *Store) Replace(ctx context.Context, company string, ledgers []Ledger) error {
	return docstore.WriteRecords(ctx, s.docs, docstore.TableLedgers, ledgers, company)
}

// Get resolves a single ledger by name.
func (s *Store) Get(ctx context.Context, company, name string) (Ledger, error) {
	ledgers, err := s.List(ctx, company)
	if err != nil {
		return Ledger{}, err
	}
	for _, l := range ledgers {
		if l.Name == name {
			return l, nil
		}
	}
	return Ledger{}, fmt.Errorf("ledger %q: %w", name, shared.ErrNotFound)
}
