package voucher

import (
	"context"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
)

// Store persists the vouchers table document for a company scope.
type Store struct {
	docs docstore.Store
}

// NewStore constructs a Store over the given document store.
func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

// List returns the full voucher history. A missing table yields nil.
func (s *Store) List(ctx context.Context, company string) ([]Voucher, error) {
	return docstore.ReadRecords[Voucher](ctx, s.docs, docstore.TableVouchers, company)
}

// Replace overwrites the whole vouchers table.
func (s *Store) Replace(ctx context.Context, company string, vouchers []Voucher) error {
	return docstore.WriteRecords(ctx, s.docs, docstore.TableVouchers, vouchers, company)
}
