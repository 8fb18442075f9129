// Package docstore implements the whole-table document store the accounting
// core persists through. Each logical table (ledgers, vouchers, stock items)
// is a single JSON document per company scope; every mutation is a full
// read-modify-write of that document.
//
// The store provides no isolation: two concurrent read-modify-write cycles
// against the same table clobber each other, last write wins. Callers must
// hold the single-writer assumption.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is the minimal contract the core consumes.
// Read returns nil with no error when the table document is absent.
type Store interface {
	Read(ctx context.Context, table, scope string) ([]byte, error)
	Write(ctx context.Context, table string, payload []byte, scope string) error
}

// Common logical table names.
const (
	TableLedgers    = "ledgers"
	TableVouchers   = "vouchers"
	TableStockItems = "stock_items"
)

// ReadRecords reads and decodes a table document into a record slice.
// An absent document yields a nil slice.
func ReadRecords[T any](ctx context.Context, s Store, table, scope string) ([]T, error) {
	raw, err := s.Read(ctx, table, scope)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("docstore: decode %s: %w", table, err)
	}
	return records, nil
}

// WriteRecords encodes a record slice and overwrites the table document.
func WriteRecords[T any](ctx context.Context, s Store, table string, records []T, scope string) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", table, err)
	}
	return s.Write(ctx, table, raw, scope)
}
