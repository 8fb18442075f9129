package observability

import (
	"context"

	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
)

// InstrumentedStore wraps a document store and counts every operation.
type InstrumentedStore struct {
	next    docstore.Store
	metrics *Metrics
}

// InstrumentStore decorates the given store with operation counters.
func InstrumentStore(next docstore.Store, metrics *Metrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

func (s *InstrumentedStore) Read(ctx context.Context, table, scope string) ([]byte, error) {
	payload, err := s.next.Read(ctx, table, scope)
	s.metrics.ObserveStoreOp(table, "read", err)
	return payload, err
}

func (s *InstrumentedStore) Write(ctx context.Context, table string, payload []byte, scope string) error {
	err := s.next.Write(ctx, table, payload, scope)
	s.metrics.ObserveStoreOp(table, "write", err)
	return err
}
