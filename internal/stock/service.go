package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

// ErrDuplicateName rejects a second item with the same name.
var ErrDuplicateName = errors.New("stock: item name already exists")

// Service handles stock item master maintenance.
type Service struct {
	store *Store
	audit shared.AuditPort
	now   func() time.Time
}

// NewService builds Service.
func NewService(store *Store, audit shared.AuditPort) *Service {
	return &Service{store: store, audit: audit, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns all stock items for the company scope.
func (s *Service) List(ctx context.Context, company string) ([]Item, error) {
	return s.store.List(ctx, company)
}

func (s *Service) validate(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return errors.New("stock: item name is required")
	}
	if it.OpeningQty < 0 || it.OpeningRate < 0 {
		return errors.New("stock: opening figures must not be negative")
	}
	if it.TaxRate < 0 || it.TaxRate > 100 {
		return errors.New("stock: tax rate must be between 0 and 100")
	}
	return nil
}

// Create appends a new stock item master. Opening value is derived from
// quantity and rate.
func (s *Service) Create(ctx context.Context, company string, it Item) (Item, error) {
	if err := s.validate(it); err != nil {
		return Item{}, err
	}
	items, err := s.store.List(ctx, company)
	if err != nil {
		return Item{}, err
	}
	for _, existing := range items {
		if existing.Name == it.Name {
			return Item{}, ErrDuplicateName
		}
	}
	now := s.now().UTC()
	it.ID = uuid.NewString()
	it.OpeningValue = it.OpeningQty * it.OpeningRate
	it.CreatedAt = now
	it.UpdatedAt = now
	items = append(items, it)
	if err := s.store.Replace(ctx, company, items); err != nil {
		return Item{}, err
	}
	s.record(ctx, "stock.create", company, it)
	return it, nil
}

// Update replaces master fields of an existing item. Running valuation
// state belongs to the posting engine and is left untouched.
func (s *Service) Update(ctx context.Context, company string, it Item) (Item, error) {
	if it.ID == "" {
		return Item{}, errors.New("stock: id required")
	}
	items, err := s.store.List(ctx, company)
	if err != nil {
		return Item{}, err
	}
	for i := range items {
		if items[i].ID != it.ID {
			continue
		}
		items[i].Name = it.Name
		items[i].Unit = it.Unit
		items[i].TaxRate = it.TaxRate
		items[i].HSNCode = it.HSNCode
		items[i].UpdatedAt = s.now().UTC()
		if err := s.validate(items[i]); err != nil {
			return Item{}, err
		}
		if err := s.store.Replace(ctx, company, items); err != nil {
			return Item{}, err
		}
		s.record(ctx, "stock.update", company, items[i])
		return items[i], nil
	}
	return Item{}, fmt.Errorf("stock item %q: %w", it.ID, shared.ErrNotFound)
}

func (s *Service) record(ctx context.Context, action, company string, it Item) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "stock_item",
		EntityID: it.ID,
		Company:  company,
		Meta:     map[string]any{"name": it.Name, "hsn": it.HSNCode},
		At:       s.now(),
	})
}
