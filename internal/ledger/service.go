package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
)

var (
	// ErrDuplicateName rejects a second ledger with the same account name.
	ErrDuplicateName = errors.New("ledger: name already exists")
	// ErrNegativeBalance rejects a negative opening magnitude.
	ErrNegativeBalance = errors.New("ledger: balance must not be negative")
)

// Service handles ledger master maintenance. Balances are only seeded
// here; posting moves them afterwards.
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

// List returns all ledgers for the company scope.
func (s *Service) List(ctx context.Context, company string) ([]Ledger, error) {
	return s.store.List(ctx, company)
}

// Get resolves one ledger by name.
func (s *Service) Get(ctx context.Context, company, name string) (Ledger, error) {
	return s.store.Get(ctx, company, name)
}

func (s *Service) validate(l Ledger) error {
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("ledger: name is required")
	}
	if strings.TrimSpace(l.Group) == "" {
		return errors.New("ledger: group is required")
	}
	if l.Balance < 0 {
		return ErrNegativeBalance
	}
	return nil
}

// Create appends a new ledger master.
func (s *Service) Create(ctx context.Context, company string, l Ledger) (Ledger, error) {
	if err := s.validate(l); err != nil {
		return Ledger{}, err
	}
	ledgers, err := s.store.List(ctx, company)
	if err != nil {
		return Ledger{}, err
	}
	for _, existing := range ledgers {
		if existing.Name == l.Name {
			return Ledger{}, ErrDuplicateName
		}
	}
	now := s.now().UTC()
	l.ID = uuid.NewString()
	if l.Type == "" {
		l.Type = TypeDebit
	}
	l.CreatedAt = now
	l.UpdatedAt = now
	ledgers = append(ledgers, l)
	if err := s.store.Replace(ctx, company, ledgers); err != nil {
		return Ledger{}, err
	}
	s.record(ctx, "ledger.create", company, l)
	return l, nil
}

// Update replaces master fields of an existing ledger. Balance and Type
// are left untouched; they belong to the posting engine.
func (s *Service) Update(ctx context.Context, company string, l Ledger) (Ledger, error) {
	if l.ID == "" {
		return Ledger{}, errors.New("ledger: id required")
	}
	ledgers, err := s.store.List(ctx, company)
	if err != nil {
		return Ledger{}, err
	}
	for i := range ledgers {
		if ledgers[i].ID != l.ID {
			continue
		}
		ledgers[i].Name = l.Name
		ledgers[i].Group = l.Group
		ledgers[i].GSTIN = l.GSTIN
		ledgers[i].Registration = l.Registration
		ledgers[i].SameState = l.SameState
		ledgers[i].UpdatedAt = s.now().UTC()
		if err := s.validate(ledgers[i]); err != nil {
			return Ledger{}, err
		}
		if err := s.store.Replace(ctx, company, ledgers); err != nil {
			return Ledger{}, err
		}
		s.record(ctx, "ledger.update", company, ledgers[i])
		return ledgers[i], nil
	}
	return Ledger{}, fmt.Errorf("ledger %q: %w", l.ID, shared.ErrNotFound)
}

func (s *Service) record(ctx context.Context, action, company string, l Ledger) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "ledger",
		EntityID: l.ID,
		Company:  company,
		Meta:     map[string]any{"name": l.Name, "group": l.Group},
		At:       s.now(),
	})
}
