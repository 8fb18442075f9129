package voucher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
)

const balanceEpsilon = 1e-6

// ErrUnbalanced rejects a voucher whose debit and credit totals differ.
// Only raised when strict balance validation is enabled.
var ErrUnbalanced = errors.New("voucher: debit and credit totals differ")

// Service is the posting engine. It applies a voucher's ledger and
// inventory impact with multiplier +1 and reverses it with -1, so a
// post followed by a remove restores every touched balance, provided no
// other mutation against the same tables interleaves. The document store
// gives no isolation; callers hold the single-writer assumption.
type Service struct {
	store   *Store
	ledgers *ledger.Store
	items   *stock.Store
	logger  *slog.Logger
	audit   shared.AuditPort
	strict  bool
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// StrictBalance rejects unbalanced vouchers at post time. Off by
	// default: the books historically accepted whatever the screens sent.
	StrictBalance bool
}

// NewService builds Service.
func NewService(store *Store, ledgers *ledger.Store, items *stock.Store, logger *slog.Logger, audit shared.AuditPort, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, ledgers: ledgers, items: items, logger: logger, audit: audit, strict: cfg.StrictBalance}
}

// List returns the voucher history for the company scope.
func (s *Service) List(ctx context.Context, company string) ([]Voucher, error) {
	return s.store.List(ctx, company)
}

// Get resolves a voucher by identity.
func (s *Service) Get(ctx context.Context, company, id string) (Voucher, error) {
	vouchers, err := s.store.List(ctx, company)
	if err != nil {
		return Voucher{}, err
	}
	for _, v := range vouchers {
		if v.ID == id {
			return v, nil
		}
	}
	return Voucher{}, fmt.Errorf("voucher %q: %w", id, shared.ErrNotFound)
}

func (s *Service) validate(v Voucher) error {
	if v.Type == "" {
		return errors.New("voucher: type is required")
	}
	if len(v.Rows) == 0 {
		return errors.New("voucher: at least one row is required")
	}
	if s.strict && math.Abs(v.TotalDebit()-v.TotalCredit()) > balanceEpsilon {
		return ErrUnbalanced
	}
	return nil
}

// Post appends the voucher to history and applies its impact.
func (s *Service) Post(ctx context.Context, company string, v Voucher) (Voucher, error) {
	if err := s.validate(v); err != nil {
		return Voucher{}, err
	}
	if v.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Voucher{}, fmt.Errorf("voucher: new id: %w", err)
		}
		v.ID = id.String()
	}
	vouchers, err := s.store.List(ctx, company)
	if err != nil {
		return Voucher{}, err
	}
	vouchers = append(vouchers, v)
	if err := s.store.Replace(ctx, company, vouchers); err != nil {
		return Voucher{}, err
	}
	if err := s.applyImpact(ctx, company, v, 1); err != nil {
		return Voucher{}, err
	}
	s.record(ctx, "voucher.post", company, v)
	return v, nil
}

// Remove reverses the voucher's impact and deletes it from history.
func (s *Service) Remove(ctx context.Context, company, id string) error {
	vouchers, err := s.store.List(ctx, company)
	if err != nil {
		return err
	}
	idx := -1
	for i := range vouchers {
		if vouchers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("voucher %q: %w", id, shared.ErrNotFound)
	}
	if err := s.applyImpact(ctx, company, vouchers[idx], -1); err != nil {
		return err
	}
	removed := vouchers[idx]
	vouchers = append(vouchers[:idx], vouchers[idx+1:]...)
	if err := s.store.Replace(ctx, company, vouchers); err != nil {
		return err
	}
	s.record(ctx, "voucher.remove", company, removed)
	return nil
}

// Replace reverses the stored version of the voucher, writes the new
// version and applies it. A voucher not found in history is posted as new.
func (s *Service) Replace(ctx context.Context, company string, v Voucher) (Voucher, error) {
	if v.ID == "" {
		return s.Post(ctx, company, v)
	}
	if err := s.validate(v); err != nil {
		return Voucher{}, err
	}
	vouchers, err := s.store.List(ctx, company)
	if err != nil {
		return Voucher{}, err
	}
	idx := -1
	for i := range vouchers {
		if vouchers[i].ID == v.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s.Post(ctx, company, v)
	}
	if err := s.applyImpact(ctx, company, vouchers[idx], -1); err != nil {
		return Voucher{}, err
	}
	vouchers[idx] = v
	if err := s.store.Replace(ctx, company, vouchers); err != nil {
		return Voucher{}, err
	}
	if err := s.applyImpact(ctx, company, v, 1); err != nil {
		return Voucher{}, err
	}
	s.record(ctx, "voucher.replace", company, v)
	return v, nil
}

// RemoveMany deletes vouchers one by one, best effort. It returns the
// count actually completed; failed removals leave their voucher and its
// impact untouched while the rest of the batch proceeds.
func (s *Service) RemoveMany(ctx context.Context, company string, ids []string) (int, error) {
	completed := 0
	var errs []error
	for _, id := range ids {
		if err := s.Remove(ctx, company, id); err != nil {
			errs = append(errs, err)
			continue
		}
		completed++
	}
	if len(errs) > 0 {
		s.logger.Warn("bulk voucher removal partially completed",
			slog.String("company", company),
			slog.Int("completed", completed),
			slog.Int("requested", len(ids)))
		return completed, errors.Join(errs...)
	}
	return completed, nil
}

// applyImpact moves every row's amount through its ledger and, for Sales
// and Purchase vouchers, through the stock items referenced by the row
// allocations. Rows naming an unresolvable ledger or item are skipped
// without error; the remaining rows still apply.
func (s *Service) applyImpact(ctx context.Context, company string, v Voucher, multiplier float64) error {
	ledgers, err := s.ledgers.List(ctx, company)
	if err != nil {
		return err
	}
	ledgerIdx := ledger.Index(ledgers)
	for _, row := range v.Rows {
		account, ok := ledgerIdx[row.LedgerName]
		if !ok {
			s.logger.DebugContext(ctx, "voucher row skipped, ledger unresolved",
				slog.String("voucher", v.ID),
				slog.String("ledger", row.LedgerName))
			continue
		}
		account.SetSignedBalance(account.SignedBalance() + row.Amount()*multiplier)
	}
	if err := s.ledgers.Replace(ctx, company, ledgers); err != nil {
		return err
	}
	if v.Type != TypeSales && v.Type != TypePurchase {
		return nil
	}
	items, err := s.items.List(ctx, company)
	if err != nil {
		return err
	}
	itemIdx := stock.Index(items)
	touched := false
	for _, row := range v.Rows {
		for _, alloc := range row.Allocations {
			item, ok := itemIdx[alloc.ItemName]
			if !ok {
				s.logger.DebugContext(ctx, "allocation skipped, stock item unresolved",
					slog.String("voucher", v.ID),
					slog.String("item", alloc.ItemName))
				continue
			}
			if v.Type == TypePurchase {
				stock.ApplyPurchase(item, alloc.Qty, alloc.Amount, multiplier)
			} else {
				stock.ApplySale(item, alloc.Qty, multiplier)
			}
			touched = true
		}
	}
	if !touched {
		return nil
	}
	return s.items.Replace(ctx, company, items)
}

func (s *Service) record(ctx context.Context, action, company string, v Voucher) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Action:   action,
		Entity:   "voucher",
		EntityID: v.ID,
		Company:  company,
		Meta:     map[string]any{"number": v.Number, "type": string(v.Type)},
		At:       time.Now().UTC(),
	})
}
