package reports

import (
	"context"
	"time"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

// Service resolves statements against the document store.
type Service struct {
	ledgers  *ledger.Store
	vouchers *voucher.Store
}

// NewService builds Service.
func NewService(ledgers *ledger.Store, vouchers *voucher.Store) *Service {
	return &Service{ledgers: ledgers, vouchers: vouchers}
}

// Statement builds the date-ranged statement for one account.
func (s *Service) Statement(ctx context.Context, company, ledgerName string, from, to time.Time) (Statement, error) {
	account, err := s.ledgers.Get(ctx, company, ledgerName)
	if err != nil {
		return Statement{}, err
	}
	vouchers, err := s.vouchers.List(ctx, company)
	if err != nil {
		return Statement{}, err
	}
	return BuildStatement(account, vouchers, from, to), nil
}
