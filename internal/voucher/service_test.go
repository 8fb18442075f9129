package voucher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
)

const company = "acme"

func newFixture(t *testing.T, docs docstore.Store, cfg ServiceConfig) (*Service, *ledger.Store, *stock.Store) {
	t.Helper()
	ledgers := ledger.NewStore(docs)
	items := stock.NewStore(docs)
	svc := NewService(NewStore(docs), ledgers, items, slog.Default(), nil, cfg)

	ctx := context.Background()
	err := ledgers.Replace(ctx, company, []ledger.Ledger{
		{ID: "l1", Name: "Acme Traders", Group: ledger.GroupSundryDebtors, Balance: 0, Type: ledger.TypeDebit},
		{ID: "l2", Name: "Sales", Group: ledger.GroupSalesAccounts, Balance: 0, Type: ledger.TypeCredit},
		{ID: "l3", Name: "Output CGST", Group: ledger.GroupDutiesAndTaxes, Balance: 0, Type: ledger.TypeCredit},
		{ID: "l4", Name: "Output SGST", Group: ledger.GroupDutiesAndTaxes, Balance: 0, Type: ledger.TypeCredit},
	})
	require.NoError(t, err)
	err = items.Replace(ctx, company, []stock.Item{
		{ID: "s1", Name: "Widget", HSNCode: "8471", TaxRate: 18},
	})
	require.NoError(t, err)
	return svc, ledgers, items
}

func salesVoucher(number string) Voucher {
	return Voucher{
		Number: number,
		Date:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		Type:   TypeSales,
		Rows: []Row{
			{Side: SideDebit, LedgerName: "Acme Traders", Debit: 118},
			{Side: SideCredit, LedgerName: "Sales", Credit: 100},
			{Side: SideCredit, LedgerName: "Output CGST", Credit: 9},
			{Side: SideCredit, LedgerName: "Output SGST", Credit: 9},
		},
	}
}

func signedBalances(t *testing.T, store *ledger.Store) map[string]float64 {
	t.Helper()
	ledgers, err := store.List(context.Background(), company)
	require.NoError(t, err)
	out := make(map[string]float64, len(ledgers))
	for _, l := range ledgers {
		out[l.Name] = l.SignedBalance()
	}
	return out
}

func TestPostAppliesLedgerImpact(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	posted, err := svc.Post(ctx, company, salesVoucher("INV-001"))
	require.NoError(t, err)
	require.NotEmpty(t, posted.ID)

	balances := signedBalances(t, ledgers)
	require.InDelta(t, 118, balances["Acme Traders"], 0.0001)
	require.InDelta(t, -100, balances["Sales"], 0.0001)
	require.InDelta(t, -9, balances["Output CGST"], 0.0001)
	require.InDelta(t, -9, balances["Output SGST"], 0.0001)
}

func TestRemoveRestoresBalances(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	before := signedBalances(t, ledgers)
	posted, err := svc.Post(ctx, company, salesVoucher("INV-001"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, company, posted.ID))
	require.Equal(t, before, signedBalances(t, ledgers))

	history, err := svc.List(ctx, company)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRemoveUnknownVoucher(t *testing.T) {
	svc, _, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	err := svc.Remove(context.Background(), company, "missing")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReplaceSwapsImpact(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	posted, err := svc.Post(ctx, company, salesVoucher("INV-001"))
	require.NoError(t, err)

	updated := posted
	updated.Rows = []Row{
		{Side: SideDebit, LedgerName: "Acme Traders", Debit: 236},
		{Side: SideCredit, LedgerName: "Sales", Credit: 200},
		{Side: SideCredit, LedgerName: "Output CGST", Credit: 18},
		{Side: SideCredit, LedgerName: "Output SGST", Credit: 18},
	}
	_, err = svc.Replace(ctx, company, updated)
	require.NoError(t, err)

	balances := signedBalances(t, ledgers)
	require.InDelta(t, 236, balances["Acme Traders"], 0.0001)
	require.InDelta(t, -200, balances["Sales"], 0.0001)

	history, err := svc.List(ctx, company)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.InDelta(t, 236, history[0].TotalDebit(), 0.0001)
}

func TestReplaceUnknownBehavesLikePost(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	v := salesVoucher("INV-007")
	v.ID = "never-posted"
	_, err := svc.Replace(ctx, company, v)
	require.NoError(t, err)

	balances := signedBalances(t, ledgers)
	require.InDelta(t, 118, balances["Acme Traders"], 0.0001)

	history, err := svc.List(ctx, company)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestDanglingLedgerRowIsSkipped(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	v := salesVoucher("INV-001")
	v.Rows = append(v.Rows, Row{Side: SideCredit, LedgerName: "No Such Account", Credit: 50})
	_, err := svc.Post(ctx, company, v)
	require.NoError(t, err)

	balances := signedBalances(t, ledgers)
	require.InDelta(t, 118, balances["Acme Traders"], 0.0001)
	_, ok := balances["No Such Account"]
	require.False(t, ok)
}

func TestStrictBalanceValidation(t *testing.T) {
	svc, _, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{StrictBalance: true})
	ctx := context.Background()

	v := salesVoucher("INV-001")
	v.Rows[0].Debit = 117
	_, err := svc.Post(ctx, company, v)
	require.ErrorIs(t, err, ErrUnbalanced)

	_, err = svc.Post(ctx, company, salesVoucher("INV-001"))
	require.NoError(t, err)
}

func TestInventoryImpactOnPurchaseAndSale(t *testing.T) {
	svc, _, items := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	purchase := Voucher{
		Number: "PUR-001",
		Date:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Type:   TypePurchase,
		Rows: []Row{
			{Side: SideDebit, LedgerName: "Purchases", Debit: 1000, Allocations: []Allocation{
				{ItemName: "Widget", Qty: 10, Rate: 100, Amount: 1000},
			}},
			{Side: SideCredit, LedgerName: "Acme Traders", Credit: 1000},
		},
	}
	_, err := svc.Post(ctx, company, purchase)
	require.NoError(t, err)

	item, err := items.Get(ctx, company, "Widget")
	require.NoError(t, err)
	require.InDelta(t, 10, item.Balance(), 0.0001)
	require.InDelta(t, 1000, item.Value(), 0.0001)
	require.InDelta(t, 100, item.Rate(), 0.0001)

	sale := salesVoucher("INV-001")
	sale.Rows[1].Allocations = []Allocation{{ItemName: "Widget", Qty: 4, Rate: 25, Amount: 100}}
	_, err = svc.Post(ctx, company, sale)
	require.NoError(t, err)

	item, err = items.Get(ctx, company, "Widget")
	require.NoError(t, err)
	require.InDelta(t, 6, item.Balance(), 0.0001)
	require.InDelta(t, 600, item.Value(), 0.0001)
	require.InDelta(t, 100, item.Rate(), 0.0001)
}

// flakyStore fails the nth write against one table; everything else passes
// through to the wrapped store.
type flakyStore struct {
	docstore.Store
	failTable string
	failAt    int
	writes    int
}

func (f *flakyStore) Write(ctx context.Context, table string, payload []byte, scope string) error {
	if table == f.failTable {
		f.writes++
		if f.writes == f.failAt {
			return fmt.Errorf("simulated write failure on %s", table)
		}
	}
	return f.Store.Write(ctx, table, payload, scope)
}

func TestRemoveManyIsBestEffort(t *testing.T) {
	flaky := &flakyStore{Store: docstore.NewMemory(), failTable: docstore.TableLedgers, failAt: 0}
	svc, _, _ := newFixture(t, flaky, ServiceConfig{})
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 3; i++ {
		posted, err := svc.Post(ctx, company, salesVoucher(fmt.Sprintf("INV-%03d", i)))
		require.NoError(t, err)
		ids = append(ids, posted.ID)
	}

	// Seeding replaced ledgers once, each post once more: 4 writes so far.
	// The second removal's ledger write is the 6th.
	flaky.failAt = 6

	completed, err := svc.RemoveMany(ctx, company, ids)
	require.Error(t, err)
	require.Equal(t, 2, completed)

	history, err := svc.List(ctx, company)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, ids[1], history[0].ID)
}

func TestRemoveManyAllComplete(t *testing.T) {
	svc, ledgers, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	before := signedBalances(t, ledgers)
	var ids []string
	for i := 1; i <= 3; i++ {
		posted, err := svc.Post(ctx, company, salesVoucher(fmt.Sprintf("INV-%03d", i)))
		require.NoError(t, err)
		ids = append(ids, posted.ID)
	}

	completed, err := svc.RemoveMany(ctx, company, ids)
	require.NoError(t, err)
	require.Equal(t, 3, completed)
	require.Equal(t, before, signedBalances(t, ledgers))
}

func TestRemoveManyReportsMissing(t *testing.T) {
	svc, _, _ := newFixture(t, docstore.NewMemory(), ServiceConfig{})
	ctx := context.Background()

	posted, err := svc.Post(ctx, company, salesVoucher("INV-001"))
	require.NoError(t, err)

	completed, err := svc.RemoveMany(ctx, company, []string{posted.ID, "missing"})
	require.Equal(t, 1, completed)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}
