package gst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

func TestCompareDocNumbers(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"INV-2", "INV-10", -1},
		{"INV-10", "INV-2", 1},
		{"INV-002", "INV-2", 0},
		{"INV-001", "INV-001", 0},
		{"A-1", "B-1", -1},
		{"9", "10", -1},
		{"INV", "INV-1", -1},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CompareDocNumbers(tc.a, tc.b), "%s vs %s", tc.a, tc.b)
	}
}

func reportFixture() ([]voucher.Voucher, []ledger.Ledger, []stock.Item) {
	ledgers := []ledger.Ledger{
		{Name: "Acme Traders", Group: ledger.GroupSundryDebtors, GSTIN: "27AAACA1234A1Z5", SameState: true},
		{Name: "Walk-in", Group: ledger.GroupSundryDebtors, Registration: ledger.RegistrationConsumer, SameState: true},
		{Name: "Sales", Group: ledger.GroupSalesAccounts},
		{Name: "Output CGST", Group: ledger.GroupDutiesAndTaxes},
		{Name: "Output SGST", Group: ledger.GroupDutiesAndTaxes},
		{Name: "Bank", Group: "Bank Accounts"},
	}
	items := []stock.Item{
		{Name: "Widget", HSNCode: "8471", TaxRate: 18},
	}
	date := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	sale := func(id, number, party string, taxable, tax float64) voucher.Voucher {
		return voucher.Voucher{
			ID: id, Number: number, Date: date, Type: voucher.TypeSales,
			Rows: []voucher.Row{
				{Side: voucher.SideDebit, LedgerName: party, Debit: taxable + tax},
				{Side: voucher.SideCredit, LedgerName: "Sales", Credit: taxable, Allocations: []voucher.Allocation{
					{ItemName: "Widget", Qty: taxable / 25, Rate: 25, Amount: taxable},
				}},
				{Side: voucher.SideCredit, LedgerName: "Output CGST", Credit: tax / 2},
				{Side: voucher.SideCredit, LedgerName: "Output SGST", Credit: tax / 2},
			},
		}
	}
	vouchers := []voucher.Voucher{
		sale("02", "INV-10", "Acme Traders", 200, 36),
		sale("01", "INV-9", "Walk-in", 100, 18),
		sale("03", "INV-11", "Walk-in", 50, 9),
		{
			ID: "04", Number: "RCP-1", Date: date, Type: voucher.TypeReceipt,
			Rows: []voucher.Row{
				{Side: voucher.SideDebit, LedgerName: "Bank", Debit: 118},
				{Side: voucher.SideCredit, LedgerName: "Acme Traders", Credit: 118},
			},
		},
	}
	return vouchers, ledgers, items
}

func TestBuildReportBuckets(t *testing.T) {
	vouchers, ledgers, items := reportFixture()
	report := BuildReport(vouchers, ledgers, items, DefaultRules())

	require.Equal(t, 4, report.Total)
	require.Equal(t, 1, report.NotRelevant)

	b2b := report.Categories[CategoryB2B]
	require.Equal(t, 1, b2b.Count)
	require.InDelta(t, 200, b2b.TaxableValue, 0.0001)
	require.InDelta(t, 36, b2b.TotalTax, 0.0001)

	b2cs := report.Categories[CategoryB2CS]
	require.Equal(t, 2, b2cs.Count)
	require.InDelta(t, 150, b2cs.TaxableValue, 0.0001)
	require.InDelta(t, 27, b2cs.TotalTax, 0.0001)

	// Empty buckets are still materialized.
	require.Contains(t, report.Categories, CategoryEXP)
	require.Contains(t, report.Categories, CategoryNIL)

	require.InDelta(t, 350, report.Consolidated.TaxableValue, 0.0001)
	require.InDelta(t, 63, report.Consolidated.TotalTax, 0.0001)
	require.InDelta(t, 413, report.Consolidated.InvoiceValue, 0.0001)
	require.Equal(t, 3, report.Consolidated.Count)
}

func TestBuildReportRateWiseB2CS(t *testing.T) {
	vouchers, ledgers, items := reportFixture()
	report := BuildReport(vouchers, ledgers, items, DefaultRules())

	require.Len(t, report.B2CSRates, 1)
	bucket := report.B2CSRates[0]
	require.Equal(t, PlaceIntraState, bucket.PlaceOfSupply)
	require.InDelta(t, 18, bucket.Rate, 0.0001)
	require.Equal(t, 2, bucket.Count)
	require.InDelta(t, 150, bucket.TaxableValue, 0.0001)
	require.InDelta(t, 27, bucket.TotalTax, 0.0001)
}

func TestBuildReportHSNAndDocRanges(t *testing.T) {
	vouchers, ledgers, items := reportFixture()
	report := BuildReport(vouchers, ledgers, items, DefaultRules())

	require.Len(t, report.HSN, 1)
	hsn := report.HSN[0]
	require.Equal(t, "8471", hsn.Code)
	require.InDelta(t, 14, hsn.Qty, 0.0001)
	require.InDelta(t, 350, hsn.TaxableValue, 0.0001)
	require.InDelta(t, 63, hsn.TaxShare, 0.0001)

	// Numeric-aware ordering: INV-9 < INV-10 < INV-11.
	sales := report.DocRanges[voucher.TypeSales]
	require.Equal(t, "INV-9", sales.First)
	require.Equal(t, "INV-11", sales.Last)
	require.Equal(t, 3, sales.Count)

	receipts := report.DocRanges[voucher.TypeReceipt]
	require.Equal(t, 1, receipts.Count)
}
