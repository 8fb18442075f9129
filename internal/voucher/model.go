package voucher

import "time"

// Type enumerates the voucher (document) types.
type Type string

const (
	TypeSales      Type = "Sales"
	TypePurchase   Type = "Purchase"
	TypePayment    Type = "Payment"
	TypeReceipt    Type = "Receipt"
	TypeContra     Type = "Contra"
	TypeJournal    Type = "Journal"
	TypeCreditNote Type = "Credit Note"
	TypeDebitNote  Type = "Debit Note"
)

// IsNote reports whether the type is a credit or debit note.
func (t Type) IsNote() bool {
	return t == TypeCreditNote || t == TypeDebitNote
}

// Side marks which column of a row carries the amount.
type Side string

const (
	SideDebit  Side = "Dr"
	SideCredit Side = "Cr"
)

// Allocation attributes part of a row to a stock item. Only meaningful on
// rows of Sales and Purchase vouchers.
type Allocation struct {
	ItemName string  `json:"itemName"`
	Qty      float64 `json:"qty"`
	Unit     string  `json:"unit,omitempty"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
	Batch    string  `json:"batch,omitempty"`
	Expiry   string  `json:"expiry,omitempty"`
}

// Row is one leg of a double entry. Exactly one of Debit/Credit is
// non-zero by convention; the ledger is referenced by name only.
type Row struct {
	Side        Side         `json:"side"`
	LedgerName  string       `json:"ledgerName"`
	Debit       float64      `json:"debit"`
	Credit      float64      `json:"credit"`
	Allocations []Allocation `json:"allocations,omitempty"`
}

// Amount returns the row's signed movement, positive on the debit side.
func (r Row) Amount() float64 {
	if r.Side == SideDebit {
		return r.Debit
	}
	return -r.Credit
}

// Voucher is a double-entry transaction. Identity is immutable once
// created; IDs sort in creation order.
type Voucher struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Date      time.Time `json:"date"`
	Type      Type      `json:"type"`
	Narration string    `json:"narration,omitempty"`
	Rows      []Row     `json:"rows"`
}

// TotalDebit sums the debit column.
func (v Voucher) TotalDebit() float64 {
	var total float64
	for _, r := range v.Rows {
		total += r.Debit
	}
	return total
}

// TotalCredit sums the credit column.
func (v Voucher) TotalCredit() float64 {
	var total float64
	for _, r := range v.Rows {
		total += r.Credit
	}
	return total
}
