package ledger

import "time"

// BalanceType tags which side a ledger's stored magnitude sits on.
type BalanceType string

const (
	TypeDebit  BalanceType = "Dr"
	TypeCredit BalanceType = "Cr"
)

// Registration classifies the party for tax categorization.
type Registration string

const (
	RegistrationRegistered   Registration = "Registered"
	RegistrationUnregistered Registration = "Unregistered"
	RegistrationConsumer     Registration = "Consumer"
)

// Common classification groups. Free-form beyond these; the tax rules
// decide which groups count as revenue or party groups.
const (
	GroupSundryDebtors    = "Sundry Debtors"
	GroupSundryCreditors  = "Sundry Creditors"
	GroupSalesAccounts    = "Sales Accounts"
	GroupPurchaseAccounts = "Purchase Accounts"
	GroupDutiesAndTaxes   = "Duties & Taxes"
)

// Ledger models an account. Balance is a non-negative magnitude; Type
// carries its sign. Only the posting engine mutates Balance/Type.
type Ledger struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Group        string       `json:"group"`
	Balance      float64      `json:"balance"`
	Type         BalanceType  `json:"type"`
	GSTIN        string       `json:"gstin,omitempty"`
	Registration Registration `json:"registration,omitempty"`
	SameState    bool         `json:"sameState,omitempty"`
	CreatedAt    time.Time    `json:"createdAt,omitempty"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty"`
}

// SignedBalance converts the magnitude+type pair to a signed value,
// positive on the debit side.
func (l Ledger) SignedBalance() float64 {
	if l.Type == TypeCredit {
		return -l.Balance
	}
	return l.Balance
}

// SetSignedBalance re-splits a signed value back into magnitude and type.
// Zero lands on the debit side.
func (l *Ledger) SetSignedBalance(signed float64) {
	if signed < 0 {
		l.Balance = -signed
		l.Type = TypeCredit
		return
	}
	l.Balance = signed
	l.Type = TypeDebit
}

// Index builds a name lookup over a ledger slice. Pointers reference the
// slice elements so callers can mutate balances in place.
func Index(ledgers []Ledger) map[string]*Ledger {
	idx := make(map[string]*Ledger, len(ledgers))
	for i := range ledgers {
		idx[ledgers[i].Name] = &ledgers[i]
	}
	return idx
}
