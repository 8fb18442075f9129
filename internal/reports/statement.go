// Package reports reconstructs date-ranged ledger statements. The store
// only keeps one current balance per account, so the opening balance of a
// range is back-calculated from the closing balance and the movement
// inside the range.
package reports

import (
	"sort"
	"time"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

// Row is one voucher line touching the account, with the running signed
// balance after it.
type Row struct {
	Date      time.Time    `json:"date"`
	VoucherID string       `json:"voucherId"`
	Number    string       `json:"number"`
	Type      voucher.Type `json:"type"`
	Narration string       `json:"narration,omitempty"`
	Debit     float64      `json:"debit"`
	Credit    float64      `json:"credit"`
	Running   float64      `json:"running"`
}

// Statement is the date-ranged account view.
type Statement struct {
	LedgerName  string             `json:"ledgerName"`
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	Opening     float64            `json:"opening"`
	OpeningType ledger.BalanceType `json:"openingType"`
	Rows        []Row              `json:"rows"`
	TotalDebit  float64            `json:"totalDebit"`
	TotalCredit float64            `json:"totalCredit"`
	Closing     float64            `json:"closing"`
	ClosingType ledger.BalanceType `json:"closingType"`
}

func splitSigned(signed float64) (float64, ledger.BalanceType) {
	if signed < 0 {
		return -signed, ledger.TypeCredit
	}
	return signed, ledger.TypeDebit
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// inRange compares at day granularity. Voucher dates carry timestamps
// while statement bounds are plain dates, so an intraday posting on the
// boundary day still counts as inside the inclusive range.
func inRange(date, from, to time.Time) bool {
	d := dayOf(date)
	if !from.IsZero() && d.Before(dayOf(from)) {
		return false
	}
	if !to.IsZero() && d.After(dayOf(to)) {
		return false
	}
	return true
}

// BuildStatement reconstructs the account's statement for [from, to].
// Zero bounds leave the range open on that end. The running balance after
// the last row equals the signed closing balance by construction.
func BuildStatement(account ledger.Ledger, vouchers []voucher.Voucher, from, to time.Time) Statement {
	closingSigned := account.SignedBalance()

	var rows []Row
	var netMovement float64
	for _, v := range vouchers {
		if !inRange(v.Date, from, to) {
			continue
		}
		for _, r := range v.Rows {
			if r.LedgerName != account.Name {
				continue
			}
			rows = append(rows, Row{
				Date:      v.Date,
				VoucherID: v.ID,
				Number:    v.Number,
				Type:      v.Type,
				Narration: v.Narration,
				Debit:     r.Debit,
				Credit:    r.Credit,
			})
			netMovement += r.Debit - r.Credit
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].VoucherID < rows[j].VoucherID
	})

	openingSigned := closingSigned - netMovement
	statement := Statement{
		LedgerName: account.Name,
		From:       from,
		To:         to,
	}
	statement.Opening, statement.OpeningType = splitSigned(openingSigned)
	statement.Closing, statement.ClosingType = splitSigned(closingSigned)

	running := openingSigned
	for i := range rows {
		running += rows[i].Debit - rows[i].Credit
		rows[i].Running = running
		statement.TotalDebit += rows[i].Debit
		statement.TotalCredit += rows[i].Credit
	}
	statement.Rows = rows
	return statement
}
