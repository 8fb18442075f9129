package gst

import (
	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

// Category is a statutory report bucket.
type Category string

const (
	CategoryB2B   Category = "B2B"
	CategoryB2CL  Category = "B2CL"
	CategoryB2CS  Category = "B2CS"
	CategoryCDNR  Category = "CDNR"
	CategoryCDNUR Category = "CDNUR"
	CategoryEXP   Category = "EXP"
	CategoryNIL   Category = "NIL"
)

// Place-of-supply buckets. Unregistered parties carry no state code, so
// the split is intra versus inter state from the party's home-state flag.
const (
	PlaceIntraState = "Intra-State"
	PlaceInterState = "Inter-State"
)

// HSNLine attributes taxable value and a proportional tax share to one
// item code.
type HSNLine struct {
	Code         string  `json:"code"`
	Qty          float64 `json:"qty"`
	TaxableValue float64 `json:"taxableValue"`
	TaxShare     float64 `json:"taxShare"`
}

// Classification is one voucher's tax breakdown.
type Classification struct {
	Relevant      bool      `json:"relevant"`
	TaxableValue  float64   `json:"taxableValue"`
	CGST          float64   `json:"cgst"`
	SGST          float64   `json:"sgst"`
	IGST          float64   `json:"igst"`
	Cess          float64   `json:"cess"`
	TotalTax      float64   `json:"totalTax"`
	InvoiceValue  float64   `json:"invoiceValue"`
	Category      Category  `json:"category"`
	PlaceOfSupply string    `json:"placeOfSupply"`
	HSN           []HSNLine `json:"hsn,omitempty"`
}

// positiveSide returns which side carries revenue and tax for the type,
// and whether the type participates in tax reporting at all. Sales invoices
// credit revenue; credit notes invert that. Purchases mirror sales.
func positiveSide(t voucher.Type) (voucher.Side, bool) {
	switch t {
	case voucher.TypeSales, voucher.TypeDebitNote:
		return voucher.SideCredit, true
	case voucher.TypePurchase, voucher.TypeCreditNote:
		return voucher.SideDebit, true
	default:
		return "", false
	}
}

func rowAmount(row voucher.Row, side voucher.Side) float64 {
	if side == voucher.SideDebit {
		return row.Debit
	}
	return row.Credit
}

// Classify breaks a single voucher into taxable value, tax components,
// invoice value, statutory category and HSN lines. Ledger and item lookups
// are read-only; unresolvable references degrade to the lenient defaults
// documented on the rules rather than failing.
func Classify(v voucher.Voucher, ledgers map[string]*ledger.Ledger, items map[string]*stock.Item, rules Rules) Classification {
	side, relevant := positiveSide(v.Type)
	if !relevant {
		return Classification{}
	}
	negative := voucher.SideDebit
	if side == voucher.SideDebit {
		negative = voucher.SideCredit
	}

	c := Classification{Relevant: true}
	var party *ledger.Ledger
	for _, row := range v.Rows {
		account := ledgers[row.LedgerName]
		if account != nil && party == nil && rules.PartyGroups[account.Group] {
			party = account
		}
		switch row.Side {
		case side:
			amount := rowAmount(row, side)
			if rules.IsTaxLine(row.LedgerName) {
				switch rules.ComponentFor(row.LedgerName) {
				case ComponentCess:
					c.Cess += amount
				case ComponentIGST:
					c.IGST += amount
				case ComponentSGST:
					c.SGST += amount
				default:
					c.CGST += amount
				}
				c.TotalTax += amount
				continue
			}
			if account != nil && rules.RevenueGroups[account.Group] {
				c.TaxableValue += amount
			}
		case negative:
			if !rules.IsTaxLine(row.LedgerName) {
				c.InvoiceValue += rowAmount(row, negative)
			}
		}
	}

	c.Category = categorize(v.Type, party, c.InvoiceValue, rules)
	c.PlaceOfSupply = placeOfSupply(party)
	c.HSN = hsnBreakdown(v, side, ledgers, items, rules, c.TaxableValue, c.TotalTax)
	return c
}

// registered reports whether the party counts as a registered person. A
// recorded GSTIN implies registration even when the class was never set;
// the class alone suffices when the GSTIN is missing from the master.
func registered(party *ledger.Ledger) bool {
	if party == nil {
		return false
	}
	return party.GSTIN != "" || party.Registration == ledger.RegistrationRegistered
}

// categorize assigns the statutory bucket. Without a recognizable party
// row the voucher defaults to B2CS; this is a policy choice, not an error.
func categorize(t voucher.Type, party *ledger.Ledger, invoiceValue float64, rules Rules) Category {
	if t.IsNote() {
		if registered(party) {
			return CategoryCDNR
		}
		return CategoryCDNUR
	}
	if party == nil {
		return CategoryB2CS
	}
	if registered(party) {
		return CategoryB2B
	}
	if !party.SameState && invoiceValue > rules.B2CLThreshold {
		return CategoryB2CL
	}
	return CategoryB2CS
}

func placeOfSupply(party *ledger.Ledger) string {
	if party != nil && !party.SameState {
		return PlaceInterState
	}
	return PlaceIntraState
}

// hsnBreakdown folds the allocations on revenue rows into one line per
// item code, with a tax share proportional to each code's slice of the
// taxable value. Lines keep first-appearance order.
func hsnBreakdown(v voucher.Voucher, side voucher.Side, ledgers map[string]*ledger.Ledger, items map[string]*stock.Item, rules Rules, taxableValue, totalTax float64) []HSNLine {
	var lines []HSNLine
	byCode := make(map[string]int)
	for _, row := range v.Rows {
		if row.Side != side || rules.IsTaxLine(row.LedgerName) {
			continue
		}
		account := ledgers[row.LedgerName]
		if account == nil || !rules.RevenueGroups[account.Group] {
			continue
		}
		for _, alloc := range row.Allocations {
			item := items[alloc.ItemName]
			if item == nil {
				continue
			}
			i, ok := byCode[item.HSNCode]
			if !ok {
				i = len(lines)
				byCode[item.HSNCode] = i
				lines = append(lines, HSNLine{Code: item.HSNCode})
			}
			lines[i].Qty += alloc.Qty
			lines[i].TaxableValue += alloc.Amount
		}
	}
	if taxableValue > 0 {
		for i := range lines {
			lines[i].TaxShare = lines[i].TaxableValue / taxableValue * totalTax
		}
	}
	return lines
}
