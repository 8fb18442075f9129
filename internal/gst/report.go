package gst

import (
	"sort"
	"strconv"

	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
)

// CategoryTotal accumulates one statutory bucket.
type CategoryTotal struct {
	Count        int     `json:"count"`
	TaxableValue float64 `json:"taxableValue"`
	CGST         float64 `json:"cgst"`
	SGST         float64 `json:"sgst"`
	IGST         float64 `json:"igst"`
	Cess         float64 `json:"cess"`
	TotalTax     float64 `json:"totalTax"`
	InvoiceValue float64 `json:"invoiceValue"`
}

func (t *CategoryTotal) add(c Classification) {
	t.Count++
	t.TaxableValue += c.TaxableValue
	t.CGST += c.CGST
	t.SGST += c.SGST
	t.IGST += c.IGST
	t.Cess += c.Cess
	t.TotalTax += c.TotalTax
	t.InvoiceValue += c.InvoiceValue
}

// RateBucket is one (place-of-supply, effective rate) slice of B2CS.
type RateBucket struct {
	PlaceOfSupply string  `json:"placeOfSupply"`
	Rate          float64 `json:"rate"`
	Count         int     `json:"count"`
	TaxableValue  float64 `json:"taxableValue"`
	TotalTax      float64 `json:"totalTax"`
}

// DocRange is the numbering range observed for one voucher type.
type DocRange struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Count int    `json:"count"`
}

// Report is the aggregated statutory view over a voucher history.
type Report struct {
	Categories   map[Category]CategoryTotal `json:"categories"`
	B2CSRates    []RateBucket               `json:"b2csRates"`
	HSN          []HSNLine                  `json:"hsn"`
	DocRanges    map[voucher.Type]DocRange  `json:"docRanges"`
	Consolidated CategoryTotal              `json:"consolidated"`
	NotRelevant  int                        `json:"notRelevant"`
	Total        int                        `json:"total"`
}

var reportCategories = []Category{
	CategoryB2B, CategoryB2CL, CategoryB2CS,
	CategoryCDNR, CategoryCDNUR, CategoryEXP, CategoryNIL,
}

// BuildReport classifies every voucher and folds the results into report
// buckets. Vouchers are walked in document-number order with numeric-aware
// comparison, so "INV-9" sorts before "INV-10".
func BuildReport(vouchers []voucher.Voucher, ledgers []ledger.Ledger, items []stock.Item, rules Rules) Report {
	sorted := make([]voucher.Voucher, len(vouchers))
	copy(sorted, vouchers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareDocNumbers(sorted[i].Number, sorted[j].Number) < 0
	})

	ledgerIdx := ledger.Index(ledgers)
	itemIdx := stock.Index(items)

	report := Report{
		Categories: make(map[Category]CategoryTotal, len(reportCategories)),
		DocRanges:  make(map[voucher.Type]DocRange),
		Total:      len(sorted),
	}
	for _, cat := range reportCategories {
		report.Categories[cat] = CategoryTotal{}
	}

	rateBuckets := make(map[string]*RateBucket)
	hsnTable := make(map[string]*HSNLine)

	for _, v := range sorted {
		rng, ok := report.DocRanges[v.Type]
		if !ok {
			rng = DocRange{First: v.Number, Last: v.Number}
		} else {
			rng.Last = v.Number
		}
		rng.Count++
		report.DocRanges[v.Type] = rng

		c := Classify(v, ledgerIdx, itemIdx, rules)
		if !c.Relevant {
			report.NotRelevant++
			continue
		}

		total := report.Categories[c.Category]
		total.add(c)
		report.Categories[c.Category] = total
		report.Consolidated.add(c)

		if c.Category == CategoryB2CS {
			key := rateKey(c.PlaceOfSupply, effectiveRate(c))
			bucket, ok := rateBuckets[key]
			if !ok {
				bucket = &RateBucket{PlaceOfSupply: c.PlaceOfSupply, Rate: effectiveRate(c)}
				rateBuckets[key] = bucket
			}
			bucket.Count++
			bucket.TaxableValue += c.TaxableValue
			bucket.TotalTax += c.TotalTax
		}

		for _, line := range c.HSN {
			merged, ok := hsnTable[line.Code]
			if !ok {
				merged = &HSNLine{Code: line.Code}
				hsnTable[line.Code] = merged
			}
			merged.Qty += line.Qty
			merged.TaxableValue += line.TaxableValue
			merged.TaxShare += line.TaxShare
		}
	}

	report.B2CSRates = sortedRateBuckets(rateBuckets)
	report.HSN = sortedHSN(hsnTable)
	return report
}

// effectiveRate derives the blended tax percentage of one voucher.
func effectiveRate(c Classification) float64 {
	if c.TaxableValue <= 0 {
		return 0
	}
	return c.TotalTax / c.TaxableValue * 100
}

func rateKey(place string, rate float64) string {
	return place + "|" + strconv.FormatFloat(rate, 'f', 2, 64)
}

func sortedRateBuckets(buckets map[string]*RateBucket) []RateBucket {
	out := make([]RateBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlaceOfSupply != out[j].PlaceOfSupply {
			return out[i].PlaceOfSupply < out[j].PlaceOfSupply
		}
		return out[i].Rate < out[j].Rate
	})
	return out
}

func sortedHSN(table map[string]*HSNLine) []HSNLine {
	out := make([]HSNLine, 0, len(table))
	for _, line := range table {
		out = append(out, *line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// CompareDocNumbers orders document numbers segment-wise: digit runs
// compare numerically, everything else byte-wise.
func CompareDocNumbers(a, b string) int {
	for a != "" && b != "" {
		aSeg, aNum, aRest := nextSegment(a)
		bSeg, bNum, bRest := nextSegment(b)
		if aNum && bNum {
			an, _ := strconv.ParseInt(aSeg, 10, 64)
			bn, _ := strconv.ParseInt(bSeg, 10, 64)
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		} else if aSeg != bSeg {
			if aSeg < bSeg {
				return -1
			}
			return 1
		}
		a, b = aRest, bRest
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func nextSegment(s string) (segment string, numeric bool, rest string) {
	if s == "" {
		return "", false, ""
	}
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	numeric = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == numeric {
		i++
	}
	return s[:i], numeric, s[i:]
}
