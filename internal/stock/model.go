package stock

import "time"

// Item models a stock item master plus its running valuation state.
// The running fields are nil until the first posting touches the item;
// they then start from the opening figures.
type Item struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit,omitempty"`
	OpeningQty   float64   `json:"openingQty"`
	OpeningRate  float64   `json:"openingRate"`
	OpeningValue float64   `json:"openingValue"`
	TaxRate      float64   `json:"taxRate,omitempty"`
	HSNCode      string    `json:"hsnCode,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`

	CurrentBalance *float64 `json:"currentBalance,omitempty"`
	CurrentRate    *float64 `json:"currentRate,omitempty"`
	CurrentValue   *float64 `json:"currentValue,omitempty"`
}

// EnsureState initializes the running fields from the opening figures the
// first time a posting touches the item.
func (it *Item) EnsureState() {
	if it.CurrentBalance != nil {
		return
	}
	balance := it.OpeningQty
	rate := it.OpeningRate
	value := it.OpeningValue
	it.CurrentBalance = &balance
	it.CurrentRate = &rate
	it.CurrentValue = &value
}

// Balance reports the running quantity, falling back to opening.
func (it Item) Balance() float64 {
	if it.CurrentBalance != nil {
		return *it.CurrentBalance
	}
	return it.OpeningQty
}

// Rate reports the running average rate, falling back to opening.
func (it Item) Rate() float64 {
	if it.CurrentRate != nil {
		return *it.CurrentRate
	}
	return it.OpeningRate
}

// Value reports the running value, falling back to opening.
func (it Item) Value() float64 {
	if it.CurrentValue != nil {
		return *it.CurrentValue
	}
	return it.OpeningValue
}

// Index builds a name lookup over an item slice. Pointers reference the
// slice elements so callers can mutate valuation state in place.
func Index(items []Item) map[string]*Item {
	idx := make(map[string]*Item, len(items))
	for i := range items {
		idx[items[i].Name] = &items[i]
	}
	return idx
}
