package stock

// ApplyPurchase moves qty and amount into the item with the given
// multiplier (+1 apply, -1 reverse) and refreshes the moving-average rate.
func ApplyPurchase(it *Item, qty, amount, multiplier float64) {
	it.EnsureState()
	*it.CurrentBalance += qty * multiplier
	*it.CurrentValue += amount * multiplier
	refreshRate(it)
}

// ApplySale moves qty out of the item with the given multiplier. Outgoing
// stock is costed at the average rate in effect before the sale: the value
// is recomputed from the new balance at the prior rate rather than
// decremented by the sale amount.
func ApplySale(it *Item, qty, multiplier float64) {
	it.EnsureState()
	*it.CurrentBalance -= qty * multiplier
	*it.CurrentValue = *it.CurrentBalance * *it.CurrentRate
	refreshRate(it)
}

// refreshRate recomputes the average rate while stock remains positive.
// At zero or negative balance the last computed rate is kept; a later
// purchase restarts quantity and value together, so the average lands on
// the new purchase rate.
func refreshRate(it *Item) {
	if *it.CurrentBalance > 0 {
		*it.CurrentRate = *it.CurrentValue / *it.CurrentBalance
	}
}
