package invoice

import "github.com/shopspring/decimal"

// Reconcile derives a consistent (amount, total) pair from what the caller
// supplied. Tax passes through untouched.
//
//   - total absent: total = (amount or 0) + (tax or 0)
//   - amount absent, total present: amount = total
//   - both absent: amount = total = 0
//
// An explicitly supplied total always wins over recomputation, so callers on
// the update path must only invoke this when the patch does not carry a total.
func Reconcile(amount, tax, total *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if total == nil {
		a := decimal.Zero
		if amount != nil {
			a = *amount
		}
		return a, a.Add(taxOrZero(tax))
	}

	if amount == nil {
		return *total, *total
	}
	return *amount, *total
}

func taxOrZero(tax *decimal.Decimal) decimal.Decimal {
	if tax == nil {
		return decimal.Zero
	}
	return *tax
}
