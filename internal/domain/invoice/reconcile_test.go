package invoice

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	return lo.ToPtr(decimal.RequireFromString(s))
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		amount     *decimal.Decimal
		tax        *decimal.Decimal
		total      *decimal.Decimal
		wantAmount string
		wantTotal  string
	}{
		{
			name:       "total computed from amount and tax",
			amount:     dec("100"),
			tax:        dec("18"),
			wantAmount: "100",
			wantTotal:  "118",
		},
		{
			name:       "total computed from amount alone",
			amount:     dec("250.50"),
			wantAmount: "250.50",
			wantTotal:  "250.50",
		},
		{
			name:       "amount defaults to total when only total given",
			total:      dec("5000"),
			wantAmount: "5000",
			wantTotal:  "5000",
		},
		{
			name:       "explicit total wins over amount plus tax",
			amount:     dec("100"),
			tax:        dec("18"),
			total:      dec("120"),
			wantAmount: "100",
			wantTotal:  "120",
		},
		{
			name:       "everything absent yields zeroes",
			wantAmount: "0",
			wantTotal:  "0",
		},
		{
			name:       "tax alone still produces a total",
			tax:        dec("18"),
			wantAmount: "0",
			wantTotal:  "18",
		},
		{
			name:       "fractional amounts stay exact",
			amount:     dec("0.1"),
			tax:        dec("0.2"),
			wantAmount: "0.1",
			wantTotal:  "0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, total := Reconcile(tt.amount, tt.tax, tt.total)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.wantAmount)),
				"amount = %s, want %s", amount, tt.wantAmount)
			assert.True(t, total.Equal(decimal.RequireFromString(tt.wantTotal)),
				"total = %s, want %s", total, tt.wantTotal)
		})
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	amount := decimal.RequireFromString("100")
	tax := decimal.RequireFromString("18")

	Reconcile(&amount, &tax, nil)

	assert.True(t, amount.Equal(decimal.RequireFromString("100")))
	assert.True(t, tax.Equal(decimal.RequireFromString("18")))
}
