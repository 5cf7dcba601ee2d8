package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCollectionValidate(t *testing.T) {
	loan := validIndividualLoan()

	tests := []struct {
		name    string
		entry   Collection
		wantErr string
	}{
		{
			name: "valid entry",
			entry: Collection{
				Currency:        CurrencyLRD,
				ScheduledAmount: decimal.NewFromInt(550),
				AmountCollected: decimal.NewFromInt(550),
			},
		},
		{
			name: "currency mismatch",
			entry: Collection{
				Currency:        CurrencyUSD,
				AmountCollected: decimal.NewFromInt(100),
			},
			wantErr: "collection currency must match loan currency",
		},
		{
			name: "negative collected amount",
			entry: Collection{
				Currency:        CurrencyLRD,
				AmountCollected: decimal.NewFromInt(-1),
			},
			wantErr: "amount collected cannot be negative",
		},
		{
			name: "negative scheduled amount",
			entry: Collection{
				Currency:        CurrencyLRD,
				ScheduledAmount: decimal.NewFromInt(-1),
			},
			wantErr: "scheduled amount cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate(loan)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestCollectionOverdue(t *testing.T) {
	tests := []struct {
		name      string
		scheduled string
		collected string
		want      string
	}{
		{"shortfall", "550", "300", "250"},
		{"paid in full", "550", "550", "0"},
		{"overpayment clamps to zero", "550", "600", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Collection{
				ScheduledAmount: decimal.RequireFromString(tt.scheduled),
				AmountCollected: decimal.RequireFromString(tt.collected),
			}
			assert.True(t, c.Overdue().Equal(decimal.RequireFromString(tt.want)),
				"got %s", c.Overdue())
		})
	}
}
