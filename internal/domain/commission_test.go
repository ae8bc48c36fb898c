package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestCommissionPolicy_Split(t *testing.T) {
	tests := []struct {
		name         string
		rate         string
		price        string
		wantFee      string
		wantEarnings string
	}{
		{
			name:         "standard sale",
			rate:         "0.30",
			price:        "49.99",
			wantFee:      "14.99",
			wantEarnings: "35.00",
		},
		{
			name:         "repeating expansion rounds fee down",
			rate:         "0.30",
			price:        "0.10",
			wantFee:      "0.03",
			wantEarnings: "0.07",
		},
		{
			name:         "tiny price keeps full earnings",
			rate:         "0.30",
			price:        "0.01",
			wantFee:      "0.00",
			wantEarnings: "0.01",
		},
		{
			name:         "zero rate",
			rate:         "0",
			price:        "100.00",
			wantFee:      "0.00",
			wantEarnings: "100.00",
		},
		{
			name:         "full rate",
			rate:         "1",
			price:        "100.00",
			wantFee:      "100.00",
			wantEarnings: "0.00",
		},
		{
			name:         "round price",
			rate:         "0.30",
			price:        "100.00",
			wantFee:      "30.00",
			wantEarnings: "70.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewCommissionPolicy(mustDecimal(t, tt.rate))
			if err != nil {
				t.Fatalf("unexpected policy error: %v", err)
			}

			price := mustDecimal(t, tt.price)
			fee, earnings, err := policy.Split(price)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !fee.Equal(mustDecimal(t, tt.wantFee)) {
				t.Errorf("fee = %s, want %s", fee, tt.wantFee)
			}
			if !earnings.Equal(mustDecimal(t, tt.wantEarnings)) {
				t.Errorf("earnings = %s, want %s", earnings, tt.wantEarnings)
			}
			if !fee.Add(earnings).Equal(price) {
				t.Errorf("fee + earnings = %s, want %s", fee.Add(earnings), price)
			}
		})
	}
}

func TestCommissionPolicy_SplitAlwaysReconciles(t *testing.T) {
	policy := DefaultCommissionPolicy()

	// Sweep prices around rounding boundaries.
	for cents := int64(1); cents <= 1000; cents++ {
		price := decimal.NewFromInt(cents).Shift(-2)

		fee, earnings, err := policy.Split(price)
		if err != nil {
			t.Fatalf("split %s: %v", price, err)
		}

		if !fee.Add(earnings).Equal(price) {
			t.Fatalf("split %s: fee %s + earnings %s does not equal price", price, fee, earnings)
		}
		if fee.Exponent() < -2 || earnings.Exponent() < -2 {
			t.Fatalf("split %s: sub-cent amounts fee=%s earnings=%s", price, fee, earnings)
		}
	}
}

func TestCommissionPolicy_SplitNegativePrice(t *testing.T) {
	policy := DefaultCommissionPolicy()

	if _, _, err := policy.Split(decimal.NewFromInt(-10)); err != ErrInvalidAmount {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestNewCommissionPolicy_InvalidRate(t *testing.T) {
	tests := []struct {
		name string
		rate string
	}{
		{name: "negative", rate: "-0.1"},
		{name: "above one", rate: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCommissionPolicy(mustDecimal(t, tt.rate)); err != ErrInvalidCommissionRate {
				t.Errorf("expected ErrInvalidCommissionRate, got %v", err)
			}
		})
	}
}
