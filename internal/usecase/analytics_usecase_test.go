package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
	"github.com/ins72/meway-revenue/internal/usecase/mocks"
)

func TestPeriodInput_Resolve(t *testing.T) {
	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC)
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		input     usecase.PeriodInput
		wantFrom  time.Time
		wantTo    time.Time
		wantError bool
	}{
		{
			name:     "named month",
			input:    usecase.PeriodInput{Period: "month"},
			wantFrom: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "custom bounds win over name",
			input:    usecase.PeriodInput{Period: "year", From: &from, To: &to},
			wantFrom: from,
			wantTo:   to,
		},
		{
			name:      "unknown name",
			input:     usecase.PeriodInput{Period: "decade"},
			wantError: true,
		},
		{
			name:      "inverted custom bounds",
			input:     usecase.PeriodInput{From: &to, To: &from},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := tt.input.Resolve(now)
			if tt.wantError {
				if !errors.Is(err, domain.ErrInvalidPeriod) {
					t.Errorf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !period.From.Equal(tt.wantFrom) || !period.To.Equal(tt.wantTo) {
				t.Errorf("period = [%s, %s), want [%s, %s)", period.From, period.To, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestSellerSummary(t *testing.T) {
	analyticsRepo := mocks.NewMockAnalyticsRepository()
	analyticsRepo.SellerSummaryFunc = func(ctx context.Context, sellerID string, period domain.Period) (*domain.SellerSummary, error) {
		return &domain.SellerSummary{
			SellerID:       sellerID,
			Period:         period,
			TotalSales:     3,
			TotalRevenue:   decimal.RequireFromString("149.97"),
			TotalEarnings:  decimal.RequireFromString("105.00"),
			CommissionPaid: decimal.RequireFromString("44.97"),
		}, nil
	}

	uc := usecase.NewAnalyticsUseCase(analyticsRepo)

	summary, err := uc.SellerSummary(context.Background(), "seller-1", usecase.PeriodInput{Period: "month"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalSales != 3 {
		t.Errorf("total sales = %d, want 3", summary.TotalSales)
	}
	if !summary.TotalRevenue.Equal(decimal.RequireFromString("149.97")) {
		t.Errorf("total revenue = %s, want 149.97", summary.TotalRevenue)
	}
}

func TestSellerSummary_MissingSellerID(t *testing.T) {
	uc := usecase.NewAnalyticsUseCase(mocks.NewMockAnalyticsRepository())

	if _, err := uc.SellerSummary(context.Background(), "", usecase.PeriodInput{}); !errors.Is(err, domain.ErrMissingSellerID) {
		t.Errorf("expected ErrMissingSellerID, got %v", err)
	}
}

func TestSellerSummary_EmptyWindowYieldsZeroes(t *testing.T) {
	// The mock's default is a zeroed summary, mirroring an aggregate query
	// over a window with no sales.
	uc := usecase.NewAnalyticsUseCase(mocks.NewMockAnalyticsRepository())

	summary, err := uc.SellerSummary(context.Background(), "seller-1", usecase.PeriodInput{Period: "year"})
	if err != nil {
		t.Fatalf("empty window must not error, got %v", err)
	}

	if summary.TotalSales != 0 || !summary.TotalRevenue.IsZero() || !summary.TotalEarnings.IsZero() {
		t.Errorf("expected zeroed summary, got %+v", summary)
	}
}

func TestSellerSummary_InvalidPeriod(t *testing.T) {
	uc := usecase.NewAnalyticsUseCase(mocks.NewMockAnalyticsRepository())

	if _, err := uc.SellerSummary(context.Background(), "seller-1", usecase.PeriodInput{Period: "eon"}); !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestMarketplaceSummary(t *testing.T) {
	analyticsRepo := mocks.NewMockAnalyticsRepository()
	analyticsRepo.MarketplaceSummaryFunc = func(ctx context.Context, period domain.Period) (*domain.MarketplaceSummary, error) {
		return &domain.MarketplaceSummary{
			Period:          period,
			TotalSales:      10,
			TotalRevenue:    decimal.RequireFromString("999.90"),
			TotalCommission: decimal.RequireFromString("299.90"),
			TopSellers: []domain.TopSeller{
				{SellerID: "seller-1", Earnings: decimal.RequireFromString("400.00"), Sales: 6},
				{SellerID: "seller-2", Earnings: decimal.RequireFromString("300.00"), Sales: 4},
			},
			CategoryBreakdown: []domain.CategorySales{
				{Category: "landing-pages", Revenue: decimal.RequireFromString("600.00"), Sales: 7},
			},
		}, nil
	}

	uc := usecase.NewAnalyticsUseCase(analyticsRepo)

	summary, err := uc.MarketplaceSummary(context.Background(), usecase.PeriodInput{Period: "quarter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.TopSellers) != 2 {
		t.Fatalf("expected 2 top sellers, got %d", len(summary.TopSellers))
	}
	if summary.TopSellers[0].SellerID != "seller-1" {
		t.Errorf("top seller = %s, want seller-1", summary.TopSellers[0].SellerID)
	}
	if len(summary.CategoryBreakdown) != 1 {
		t.Errorf("expected 1 category, got %d", len(summary.CategoryBreakdown))
	}
}
