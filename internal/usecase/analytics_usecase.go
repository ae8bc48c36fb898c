package usecase

import (
	"context"
	"time"

	"github.com/ins72/meway-revenue/internal/domain"
)

// AnalyticsUseCase serves read-only reporting over sale and payout history.
type AnalyticsUseCase struct {
	analyticsRepo AnalyticsRepository
}

// NewAnalyticsUseCase creates a new AnalyticsUseCase.
func NewAnalyticsUseCase(analyticsRepo AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo}
}

// PeriodInput selects a reporting window: a named period, or custom bounds.
type PeriodInput struct {
	From   *time.Time
	To     *time.Time
	Period string
}

// Resolve turns the input into a concrete window relative to now.
func (in PeriodInput) Resolve(now time.Time) (domain.Period, error) {
	if in.From != nil && in.To != nil {
		return domain.CustomPeriod(*in.From, *in.To)
	}

	return domain.PeriodFromString(in.Period, now)
}

// SellerSummary aggregates one seller's sales over the period. An empty
// window yields a zeroed summary, not an error.
func (uc *AnalyticsUseCase) SellerSummary(ctx context.Context, sellerID string, input PeriodInput) (*domain.SellerSummary, error) {
	if sellerID == "" {
		return nil, domain.ErrMissingSellerID
	}

	period, err := input.Resolve(time.Now())
	if err != nil {
		return nil, err
	}

	return uc.analyticsRepo.SellerSummary(ctx, sellerID, period)
}

// MarketplaceSummary aggregates the whole marketplace over the period.
func (uc *AnalyticsUseCase) MarketplaceSummary(ctx context.Context, input PeriodInput) (*domain.MarketplaceSummary, error) {
	period, err := input.Resolve(time.Now())
	if err != nil {
		return nil, err
	}

	return uc.analyticsRepo.MarketplaceSummary(ctx, period)
}
