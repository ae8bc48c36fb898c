package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
)

// Aggregations only ever count completed sales; refunded rows stay in the
// table for audit but drop out of every revenue figure.

const topSellersLimit = 10

// AnalyticsRepository implements usecase.AnalyticsRepository and
// usecase.LedgerRepository on top of SQL aggregates.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// SellerSummary aggregates one seller's completed sales over the period.
func (r *AnalyticsRepository) SellerSummary(ctx context.Context, sellerID string, period domain.Period) (*domain.SellerSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(price), 0),
			COALESCE(SUM(seller_earnings), 0),
			COALESCE(SUM(platform_fee), 0)
		FROM sales
		WHERE seller_id = $1 AND status = $2 AND created_at >= $3 AND created_at < $4
	`

	var (
		totalSales     int64
		totalRevenue   pgtype.Numeric
		totalEarnings  pgtype.Numeric
		commissionPaid pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, query,
		sellerID,
		string(domain.SaleStatusCompleted),
		timeToPgTimestamptz(period.From),
		timeToPgTimestamptz(period.To),
	).Scan(&totalSales, &totalRevenue, &totalEarnings, &commissionPaid)
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	return &domain.SellerSummary{
		SellerID:       sellerID,
		Period:         period,
		TotalSales:     totalSales,
		TotalRevenue:   numericToDecimal(totalRevenue),
		TotalEarnings:  numericToDecimal(totalEarnings),
		CommissionPaid: numericToDecimal(commissionPaid),
	}, nil
}

// MarketplaceSummary aggregates the whole marketplace over the period.
func (r *AnalyticsRepository) MarketplaceSummary(ctx context.Context, period domain.Period) (*domain.MarketplaceSummary, error) {
	summary := &domain.MarketplaceSummary{Period: period}

	totalsQuery := `
		SELECT COUNT(*), COALESCE(SUM(price), 0), COALESCE(SUM(platform_fee), 0)
		FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
	`

	var (
		totalRevenue    pgtype.Numeric
		totalCommission pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, totalsQuery,
		string(domain.SaleStatusCompleted),
		timeToPgTimestamptz(period.From),
		timeToPgTimestamptz(period.To),
	).Scan(&summary.TotalSales, &totalRevenue, &totalCommission)
	if err != nil {
		return nil, wrapUnavailable(err)
	}

	summary.TotalRevenue = numericToDecimal(totalRevenue)
	summary.TotalCommission = numericToDecimal(totalCommission)

	summary.TopSellers, err = r.topSellers(ctx, period)
	if err != nil {
		return nil, err
	}

	summary.CategoryBreakdown, err = r.categoryBreakdown(ctx, period)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *AnalyticsRepository) topSellers(ctx context.Context, period domain.Period) ([]domain.TopSeller, error) {
	query := `
		SELECT seller_id, COUNT(*), COALESCE(SUM(seller_earnings), 0)
		FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY seller_id
		ORDER BY SUM(seller_earnings) DESC
		LIMIT $4
	`

	rows, err := r.pool.Query(ctx, query,
		string(domain.SaleStatusCompleted),
		timeToPgTimestamptz(period.From),
		timeToPgTimestamptz(period.To),
		topSellersLimit,
	)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	sellers := make([]domain.TopSeller, 0)
	for rows.Next() {
		var (
			seller   domain.TopSeller
			earnings pgtype.Numeric
		)

		if err := rows.Scan(&seller.SellerID, &seller.Sales, &earnings); err != nil {
			return nil, wrapUnavailable(err)
		}

		seller.Earnings = numericToDecimal(earnings)
		sellers = append(sellers, seller)
	}

	return sellers, wrapUnavailable(rows.Err())
}

func (r *AnalyticsRepository) categoryBreakdown(ctx context.Context, period domain.Period) ([]domain.CategorySales, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(price), 0)
		FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY category
		ORDER BY SUM(price) DESC
	`

	rows, err := r.pool.Query(ctx, query,
		string(domain.SaleStatusCompleted),
		timeToPgTimestamptz(period.From),
		timeToPgTimestamptz(period.To),
	)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	categories := make([]domain.CategorySales, 0)
	for rows.Next() {
		var (
			category domain.CategorySales
			revenue  pgtype.Numeric
		)

		if err := rows.Scan(&category.Category, &category.Sales, &revenue); err != nil {
			return nil, wrapUnavailable(err)
		}

		category.Revenue = numericToDecimal(revenue)
		categories = append(categories, category)
	}

	return categories, wrapUnavailable(rows.Err())
}

// SellerLedgerTotals sums completed sale earnings and non-failed payout
// amounts for one seller, the two sides of the reconciliation check.
func (r *AnalyticsRepository) SellerLedgerTotals(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(seller_earnings), 0) FROM sales WHERE seller_id = $1 AND status = $2),
			(SELECT COALESCE(SUM(amount), 0) FROM payouts WHERE seller_id = $1 AND status <> $3)
	`

	var earned, paidOut pgtype.Numeric

	err := r.pool.QueryRow(ctx, query,
		sellerID,
		string(domain.SaleStatusCompleted),
		string(domain.PayoutStatusFailed),
	).Scan(&earned, &paidOut)
	if err != nil {
		return decimal.Zero, decimal.Zero, wrapUnavailable(err)
	}

	return numericToDecimal(earned), numericToDecimal(paidOut), nil
}
