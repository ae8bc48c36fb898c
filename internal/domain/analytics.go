package domain

import "github.com/shopspring/decimal"

// SellerSummary aggregates one seller's completed sales over a period.
type SellerSummary struct {
	SellerID       string
	Period         Period
	TotalSales     int64
	TotalRevenue   decimal.Decimal
	TotalEarnings  decimal.Decimal
	CommissionPaid decimal.Decimal
}

// TopSeller is one row of the marketplace leaderboard.
type TopSeller struct {
	SellerID string
	Sales    int64
	Earnings decimal.Decimal
}

// CategorySales is revenue broken down by template category.
type CategorySales struct {
	Category string
	Sales    int64
	Revenue  decimal.Decimal
}

// MarketplaceSummary aggregates the whole marketplace over a period.
type MarketplaceSummary struct {
	Period            Period
	TotalSales        int64
	TotalRevenue      decimal.Decimal
	TotalCommission   decimal.Decimal
	TopSellers        []TopSeller
	CategoryBreakdown []CategorySales
}
