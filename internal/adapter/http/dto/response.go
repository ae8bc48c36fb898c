package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// SaleResponse represents a sale in API responses.
type SaleResponse struct {
	ID               string          `json:"id"`
	TemplateID       string          `json:"template_id"`
	SellerID         string          `json:"seller_id"`
	BuyerID          string          `json:"buyer_id"`
	Price            decimal.Decimal `json:"price"`
	Currency         string          `json:"currency"`
	Category         string          `json:"category,omitempty"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	PlatformFee      decimal.Decimal `json:"platform_fee"`
	SellerEarnings   decimal.Decimal `json:"seller_earnings"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	TransactionRef   string          `json:"transaction_ref,omitempty"`
	TemplateSnapshot map[string]any  `json:"template_snapshot,omitempty"`
	BuyerSnapshot    map[string]any  `json:"buyer_snapshot,omitempty"`
	Status           string          `json:"status"`
	RefundReason     *string         `json:"refund_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	RefundedAt       *time.Time      `json:"refunded_at,omitempty"`
}

// SaleFromDomain converts a domain sale to a response.
func SaleFromDomain(s *domain.Sale) *SaleResponse {
	return &SaleResponse{
		ID:               s.ID,
		TemplateID:       s.TemplateID,
		SellerID:         s.SellerID,
		BuyerID:          s.BuyerID,
		Price:            s.Price,
		Currency:         s.Currency,
		Category:         s.Category,
		CommissionRate:   s.CommissionRate,
		PlatformFee:      s.PlatformFee,
		SellerEarnings:   s.SellerEarnings,
		PaymentMethod:    s.PaymentMethod,
		TransactionRef:   s.TransactionRef,
		TemplateSnapshot: s.TemplateSnapshot,
		BuyerSnapshot:    s.BuyerSnapshot,
		Status:           string(s.Status),
		RefundReason:     s.RefundReason,
		CreatedAt:        s.CreatedAt,
		RefundedAt:       s.RefundedAt,
	}
}

// SalesFromDomain converts domain sales to responses.
func SalesFromDomain(sales []*domain.Sale) []*SaleResponse {
	result := make([]*SaleResponse, len(sales))
	for i, s := range sales {
		result[i] = SaleFromDomain(s)
	}
	return result
}

// BalanceResponse represents a seller balance in API responses.
type BalanceResponse struct {
	SellerID       string          `json:"seller_id"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	SaleCount      int64           `json:"sale_count"`
	Currency       string          `json:"currency"`
	MinimumPayout  decimal.Decimal `json:"minimum_payout"`
	PayoutEligible bool            `json:"payout_eligible"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BalanceFromDomain converts a domain balance to a response.
func BalanceFromDomain(b *domain.SellerBalance) *BalanceResponse {
	return &BalanceResponse{
		SellerID:       b.SellerID,
		TotalEarnings:  b.TotalEarnings,
		SaleCount:      b.SaleCount,
		Currency:       b.Currency,
		MinimumPayout:  b.MinimumPayout,
		PayoutEligible: b.TotalEarnings.GreaterThanOrEqual(b.MinimumPayout),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []*domain.SellerBalance) []*BalanceResponse {
	result := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceFromDomain(b)
	}
	return result
}

// PayoutResponse represents a payout in API responses.
type PayoutResponse struct {
	ID             string          `json:"id"`
	SellerID       string          `json:"seller_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	PaymentDetails map[string]any  `json:"payment_details,omitempty"`
	Status         string          `json:"status"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

// PayoutFromDomain converts a domain payout to a response.
func PayoutFromDomain(p *domain.Payout) *PayoutResponse {
	return &PayoutResponse{
		ID:             p.ID,
		SellerID:       p.SellerID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentMethod:  p.PaymentMethod,
		PaymentDetails: p.PaymentDetails,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		ProcessedAt:    p.ProcessedAt,
	}
}

// PayoutsFromDomain converts domain payouts to responses.
func PayoutsFromDomain(payouts []*domain.Payout) []*PayoutResponse {
	result := make([]*PayoutResponse, len(payouts))
	for i, p := range payouts {
		result[i] = PayoutFromDomain(p)
	}
	return result
}

// SellerSummaryResponse represents seller analytics in API responses.
type SellerSummaryResponse struct {
	SellerID       string          `json:"seller_id"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	TotalSales     int64           `json:"total_sales"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	CommissionPaid decimal.Decimal `json:"commission_paid"`
}

// SellerSummaryFromDomain converts a domain seller summary to a response.
func SellerSummaryFromDomain(s *domain.SellerSummary) *SellerSummaryResponse {
	return &SellerSummaryResponse{
		SellerID:       s.SellerID,
		From:           s.Period.From,
		To:             s.Period.To,
		TotalSales:     s.TotalSales,
		TotalRevenue:   s.TotalRevenue,
		TotalEarnings:  s.TotalEarnings,
		CommissionPaid: s.CommissionPaid,
	}
}

// TopSellerResponse is one leaderboard row.
type TopSellerResponse struct {
	SellerID string          `json:"seller_id"`
	Sales    int64           `json:"sales"`
	Earnings decimal.Decimal `json:"earnings"`
}

// CategorySalesResponse is one category breakdown row.
type CategorySalesResponse struct {
	Category string          `json:"category"`
	Sales    int64           `json:"sales"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// MarketplaceSummaryResponse represents marketplace analytics in API responses.
type MarketplaceSummaryResponse struct {
	From              time.Time               `json:"from"`
	To                time.Time               `json:"to"`
	TotalSales        int64                   `json:"total_sales"`
	TotalRevenue      decimal.Decimal         `json:"total_revenue"`
	TotalCommission   decimal.Decimal         `json:"total_commission"`
	TopSellers        []TopSellerResponse     `json:"top_sellers"`
	CategoryBreakdown []CategorySalesResponse `json:"category_breakdown"`
}

// MarketplaceSummaryFromDomain converts a domain marketplace summary to a response.
func MarketplaceSummaryFromDomain(s *domain.MarketplaceSummary) *MarketplaceSummaryResponse {
	resp := &MarketplaceSummaryResponse{
		From:              s.Period.From,
		To:                s.Period.To,
		TotalSales:        s.TotalSales,
		TotalRevenue:      s.TotalRevenue,
		TotalCommission:   s.TotalCommission,
		TopSellers:        make([]TopSellerResponse, len(s.TopSellers)),
		CategoryBreakdown: make([]CategorySalesResponse, len(s.CategoryBreakdown)),
	}

	for i, ts := range s.TopSellers {
		resp.TopSellers[i] = TopSellerResponse{
			SellerID: ts.SellerID,
			Sales:    ts.Sales,
			Earnings: ts.Earnings,
		}
	}

	for i, cs := range s.CategoryBreakdown {
		resp.CategoryBreakdown[i] = CategorySalesResponse{
			Category: cs.Category,
			Sales:    cs.Sales,
			Revenue:  cs.Revenue,
		}
	}

	return resp
}

// ReconciliationResultResponse represents one seller's reconciliation check.
type ReconciliationResultResponse struct {
	SellerID          string          `json:"seller_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationResultFromUseCase converts a reconciliation result to a response.
func ReconciliationResultFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResultResponse {
	return &ReconciliationResultResponse{
		SellerID:          r.SellerID,
		RecordedBalance:   r.RecordedBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse represents a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalSellers      int                             `json:"total_sellers"`
	ReconciledSellers int                             `json:"reconciled_sellers"`
	Discrepancies     []*ReconciliationResultResponse `json:"discrepancies"`
	CheckedAt         time.Time                       `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationResultFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		TotalSellers:      r.TotalSellers,
		ReconciledSellers: r.ReconciledSellers,
		Discrepancies:     discrepancies,
		CheckedAt:         r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
