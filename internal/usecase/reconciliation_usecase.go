package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationUseCase verifies that balances, sales, and payouts remain
// mutually consistent. It exists because a sale can commit without its
// balance increment landing; the report surfaces those divergences for an
// operator to resolve.
type ReconciliationUseCase struct {
	balanceRepo BalanceRepository
	ledgerRepo  LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(balanceRepo BalanceRepository, ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ReconciliationResult represents the result of one seller's check
type ReconciliationResult struct {
	LastChecked       time.Time
	SellerID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
}

// ReconcileSeller compares a seller's recorded balance against the sum of
// completed-sale earnings minus non-failed payout amounts, clamped at zero.
func (uc *ReconciliationUseCase) ReconcileSeller(ctx context.Context, sellerID string) (*ReconciliationResult, error) {
	balance, err := uc.balanceRepo.GetBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	earned, paidOut, err := uc.ledgerRepo.SellerLedgerTotals(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	calculated := earned.Sub(paidOut)
	if calculated.IsNegative() {
		calculated = decimal.Zero
	}

	diff := balance.TotalEarnings.Sub(calculated)

	return &ReconciliationResult{
		SellerID:          sellerID,
		RecordedBalance:   balance.TotalEarnings,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	CheckedAt         time.Time
	Discrepancies     []*ReconciliationResult
	TotalSellers      int
	ReconciledSellers int
}

// reconcilePageSize stays within the pagination cap so no page is silently
// truncated.
const reconcilePageSize = 1000

// ReconcileAll checks every seller with a pending balance, paging through
// the full set so the report is complete regardless of seller count.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for offset := 0; ; offset += reconcilePageSize {
		balances, err := uc.balanceRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}

		report.TotalSellers += len(balances)

		for _, balance := range balances {
			result, err := uc.ReconcileSeller(ctx, balance.SellerID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile seller %s: %w", balance.SellerID, err)
			}

			if result.IsReconciled {
				report.ReconciledSellers++
			} else {
				report.Discrepancies = append(report.Discrepancies, result)
			}
		}

		if len(balances) < reconcilePageSize {
			break
		}
	}

	return report, nil
}
