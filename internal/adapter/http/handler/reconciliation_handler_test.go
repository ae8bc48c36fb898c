package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/usecase"
	"github.com/ins72/meway-revenue/internal/usecase/mocks"
)

func newReconciliationHandler(t *testing.T) (*ReconciliationHandler, *mocks.MockBalanceRepository, *mocks.MockLedgerRepository) {
	t.Helper()

	balanceRepo := mocks.NewMockBalanceRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	uc := usecase.NewReconciliationUseCase(balanceRepo, ledgerRepo)

	return NewReconciliationHandler(uc), balanceRepo, ledgerRepo
}

func TestReconciliationHandler_Seller_Balanced(t *testing.T) {
	handler, balanceRepo, ledgerRepo := newReconciliationHandler(t)
	seedSellerBalance(t, balanceRepo, "seller-1", "70.00")
	ledgerRepo.SellerLedgerTotalsFunc = func(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.RequireFromString("100.00"), decimal.RequireFromString("30.00"), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/reconciliation/sellers/seller-1", nil)
	req = setChiURLParam(req, "id", "seller-1")
	rec := httptest.NewRecorder()

	handler.Seller(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ReconciliationResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.IsReconciled {
		t.Errorf("expected seller to be reconciled, got %+v", resp)
	}
	if !resp.Difference.IsZero() {
		t.Errorf("expected zero difference, got %s", resp.Difference)
	}
}

func TestReconciliationHandler_Seller_Drifted(t *testing.T) {
	handler, balanceRepo, ledgerRepo := newReconciliationHandler(t)
	seedSellerBalance(t, balanceRepo, "seller-1", "50.00")
	ledgerRepo.SellerLedgerTotalsFunc = func(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.RequireFromString("100.00"), decimal.RequireFromString("30.00"), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/reconciliation/sellers/seller-1", nil)
	req = setChiURLParam(req, "id", "seller-1")
	rec := httptest.NewRecorder()

	handler.Seller(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ReconciliationResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.IsReconciled {
		t.Errorf("expected discrepancy, got %+v", resp)
	}
	if !resp.Difference.Equal(decimal.RequireFromString("-20.00")) {
		t.Errorf("expected difference -20.00, got %s", resp.Difference)
	}
}

func TestReconciliationHandler_Seller_NotFound(t *testing.T) {
	handler, _, _ := newReconciliationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/reconciliation/sellers/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Seller(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestReconciliationHandler_Run(t *testing.T) {
	handler, balanceRepo, ledgerRepo := newReconciliationHandler(t)
	seedSellerBalance(t, balanceRepo, "seller-good", "100.00")
	seedSellerBalance(t, balanceRepo, "seller-drifted", "80.00")
	ledgerRepo.SellerLedgerTotalsFunc = func(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.RequireFromString("100.00"), decimal.Zero, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/reconciliation/run", nil)
	rec := httptest.NewRecorder()

	handler.Run(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ReconciliationReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TotalSellers != 2 {
		t.Errorf("expected 2 sellers checked, got %d", resp.TotalSellers)
	}
	if resp.ReconciledSellers != 1 {
		t.Errorf("expected 1 reconciled seller, got %d", resp.ReconciledSellers)
	}
	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].SellerID != "seller-drifted" {
		t.Errorf("unexpected discrepancies: %+v", resp.Discrepancies)
	}
}
