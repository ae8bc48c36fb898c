package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
	"github.com/ins72/meway-revenue/internal/usecase/mocks"
)

func newSaleHandler(t *testing.T) (*SaleHandler, *mocks.MockBalanceRepository) {
	t.Helper()

	balanceRepo := mocks.NewMockBalanceRepository()
	uc := usecase.NewSaleUseCase(
		mocks.NewMockTxManager(),
		mocks.NewMockSaleRepository(),
		balanceRepo,
		mocks.NewMockOutboxRepository(),
		mocks.NewMockAuditRepository(),
		mocks.NewMockCache(),
		mocks.NewMockIDGenerator(),
		nil,
		zerolog.Nop(),
		domain.DefaultCommissionPolicy(),
		decimal.RequireFromString(domain.DefaultMinimumPayout),
	)

	return NewSaleHandler(uc), balanceRepo
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

func recordSaleBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(dto.RecordSaleRequest{
		TemplateID: "tpl-1",
		SellerID:   "seller-1",
		BuyerID:    "buyer-1",
		Price:      decimal.RequireFromString("49.99"),
		Currency:   "USD",
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return body
}

func TestSaleHandler_Record_Success(t *testing.T) {
	handler, balanceRepo := newSaleHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(recordSaleBody(t)))
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.SaleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != string(domain.SaleStatusCompleted) {
		t.Errorf("status = %s, want completed", resp.Status)
	}
	if !resp.PlatformFee.Equal(decimal.RequireFromString("14.99")) {
		t.Errorf("platform fee = %s, want 14.99", resp.PlatformFee)
	}

	balance, err := balanceRepo.GetBySeller(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("expected balance credit: %v", err)
	}
	if !balance.TotalEarnings.Equal(decimal.RequireFromString("35.00")) {
		t.Errorf("balance = %s, want 35.00", balance.TotalEarnings)
	}
}

func TestSaleHandler_Record_InvalidBody(t *testing.T) {
	handler, _ := newSaleHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaleHandler_Record_ValidationError(t *testing.T) {
	handler, _ := newSaleHandler(t)

	body, _ := json.Marshal(dto.RecordSaleRequest{
		TemplateID: "tpl-1",
		SellerID:   "seller-1",
		BuyerID:    "buyer-1",
		Price:      decimal.Zero,
		Currency:   "USD",
	})

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Record(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSaleHandler_Refund(t *testing.T) {
	handler, _ := newSaleHandler(t)

	// Record a sale first so there is something to refund.
	recReq := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(recordSaleBody(t)))
	recRec := httptest.NewRecorder()
	handler.Record(recRec, recReq)

	var sale dto.SaleResponse
	if err := json.Unmarshal(recRec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("failed to decode sale: %v", err)
	}

	body, _ := json.Marshal(dto.RefundSaleRequest{Reason: "buyer request"})
	req := httptest.NewRequest(http.MethodPost, "/sales/"+sale.ID+"/refund", bytes.NewReader(body))
	req = setChiURLParam(req, "id", sale.ID)
	rec := httptest.NewRecorder()

	handler.Refund(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var refunded dto.SaleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &refunded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if refunded.Status != string(domain.SaleStatusRefunded) {
		t.Errorf("status = %s, want refunded", refunded.Status)
	}

	// A second refund of the same sale is a conflict.
	retryReq := httptest.NewRequest(http.MethodPost, "/sales/"+sale.ID+"/refund", bytes.NewReader(body))
	retryReq = setChiURLParam(retryReq, "id", sale.ID)
	retryRec := httptest.NewRecorder()

	handler.Refund(retryRec, retryReq)

	if retryRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double refund, got %d", retryRec.Code)
	}
}

func TestSaleHandler_Get_NotFound(t *testing.T) {
	handler, _ := newSaleHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/sales/missing", nil)
	req = setChiURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSaleHandler_ListBySeller(t *testing.T) {
	handler, _ := newSaleHandler(t)

	recReq := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader(recordSaleBody(t)))
	handler.Record(httptest.NewRecorder(), recReq)

	req := httptest.NewRequest(http.MethodGet, "/sellers/seller-1/sales?limit=10", nil)
	req = setChiURLParam(req, "id", "seller-1")
	rec := httptest.NewRecorder()

	handler.ListBySeller(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var sales []*dto.SaleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sales); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
}
