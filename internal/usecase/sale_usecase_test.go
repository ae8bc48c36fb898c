package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
	"github.com/ins72/meway-revenue/internal/usecase/mocks"
)

type saleFixture struct {
	txManager   *mocks.MockTxManager
	saleRepo    *mocks.MockSaleRepository
	balanceRepo *mocks.MockBalanceRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	cache       *mocks.MockCache
}

func newSaleUseCase(t *testing.T) (*usecase.SaleUseCase, *saleFixture) {
	t.Helper()

	f := &saleFixture{
		txManager:   mocks.NewMockTxManager(),
		saleRepo:    mocks.NewMockSaleRepository(),
		balanceRepo: mocks.NewMockBalanceRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		cache:       mocks.NewMockCache(),
	}

	uc := usecase.NewSaleUseCase(
		f.txManager,
		f.saleRepo,
		f.balanceRepo,
		f.outboxRepo,
		f.auditRepo,
		f.cache,
		mocks.NewMockIDGenerator(),
		nil,
		zerolog.Nop(),
		domain.DefaultCommissionPolicy(),
		decimal.RequireFromString(domain.DefaultMinimumPayout),
	)

	return uc, f
}

func validRecordInput() usecase.RecordSaleInput {
	return usecase.RecordSaleInput{
		TemplateID: "tpl-1",
		SellerID:   "seller-1",
		BuyerID:    "buyer-1",
		Currency:   "USD",
		Category:   "landing-pages",
		Price:      decimal.RequireFromString("49.99"),
	}
}

func TestRecordSale_Success(t *testing.T) {
	uc, f := newSaleUseCase(t)

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sale.ID == "" {
		t.Error("expected sale ID to be generated")
	}
	if sale.Status != domain.SaleStatusCompleted {
		t.Errorf("status = %s, want %s", sale.Status, domain.SaleStatusCompleted)
	}
	if !sale.PlatformFee.Equal(decimal.RequireFromString("14.99")) {
		t.Errorf("platform fee = %s, want 14.99", sale.PlatformFee)
	}
	if !sale.SellerEarnings.Equal(decimal.RequireFromString("35.00")) {
		t.Errorf("seller earnings = %s, want 35.00", sale.SellerEarnings)
	}
	if !sale.Reconciles() {
		t.Error("expected split to reconcile with price")
	}

	balance, err := f.balanceRepo.GetBySeller(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("expected balance to exist: %v", err)
	}
	if !balance.TotalEarnings.Equal(sale.SellerEarnings) {
		t.Errorf("balance = %s, want %s", balance.TotalEarnings, sale.SellerEarnings)
	}
	if balance.SaleCount != 1 {
		t.Errorf("sale count = %d, want 1", balance.SaleCount)
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(events))
	}
	if events[0].EventType != domain.EventTypeSaleRecorded {
		t.Errorf("event type = %s, want %s", events[0].EventType, domain.EventTypeSaleRecorded)
	}
	if events[0].AggregateID != sale.ID {
		t.Errorf("aggregate id = %s, want %s", events[0].AggregateID, sale.ID)
	}

	logs, _ := f.auditRepo.GetByResourceID(context.Background(), "sale", sale.ID)
	if len(logs) != 1 {
		t.Errorf("expected 1 audit entry, got %d", len(logs))
	}
}

func TestRecordSale_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*usecase.RecordSaleInput)
		errorType error
	}{
		{
			name:      "zero price",
			mutate:    func(in *usecase.RecordSaleInput) { in.Price = decimal.Zero },
			errorType: domain.ErrInvalidAmount,
		},
		{
			name:      "negative price",
			mutate:    func(in *usecase.RecordSaleInput) { in.Price = decimal.NewFromInt(-10) },
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "amount too large",
			mutate: func(in *usecase.RecordSaleInput) {
				in.Price = decimal.RequireFromString(domain.MaxSaleAmount).Add(decimal.NewFromInt(1))
			},
			errorType: domain.ErrAmountTooLarge,
		},
		{
			name:      "invalid currency",
			mutate:    func(in *usecase.RecordSaleInput) { in.Currency = "XYZ" },
			errorType: domain.ErrInvalidCurrency,
		},
		{
			name:      "missing template",
			mutate:    func(in *usecase.RecordSaleInput) { in.TemplateID = "" },
			errorType: domain.ErrMissingTemplateID,
		},
		{
			name:      "missing seller",
			mutate:    func(in *usecase.RecordSaleInput) { in.SellerID = "" },
			errorType: domain.ErrMissingSellerID,
		},
		{
			name:      "missing buyer",
			mutate:    func(in *usecase.RecordSaleInput) { in.BuyerID = "" },
			errorType: domain.ErrMissingBuyerID,
		},
		{
			name: "snapshot too large",
			mutate: func(in *usecase.RecordSaleInput) {
				in.TemplateSnapshot = map[string]any{"blob": strings.Repeat("x", domain.MaxSnapshotSize+1)}
			},
			errorType: domain.ErrSnapshotTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, f := newSaleUseCase(t)

			input := validRecordInput()
			tt.mutate(&input)

			_, err := uc.RecordSale(context.Background(), input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("RecordSale() error = %v, want %v", err, tt.errorType)
			}

			if len(f.outboxRepo.Events()) != 0 {
				t.Error("rejected sale must not write outbox events")
			}
		})
	}
}

func TestRecordSale_CreateFailureRollsBack(t *testing.T) {
	uc, f := newSaleUseCase(t)

	tx := &mocks.MockTransaction{}
	f.txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return tx, nil
	}

	storageErr := errors.New("connection reset")
	f.saleRepo.CreateFunc = func(ctx context.Context, _ usecase.Transaction, _ *domain.Sale) error {
		return storageErr
	}

	_, err := uc.RecordSale(context.Background(), validRecordInput())
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}

	if tx.Committed {
		t.Error("transaction must not commit when the sale insert fails")
	}
	if !tx.RolledBack {
		t.Error("transaction must roll back when the sale insert fails")
	}

	if _, err := f.balanceRepo.GetBySeller(context.Background(), "seller-1"); !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Error("failed sale must not credit the seller balance")
	}
}

func TestRecordSale_IncrementFailureKeepsSale(t *testing.T) {
	uc, f := newSaleUseCase(t)

	f.balanceRepo.IncrementFunc = func(ctx context.Context, _ usecase.IncrementParams) error {
		return domain.ErrStorageUnavailable
	}

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("a failed increment must not fail the recorded sale, got %v", err)
	}

	stored, err := f.saleRepo.GetByID(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("sale should be persisted: %v", err)
	}
	if stored.Status != domain.SaleStatusCompleted {
		t.Errorf("status = %s, want %s", stored.Status, domain.SaleStatusCompleted)
	}
}

func TestRefundSale_MissingBalanceRowStillRefunds(t *testing.T) {
	uc, f := newSaleUseCase(t)

	// The sale commits but its balance increment never lands, leaving no
	// balance row for the refund to decrement.
	f.balanceRepo.IncrementFunc = func(ctx context.Context, _ usecase.IncrementParams) error {
		return domain.ErrStorageUnavailable
	}

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refunded, err := uc.RefundSale(context.Background(), sale.ID, "buyer request", "admin-1")
	if err != nil {
		t.Fatalf("refund must land even without a balance row, got %v", err)
	}

	if refunded.Status != domain.SaleStatusRefunded {
		t.Errorf("status = %s, want %s", refunded.Status, domain.SaleStatusRefunded)
	}

	if _, err := f.balanceRepo.GetBySeller(context.Background(), "seller-1"); !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Errorf("expected no balance row to appear, got %v", err)
	}

	events := f.outboxRepo.Events()
	if events[len(events)-1].EventType != domain.EventTypeSaleRefunded {
		t.Errorf("event type = %s, want %s", events[len(events)-1].EventType, domain.EventTypeSaleRefunded)
	}
}

func TestRefundSale_Success(t *testing.T) {
	uc, f := newSaleUseCase(t)

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	refunded, err := uc.RefundSale(context.Background(), sale.ID, "buyer request", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refunded.Status != domain.SaleStatusRefunded {
		t.Errorf("status = %s, want %s", refunded.Status, domain.SaleStatusRefunded)
	}
	if refunded.RefundedAt == nil {
		t.Error("expected RefundedAt to be set")
	}
	if refunded.RefundReason == nil || *refunded.RefundReason != "buyer request" {
		t.Error("expected refund reason to be recorded")
	}

	balance, err := f.balanceRepo.GetBySeller(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.TotalEarnings.IsZero() {
		t.Errorf("balance after refund = %s, want 0", balance.TotalEarnings)
	}

	events := f.outboxRepo.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 outbox events, got %d", len(events))
	}
	if events[1].EventType != domain.EventTypeSaleRefunded {
		t.Errorf("event type = %s, want %s", events[1].EventType, domain.EventTypeSaleRefunded)
	}
}

func TestRefundSale_AlreadyRefunded(t *testing.T) {
	uc, _ := newSaleUseCase(t)

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.RefundSale(context.Background(), sale.ID, "first", ""); err != nil {
		t.Fatalf("first refund failed: %v", err)
	}

	if _, err := uc.RefundSale(context.Background(), sale.ID, "second", ""); !errors.Is(err, domain.ErrSaleAlreadyRefunded) {
		t.Errorf("expected ErrSaleAlreadyRefunded, got %v", err)
	}
}

func TestRefundSale_NotFound(t *testing.T) {
	uc, _ := newSaleUseCase(t)

	if _, err := uc.RefundSale(context.Background(), "missing", "reason", ""); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Errorf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestRefundSale_ClampsBalanceAtZero(t *testing.T) {
	uc, f := newSaleUseCase(t)

	sale, err := uc.RecordSale(context.Background(), validRecordInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Drain most of the balance before refunding, so the decrement would
	// otherwise push it negative.
	if err := f.balanceRepo.Decrement(context.Background(), nil, sale.SellerID, decimal.RequireFromString("30.00"), sale.CreatedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.RefundSale(context.Background(), sale.ID, "buyer request", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, err := f.balanceRepo.GetBySeller(context.Background(), sale.SellerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.TotalEarnings.IsZero() {
		t.Errorf("balance = %s, want 0", balance.TotalEarnings)
	}
}

func TestListSellerSales_MissingSeller(t *testing.T) {
	uc, _ := newSaleUseCase(t)

	_, err := uc.ListSellerSales(context.Background(), usecase.ListSellerSalesInput{})
	if !errors.Is(err, domain.ErrMissingSellerID) {
		t.Errorf("expected ErrMissingSellerID, got %v", err)
	}
}

func TestRecordSale_ConcurrentSameSeller(t *testing.T) {
	uc, f := newSaleUseCase(t)

	const workers = 20
	done := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			_, err := uc.RecordSale(context.Background(), validRecordInput())
			done <- err
		}()
	}

	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	balance, err := f.balanceRepo.GetBySeller(context.Background(), "seller-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := decimal.RequireFromString("35.00").Mul(decimal.NewFromInt(workers))
	if !balance.TotalEarnings.Equal(want) {
		t.Errorf("balance = %s, want %s", balance.TotalEarnings, want)
	}
	if balance.SaleCount != workers {
		t.Errorf("sale count = %d, want %d", balance.SaleCount, workers)
	}
}
