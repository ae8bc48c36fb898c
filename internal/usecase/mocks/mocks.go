package mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// MockSaleRepository is a mock implementation of SaleRepository.
type MockSaleRepository struct {
	mu    sync.RWMutex
	sales map[string]*domain.Sale

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Sale, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Sale, error)
	MarkRefundedFunc     func(ctx context.Context, tx usecase.Transaction, id, reason string, refundedAt time.Time) error
	ListBySellerFunc     func(ctx context.Context, sellerID string, status *domain.SaleStatus, limit, offset int) ([]*domain.Sale, error)
}

func NewMockSaleRepository() *MockSaleRepository {
	return &MockSaleRepository{sales: make(map[string]*domain.Sale)}
}

func (m *MockSaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, sale)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *sale
	m.sales[sale.ID] = &copied
	return nil
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sale, ok := m.sales[id]; ok {
		copied := *sale
		return &copied, nil
	}
	return nil, domain.ErrSaleNotFound
}

func (m *MockSaleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Sale, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockSaleRepository) MarkRefunded(ctx context.Context, tx usecase.Transaction, id, reason string, refundedAt time.Time) error {
	if m.MarkRefundedFunc != nil {
		return m.MarkRefundedFunc(ctx, tx, id, reason, refundedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sale, ok := m.sales[id]
	if !ok {
		return domain.ErrSaleNotFound
	}
	sale.Status = domain.SaleStatusRefunded
	sale.RefundedAt = &refundedAt
	sale.RefundReason = &reason
	return nil
}

func (m *MockSaleRepository) ListBySeller(ctx context.Context, sellerID string, status *domain.SaleStatus, limit, offset int) ([]*domain.Sale, error) {
	if m.ListBySellerFunc != nil {
		return m.ListBySellerFunc(ctx, sellerID, status, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sales []*domain.Sale
	for _, sale := range m.sales {
		if sale.SellerID != sellerID {
			continue
		}
		if status != nil && sale.Status != *status {
			continue
		}
		copied := *sale
		sales = append(sales, &copied)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].CreatedAt.After(sales[j].CreatedAt) })
	return sales, nil
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
// Its default behavior performs real atomic arithmetic under a mutex, which
// is what the concurrency tests lean on.
type MockBalanceRepository struct {
	mu       sync.Mutex
	balances map[string]*domain.SellerBalance

	IncrementFunc            func(ctx context.Context, params usecase.IncrementParams) error
	IncrementTxFunc          func(ctx context.Context, tx usecase.Transaction, params usecase.IncrementParams) error
	DecrementFunc            func(ctx context.Context, tx usecase.Transaction, sellerID string, amount decimal.Decimal, updatedAt time.Time) error
	GetBySellerFunc          func(ctx context.Context, sellerID string) (*domain.SellerBalance, error)
	GetBySellerForUpdateFunc func(ctx context.Context, tx usecase.Transaction, sellerID string) (*domain.SellerBalance, error)
	ListFunc                 func(ctx context.Context, limit, offset int) ([]*domain.SellerBalance, error)
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{balances: make(map[string]*domain.SellerBalance)}
}

func (m *MockBalanceRepository) apply(params usecase.IncrementParams) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[params.SellerID]
	if !ok {
		m.balances[params.SellerID] = &domain.SellerBalance{
			SellerID:      params.SellerID,
			TotalEarnings: params.Amount,
			SaleCount:     1,
			Currency:      params.Currency,
			MinimumPayout: params.MinimumPayout,
			CreatedAt:     params.UpdatedAt,
			UpdatedAt:     params.UpdatedAt,
		}
		return
	}

	balance.TotalEarnings = balance.TotalEarnings.Add(params.Amount)
	balance.SaleCount++
	balance.UpdatedAt = params.UpdatedAt
}

func (m *MockBalanceRepository) Increment(ctx context.Context, params usecase.IncrementParams) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, params)
	}
	m.apply(params)
	return nil
}

func (m *MockBalanceRepository) IncrementTx(ctx context.Context, tx usecase.Transaction, params usecase.IncrementParams) error {
	if m.IncrementTxFunc != nil {
		return m.IncrementTxFunc(ctx, tx, params)
	}
	m.apply(params)
	return nil
}

func (m *MockBalanceRepository) Decrement(ctx context.Context, tx usecase.Transaction, sellerID string, amount decimal.Decimal, updatedAt time.Time) error {
	if m.DecrementFunc != nil {
		return m.DecrementFunc(ctx, tx, sellerID, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[sellerID]
	if !ok {
		return domain.ErrBalanceNotFound
	}
	balance.TotalEarnings = balance.TotalEarnings.Sub(amount)
	if balance.TotalEarnings.IsNegative() {
		balance.TotalEarnings = decimal.Zero
	}
	balance.UpdatedAt = updatedAt
	return nil
}

func (m *MockBalanceRepository) GetBySeller(ctx context.Context, sellerID string) (*domain.SellerBalance, error) {
	if m.GetBySellerFunc != nil {
		return m.GetBySellerFunc(ctx, sellerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if balance, ok := m.balances[sellerID]; ok {
		copied := *balance
		return &copied, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) GetBySellerForUpdate(ctx context.Context, tx usecase.Transaction, sellerID string) (*domain.SellerBalance, error) {
	if m.GetBySellerForUpdateFunc != nil {
		return m.GetBySellerForUpdateFunc(ctx, tx, sellerID)
	}
	return m.GetBySeller(ctx, sellerID)
}

func (m *MockBalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.SellerBalance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var balances []*domain.SellerBalance
	for _, balance := range m.balances {
		copied := *balance
		balances = append(balances, &copied)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].SellerID < balances[j].SellerID })
	return balances, nil
}

// MockPayoutRepository is a mock implementation of PayoutRepository.
type MockPayoutRepository struct {
	mu      sync.RWMutex
	payouts map[string]*domain.Payout

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, payout *domain.Payout) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Payout, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payout, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, transactionRef, notes string, processedAt time.Time) error
	ListFunc             func(ctx context.Context, filter usecase.PayoutFilter) ([]*domain.Payout, error)
}

func NewMockPayoutRepository() *MockPayoutRepository {
	return &MockPayoutRepository{payouts: make(map[string]*domain.Payout)}
}

func (m *MockPayoutRepository) Create(ctx context.Context, tx usecase.Transaction, payout *domain.Payout) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payout)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *payout
	m.payouts[payout.ID] = &copied
	return nil
}

func (m *MockPayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if payout, ok := m.payouts[id]; ok {
		copied := *payout
		return &copied, nil
	}
	return nil, domain.ErrPayoutNotFound
}

func (m *MockPayoutRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payout, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPayoutRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, transactionRef, notes string, processedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, transactionRef, notes, processedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payout, ok := m.payouts[id]
	if !ok {
		return domain.ErrPayoutNotFound
	}
	payout.Status = status
	payout.TransactionRef = transactionRef
	if notes != "" {
		payout.Notes = notes
	}
	payout.ProcessedAt = &processedAt
	return nil
}

func (m *MockPayoutRepository) List(ctx context.Context, filter usecase.PayoutFilter) ([]*domain.Payout, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var payouts []*domain.Payout
	for _, payout := range m.payouts {
		if filter.SellerID != "" && payout.SellerID != filter.SellerID {
			continue
		}
		if filter.Status != nil && payout.Status != *filter.Status {
			continue
		}
		copied := *payout
		payouts = append(payouts, &copied)
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].CreatedAt.After(payouts[j].CreatedAt) })
	return payouts, nil
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository.
type MockAnalyticsRepository struct {
	SellerSummaryFunc      func(ctx context.Context, sellerID string, period domain.Period) (*domain.SellerSummary, error)
	MarketplaceSummaryFunc func(ctx context.Context, period domain.Period) (*domain.MarketplaceSummary, error)
}

func NewMockAnalyticsRepository() *MockAnalyticsRepository {
	return &MockAnalyticsRepository{}
}

func (m *MockAnalyticsRepository) SellerSummary(ctx context.Context, sellerID string, period domain.Period) (*domain.SellerSummary, error) {
	if m.SellerSummaryFunc != nil {
		return m.SellerSummaryFunc(ctx, sellerID, period)
	}
	return &domain.SellerSummary{
		SellerID:       sellerID,
		Period:         period,
		TotalRevenue:   decimal.Zero,
		TotalEarnings:  decimal.Zero,
		CommissionPaid: decimal.Zero,
	}, nil
}

func (m *MockAnalyticsRepository) MarketplaceSummary(ctx context.Context, period domain.Period) (*domain.MarketplaceSummary, error) {
	if m.MarketplaceSummaryFunc != nil {
		return m.MarketplaceSummaryFunc(ctx, period)
	}
	return &domain.MarketplaceSummary{
		Period:            period,
		TotalRevenue:      decimal.Zero,
		TotalCommission:   decimal.Zero,
		TopSellers:        []domain.TopSeller{},
		CategoryBreakdown: []domain.CategorySales{},
	}, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	SellerLedgerTotalsFunc func(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) SellerLedgerTotals(ctx context.Context, sellerID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SellerLedgerTotalsFunc != nil {
		return m.SellerLedgerTotalsFunc(ctx, sellerID)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var unpublished []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			unpublished = append(unpublished, event)
		}
		if len(unpublished) == limit {
			break
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, event := range m.events {
		if !event.Published || event.PublishedAt == nil || !event.PublishedAt.Before(before) {
			kept = append(kept, event)
		}
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of everything written to the outbox.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.Mutex
	logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.logs...), nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.AuditLog
	for _, log := range m.logs {
		if log.ResourceType == resourceType && log.ResourceID == resourceID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTxManager is a mock implementation of TransactionManager.
type MockTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.values[key]; ok {
		return value, nil
	}
	return "", errCacheMiss
}

var errCacheMiss = errors.New("cache miss")

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
