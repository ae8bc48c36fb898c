package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/infrastructure/metrics"
)

// PayoutUseCase creates and advances disbursements to sellers. All payout
// mutations are administrator actions, never automatic.
type PayoutUseCase struct {
	txManager   TransactionManager
	payoutRepo  PayoutRepository
	balanceRepo BalanceRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	// minimumPayout seeds the threshold when a failed-payout restore has to
	// recreate a missing balance row.
	minimumPayout decimal.Decimal
}

// NewPayoutUseCase creates a new PayoutUseCase.
func NewPayoutUseCase(
	txManager TransactionManager,
	payoutRepo PayoutRepository,
	balanceRepo BalanceRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
	logger zerolog.Logger,
	minimumPayout decimal.Decimal,
) *PayoutUseCase {
	return &PayoutUseCase{
		txManager:     txManager,
		payoutRepo:    payoutRepo,
		balanceRepo:   balanceRepo,
		outboxRepo:    outboxRepo,
		auditRepo:     auditRepo,
		cache:         cache,
		idGen:         idGen,
		metrics:       m,
		logger:        logger,
		minimumPayout: minimumPayout,
	}
}

// CreatePayoutInput represents input for creating a payout.
type CreatePayoutInput struct {
	PaymentDetails map[string]any
	SellerID       string
	Currency       string
	PaymentMethod  string
	Notes          string
	Amount         decimal.Decimal
}

// CreatePayout reserves amount from the seller's pending balance and creates
// a processing payout. The balance row is locked for the duration of the
// transaction, so two concurrent payout creations for the same seller cannot
// both see the same pending total and over-disburse.
func (uc *PayoutUseCase) CreatePayout(ctx context.Context, input CreatePayoutInput) (*domain.Payout, error) {
	payout := &domain.Payout{
		ID:             uc.idGen.Generate(),
		SellerID:       input.SellerID,
		Amount:         input.Amount,
		Currency:       input.Currency,
		PaymentMethod:  input.PaymentMethod,
		PaymentDetails: input.PaymentDetails,
		Notes:          input.Notes,
		Status:         domain.PayoutStatusProcessing,
		CreatedAt:      time.Now().UTC(),
	}

	if err := payout.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Per-seller critical section: lock the balance row.
	balance, err := uc.balanceRepo.GetBySellerForUpdate(txCtx, tx, input.SellerID)
	if err != nil {
		return nil, err
	}

	if err := balance.CanDisburse(input.Amount); err != nil {
		return nil, err
	}

	// The payout drains this balance, so its currency must agree. An empty
	// request currency inherits the balance currency.
	if payout.Currency == "" {
		payout.Currency = balance.Currency
	} else if payout.Currency != balance.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	// Decrement in the same transaction that creates the payout, keeping
	// total_earnings equal to the sum of unpaid, non-refunded earnings.
	if err := uc.balanceRepo.Decrement(txCtx, tx, input.SellerID, input.Amount, payout.CreatedAt); err != nil {
		return nil, err
	}

	if err := uc.payoutRepo.Create(txCtx, tx, payout); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payout.ID,
		AggregateType: domain.AggregateTypePayout,
		EventType:     domain.EventTypePayoutCreated,
		Payload: map[string]any{
			"payout_id": payout.ID,
			"seller_id": payout.SellerID,
			"amount":    payout.Amount.String(),
			"currency":  payout.Currency,
		},
		CreatedAt: payout.CreatedAt,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditEntry(ctx, domain.AuditActionPayoutCreate, payout.ID, nil, payout)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, payout.SellerID)

	if uc.metrics != nil {
		uc.metrics.PayoutsCreated.Inc()
		uc.metrics.PayoutAmount.Observe(payout.Amount.InexactFloat64())
	}

	return payout, nil
}

// ProcessPayoutInput represents input for advancing a payout.
type ProcessPayoutInput struct {
	PayoutID       string
	NewStatus      domain.PayoutStatus
	TransactionRef string
	Notes          string
}

// ProcessPayout transitions a payout from processing to paid or failed.
// Re-invoking on a terminal payout is rejected with a conflict and applies
// nothing, which keeps retries safe. A failed payout restores the amount it
// had reserved to the seller's pending balance.
func (uc *PayoutUseCase) ProcessPayout(ctx context.Context, input ProcessPayoutInput) (*domain.Payout, error) {
	if !input.NewStatus.IsValid() {
		return nil, domain.ErrInvalidPayoutStatus
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	payout, err := uc.payoutRepo.GetByIDForUpdate(txCtx, tx, input.PayoutID)
	if err != nil {
		return nil, err
	}

	if err := payout.CanTransitionTo(input.NewStatus); err != nil {
		return nil, err
	}

	before := *payout

	now := time.Now().UTC()
	if err := uc.payoutRepo.UpdateStatus(txCtx, tx, payout.ID, input.NewStatus, input.TransactionRef, input.Notes, now); err != nil {
		return nil, err
	}

	payout.Status = input.NewStatus
	payout.TransactionRef = input.TransactionRef
	if input.Notes != "" {
		payout.Notes = input.Notes
	}
	payout.ProcessedAt = &now

	// Money that never left the platform goes back to the seller, in the
	// same transaction that finalizes the payout.
	if input.NewStatus == domain.PayoutStatusFailed {
		if err := uc.balanceRepo.IncrementTx(txCtx, tx, IncrementParams{
			SellerID:      payout.SellerID,
			Currency:      payout.Currency,
			Amount:        payout.Amount,
			MinimumPayout: uc.minimumPayout,
			UpdatedAt:     now,
		}); err != nil {
			return nil, err
		}
	}

	eventType := domain.EventTypePayoutPaid
	if input.NewStatus == domain.PayoutStatusFailed {
		eventType = domain.EventTypePayoutFailed
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   payout.ID,
		AggregateType: domain.AggregateTypePayout,
		EventType:     eventType,
		Payload: map[string]any{
			"payout_id":       payout.ID,
			"seller_id":       payout.SellerID,
			"amount":          payout.Amount.String(),
			"status":          string(payout.Status),
			"transaction_ref": payout.TransactionRef,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		if err := uc.auditRepo.CreateTx(txCtx, tx, uc.auditEntry(ctx, domain.AuditActionPayoutProcess, payout.ID, &before, payout)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, payout.SellerID)

	if uc.metrics != nil {
		switch input.NewStatus {
		case domain.PayoutStatusPaid:
			uc.metrics.PayoutsPaid.Inc()
		case domain.PayoutStatusFailed:
			uc.metrics.PayoutsFailed.Inc()
		}
	}

	return payout, nil
}

// GetPayout retrieves a payout by ID.
func (uc *PayoutUseCase) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	return uc.payoutRepo.GetByID(ctx, id)
}

// ListPayoutsInput represents input for listing payouts.
type ListPayoutsInput struct {
	SellerID string
	Status   *domain.PayoutStatus
	Limit    int
	Offset   int
}

// ListPayouts lists payouts, optionally filtered by seller and status.
func (uc *PayoutUseCase) ListPayouts(ctx context.Context, input ListPayoutsInput) ([]*domain.Payout, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.payoutRepo.List(ctx, PayoutFilter{
		SellerID: input.SellerID,
		Status:   input.Status,
		Limit:    limit,
		Offset:   offset,
	})
}

func (uc *PayoutUseCase) auditEntry(ctx context.Context, action domain.AuditAction, resourceID string, before, after any) *domain.AuditLog {
	actorID := "system"
	if user, ok := domain.UserFromContext(ctx); ok {
		actorID = user.ID
	}

	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		ActorID:      actorID,
		Action:       string(action),
		ResourceType: "payout",
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
}

func (uc *PayoutUseCase) invalidateBalance(ctx context.Context, sellerID string) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, balanceCacheKey(sellerID)); err != nil {
		uc.logger.Warn().Err(err).Str("seller_id", sellerID).Msg("failed to invalidate balance cache")
	}
}
