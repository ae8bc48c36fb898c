package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

const payoutColumns = `id, seller_id, amount, currency, payment_method, payment_details,
	status, transaction_ref, notes, created_at, processed_at`

// PayoutRepository implements usecase.PayoutRepository.
type PayoutRepository struct {
	pool *pgxpool.Pool
}

// NewPayoutRepository creates a new PayoutRepository.
func NewPayoutRepository(pool *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{pool: pool}
}

// Create inserts a new payout in processing state.
func (r *PayoutRepository) Create(ctx context.Context, tx usecase.Transaction, payout *domain.Payout) error {
	paymentDetails, err := snapshotToJSON(payout.PaymentDetails)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payouts (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		payout.ID,
		payout.SellerID,
		decimalToNumeric(payout.Amount),
		payout.Currency,
		payout.PaymentMethod,
		paymentDetails,
		string(payout.Status),
		payout.TransactionRef,
		payout.Notes,
		timeToPgTimestamptz(payout.CreatedAt),
		nil,
	)

	return wrapUnavailable(err)
}

// GetByID retrieves a payout by ID.
func (r *PayoutRepository) GetByID(ctx context.Context, id string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	return r.scanPayout(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a payout by ID with a FOR UPDATE lock.
func (r *PayoutRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1 FOR UPDATE`

	return r.scanPayout(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// UpdateStatus records the terminal outcome of a payout attempt.
func (r *PayoutRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.PayoutStatus, transactionRef, notes string, processedAt time.Time) error {
	query := `
		UPDATE payouts
		SET status = $2, transaction_ref = $3, notes = $4, processed_at = $5
		WHERE id = $1
	`

	ct, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		id,
		string(status),
		transactionRef,
		notes,
		timeToPgTimestamptz(processedAt),
	)
	if err != nil {
		return wrapUnavailable(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrPayoutNotFound
	}

	return nil
}

// List returns payouts matching the filter, newest first.
func (r *PayoutRepository) List(ctx context.Context, filter usecase.PayoutFilter) ([]*domain.Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE 1=1`
	args := []any{}

	if filter.SellerID != "" {
		args = append(args, filter.SellerID)
		query += fmt.Sprintf(` AND seller_id = $%d`, len(args))
	}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	payouts := make([]*domain.Payout, 0)
	for rows.Next() {
		payout, err := r.scanPayout(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, payout)
	}

	return payouts, wrapUnavailable(rows.Err())
}

func (r *PayoutRepository) scanPayout(row pgx.Row) (*domain.Payout, error) {
	var (
		payout         domain.Payout
		amount         pgtype.Numeric
		paymentDetails []byte
		status         string
		createdAt      pgtype.Timestamptz
		processedAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&payout.ID,
		&payout.SellerID,
		&amount,
		&payout.Currency,
		&payout.PaymentMethod,
		&paymentDetails,
		&status,
		&payout.TransactionRef,
		&payout.Notes,
		&createdAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayoutNotFound
		}

		return nil, wrapUnavailable(err)
	}

	payout.Amount = numericToDecimal(amount)
	payout.PaymentDetails = jsonToSnapshot(paymentDetails)
	payout.Status = domain.PayoutStatus(status)
	payout.CreatedAt = createdAt.Time

	if processedAt.Valid {
		t := processedAt.Time
		payout.ProcessedAt = &t
	}

	return &payout, nil
}
