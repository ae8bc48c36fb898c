package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

const balanceColumns = `seller_id, total_earnings, sale_count, currency, minimum_payout, created_at, updated_at`

// Balance arithmetic runs entirely inside the database so concurrent sales
// for the same seller never lose an update.
const incrementBalanceQuery = `
	INSERT INTO seller_balances (seller_id, total_earnings, sale_count, currency, minimum_payout, created_at, updated_at)
	VALUES ($1, $2, 1, $3, $4, $5, $5)
	ON CONFLICT (seller_id) DO UPDATE SET
		total_earnings = seller_balances.total_earnings + EXCLUDED.total_earnings,
		sale_count = seller_balances.sale_count + 1,
		updated_at = EXCLUDED.updated_at
`

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// Increment adds an amount to the seller's pending balance, creating the row
// on first sale.
func (r *BalanceRepository) Increment(ctx context.Context, params usecase.IncrementParams) error {
	_, err := r.pool.Exec(ctx, incrementBalanceQuery,
		params.SellerID,
		decimalToNumeric(params.Amount),
		params.Currency,
		decimalToNumeric(params.MinimumPayout),
		timeToPgTimestamptz(params.UpdatedAt),
	)

	return wrapUnavailable(err)
}

// IncrementTx is Increment inside an existing transaction.
func (r *BalanceRepository) IncrementTx(ctx context.Context, tx usecase.Transaction, params usecase.IncrementParams) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx, incrementBalanceQuery,
		params.SellerID,
		decimalToNumeric(params.Amount),
		params.Currency,
		decimalToNumeric(params.MinimumPayout),
		timeToPgTimestamptz(params.UpdatedAt),
	)

	return wrapUnavailable(err)
}

// Decrement subtracts an amount from the pending balance, clamped at zero so
// a refund after a payout never drives the balance negative.
func (r *BalanceRepository) Decrement(ctx context.Context, tx usecase.Transaction, sellerID string, amount decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE seller_balances
		SET total_earnings = GREATEST(total_earnings - $2, 0), updated_at = $3
		WHERE seller_id = $1
	`

	ct, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		sellerID,
		decimalToNumeric(amount),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return wrapUnavailable(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrBalanceNotFound
	}

	return nil
}

// GetBySeller retrieves a seller's balance.
func (r *BalanceRepository) GetBySeller(ctx context.Context, sellerID string) (*domain.SellerBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM seller_balances WHERE seller_id = $1`

	return r.scanBalance(r.pool.QueryRow(ctx, query, sellerID))
}

// GetBySellerForUpdate retrieves a seller's balance with a FOR UPDATE lock,
// serializing payout creation per seller.
func (r *BalanceRepository) GetBySellerForUpdate(ctx context.Context, tx usecase.Transaction, sellerID string) (*domain.SellerBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM seller_balances WHERE seller_id = $1 FOR UPDATE`

	return r.scanBalance(tx.(*Tx).PgxTx().QueryRow(ctx, query, sellerID))
}

// List pages over all seller balances ordered by seller.
func (r *BalanceRepository) List(ctx context.Context, limit, offset int) ([]*domain.SellerBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM seller_balances ORDER BY seller_id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	balances := make([]*domain.SellerBalance, 0)
	for rows.Next() {
		balance, err := r.scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, wrapUnavailable(rows.Err())
}

func (r *BalanceRepository) scanBalance(row pgx.Row) (*domain.SellerBalance, error) {
	var (
		balance       domain.SellerBalance
		totalEarnings pgtype.Numeric
		minimumPayout pgtype.Numeric
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&balance.SellerID,
		&totalEarnings,
		&balance.SaleCount,
		&balance.Currency,
		&minimumPayout,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}

		return nil, wrapUnavailable(err)
	}

	balance.TotalEarnings = numericToDecimal(totalEarnings)
	balance.MinimumPayout = numericToDecimal(minimumPayout)
	balance.CreatedAt = createdAt.Time
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
