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

const saleColumns = `id, template_id, seller_id, buyer_id, price, currency, category,
	commission_rate, platform_fee, seller_earnings, payment_method, transaction_ref,
	template_snapshot, buyer_snapshot, status, refund_reason, created_at, refunded_at`

// SaleRepository implements usecase.SaleRepository.
type SaleRepository struct {
	pool *pgxpool.Pool
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{pool: pool}
}

// Create inserts a new immutable sale record.
func (r *SaleRepository) Create(ctx context.Context, tx usecase.Transaction, sale *domain.Sale) error {
	templateSnapshot, err := snapshotToJSON(sale.TemplateSnapshot)
	if err != nil {
		return err
	}

	buyerSnapshot, err := snapshotToJSON(sale.BuyerSnapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = tx.(*Tx).PgxTx().Exec(ctx, query,
		sale.ID,
		sale.TemplateID,
		sale.SellerID,
		sale.BuyerID,
		decimalToNumeric(sale.Price),
		sale.Currency,
		sale.Category,
		decimalToNumeric(sale.CommissionRate),
		decimalToNumeric(sale.PlatformFee),
		decimalToNumeric(sale.SellerEarnings),
		sale.PaymentMethod,
		sale.TransactionRef,
		templateSnapshot,
		buyerSnapshot,
		string(sale.Status),
		sale.RefundReason,
		timeToPgTimestamptz(sale.CreatedAt),
		nil,
	)

	return wrapUnavailable(err)
}

// GetByID retrieves a sale by ID.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`

	return r.scanSale(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a sale by ID with a FOR UPDATE lock.
func (r *SaleRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`

	return r.scanSale(tx.(*Tx).PgxTx().QueryRow(ctx, query, id))
}

// MarkRefunded performs the one-way transition to refunded. The status guard
// in the WHERE clause makes a double refund visible as a missing row.
func (r *SaleRepository) MarkRefunded(ctx context.Context, tx usecase.Transaction, id, reason string, refundedAt time.Time) error {
	query := `
		UPDATE sales
		SET status = $2, refund_reason = $3, refunded_at = $4
		WHERE id = $1 AND status = $5
	`

	ct, err := tx.(*Tx).PgxTx().Exec(ctx, query,
		id,
		string(domain.SaleStatusRefunded),
		reason,
		timeToPgTimestamptz(refundedAt),
		string(domain.SaleStatusCompleted),
	)
	if err != nil {
		return wrapUnavailable(err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrSaleAlreadyRefunded
	}

	return nil
}

// ListBySeller lists a seller's sales, newest first, optionally filtered by status.
func (r *SaleRepository) ListBySeller(ctx context.Context, sellerID string, status *domain.SaleStatus, limit, offset int) ([]*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE seller_id = $1`
	args := []any{sellerID}

	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapUnavailable(err)
	}
	defer rows.Close()

	sales := make([]*domain.Sale, 0)
	for rows.Next() {
		sale, err := r.scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}

	return sales, wrapUnavailable(rows.Err())
}

func (r *SaleRepository) scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		sale             domain.Sale
		price            pgtype.Numeric
		commissionRate   pgtype.Numeric
		platformFee      pgtype.Numeric
		sellerEarnings   pgtype.Numeric
		templateSnapshot []byte
		buyerSnapshot    []byte
		status           string
		createdAt        pgtype.Timestamptz
		refundedAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&sale.ID,
		&sale.TemplateID,
		&sale.SellerID,
		&sale.BuyerID,
		&price,
		&sale.Currency,
		&sale.Category,
		&commissionRate,
		&platformFee,
		&sellerEarnings,
		&sale.PaymentMethod,
		&sale.TransactionRef,
		&templateSnapshot,
		&buyerSnapshot,
		&status,
		&sale.RefundReason,
		&createdAt,
		&refundedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSaleNotFound
		}

		return nil, wrapUnavailable(err)
	}

	sale.Price = numericToDecimal(price)
	sale.CommissionRate = numericToDecimal(commissionRate)
	sale.PlatformFee = numericToDecimal(platformFee)
	sale.SellerEarnings = numericToDecimal(sellerEarnings)
	sale.TemplateSnapshot = jsonToSnapshot(templateSnapshot)
	sale.BuyerSnapshot = jsonToSnapshot(buyerSnapshot)
	sale.Status = domain.SaleStatus(status)
	sale.CreatedAt = createdAt.Time

	if refundedAt.Valid {
		t := refundedAt.Time
		sale.RefundedAt = &t
	}

	return &sale, nil
}
