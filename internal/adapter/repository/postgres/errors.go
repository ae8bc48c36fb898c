package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ins72/meway-revenue/internal/domain"
)

// wrapUnavailable classifies storage errors. Server-side errors (constraint
// violations, serialization failures) pass through untouched; anything the
// server never answered — network failures, timeouts, cancelled deadlines —
// becomes ErrStorageUnavailable so callers know to retry with backoff.
func wrapUnavailable(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}

	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
