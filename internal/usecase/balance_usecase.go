package usecase

import (
	"context"
	"encoding/json"

	"github.com/ins72/meway-revenue/internal/domain"
)

// BalanceUseCase is the read path over seller balances. Mutations go through
// the sale and payout use cases; this one only serves lookups, fronted by a
// short-TTL cache.
type BalanceUseCase struct {
	balanceRepo BalanceRepository
	cache       Cache
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(balanceRepo BalanceRepository, cache Cache) *BalanceUseCase {
	return &BalanceUseCase{
		balanceRepo: balanceRepo,
		cache:       cache,
	}
}

// GetBalance retrieves a seller's pending balance.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, sellerID string) (*domain.SellerBalance, error) {
	if sellerID == "" {
		return nil, domain.ErrMissingSellerID
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(sellerID)); err == nil {
			var balance domain.SellerBalance
			if err := json.Unmarshal([]byte(cached), &balance); err == nil {
				return &balance, nil
			}
		}
	}

	balance, err := uc.balanceRepo.GetBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(balance); err == nil {
			_ = uc.cache.Set(ctx, balanceCacheKey(sellerID), string(data), BalanceCacheTTL)
		}
	}

	return balance, nil
}

// ListBalances lists pending balances with pagination.
func (uc *BalanceUseCase) ListBalances(ctx context.Context, limit, offset int) ([]*domain.SellerBalance, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.balanceRepo.List(ctx, limit, offset)
}

func balanceCacheKey(sellerID string) string {
	return "balance:" + sellerID
}
