package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// BalanceHandler handles seller balance HTTP requests.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get retrieves a seller's pending balance.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing seller ID", "")
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), sellerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// List lists seller balances.
func (h *BalanceHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	balances, err := h.balanceUC.ListBalances(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}
