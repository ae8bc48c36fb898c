package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// PayoutHandler handles payout-related HTTP requests.
type PayoutHandler struct {
	payoutUC *usecase.PayoutUseCase
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutUC *usecase.PayoutUseCase) *PayoutHandler {
	return &PayoutHandler{payoutUC: payoutUC}
}

// Create creates a payout against a seller's pending balance.
func (h *PayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payout, err := h.payoutUC.CreatePayout(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create payout", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PayoutFromDomain(payout))
}

// Process finalizes a payout as paid or failed.
func (h *PayoutHandler) Process(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payout ID", "")
		return
	}

	var req dto.ProcessPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payout, err := h.payoutUC.ProcessPayout(r.Context(), usecase.ProcessPayoutInput{
		PayoutID:       id,
		NewStatus:      domain.PayoutStatus(req.Status),
		TransactionRef: req.TransactionRef,
		Notes:          req.Notes,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to process payout", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutFromDomain(payout))
}

// Get retrieves a payout by ID.
func (h *PayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing payout ID", "")
		return
	}

	payout, err := h.payoutUC.GetPayout(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get payout", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutFromDomain(payout))
}

// List lists payouts, optionally filtered by seller and status.
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.PayoutStatus
	if s := r.URL.Query().Get("status"); s != "" {
		payoutStatus := domain.PayoutStatus(s)
		if !payoutStatus.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid payout status", s)
			return
		}
		status = &payoutStatus
	}

	payouts, err := h.payoutUC.ListPayouts(r.Context(), usecase.ListPayoutsInput{
		SellerID: r.URL.Query().Get("seller_id"),
		Status:   status,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list payouts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PayoutsFromDomain(payouts))
}
