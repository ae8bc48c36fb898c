package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconciliationUC *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Run checks every seller balance against the sale and payout ledger.
func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.ReconcileAll(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to run reconciliation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

// Seller checks one seller's balance against the ledger.
func (h *ReconciliationHandler) Seller(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing seller ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileSeller(r.Context(), sellerID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reconcile seller", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationResultFromUseCase(result))
}
