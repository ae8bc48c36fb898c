package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// AnalyticsHandler handles reporting HTTP requests.
type AnalyticsHandler struct {
	analyticsUC *usecase.AnalyticsUseCase
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC}
}

func periodInput(r *http.Request) usecase.PeriodInput {
	return usecase.PeriodInput{
		From:   parseTimeQuery(r, "from"),
		To:     parseTimeQuery(r, "to"),
		Period: r.URL.Query().Get("period"),
	}
}

// SellerSummary aggregates one seller's sales over a reporting period.
func (h *AnalyticsHandler) SellerSummary(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing seller ID", "")
		return
	}

	summary, err := h.analyticsUC.SellerSummary(r.Context(), sellerID, periodInput(r))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get seller summary", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SellerSummaryFromDomain(summary))
}

// MarketplaceSummary aggregates the whole marketplace over a reporting period.
func (h *AnalyticsHandler) MarketplaceSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analyticsUC.MarketplaceSummary(r.Context(), periodInput(r))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get marketplace summary", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MarketplaceSummaryFromDomain(summary))
}
