package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ins72/meway-revenue/internal/adapter/http/dto"
	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/usecase"
)

// SaleHandler handles sale-related HTTP requests.
type SaleHandler struct {
	saleUC *usecase.SaleUseCase
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(saleUC *usecase.SaleUseCase) *SaleHandler {
	return &SaleHandler{saleUC: saleUC}
}

// Record records a completed sale.
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	sale, err := h.saleUC.RecordSale(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record sale", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.SaleFromDomain(sale))
}

// Refund refunds a sale.
func (h *SaleHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	var req dto.RefundSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor := ""
	if user, ok := domain.UserFromContext(r.Context()); ok {
		actor = user.ID
	}

	sale, err := h.saleUC.RefundSale(r.Context(), id, req.Reason, actor)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to refund sale", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// Get retrieves a sale by ID.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing sale ID", "")
		return
	}

	sale, err := h.saleUC.GetSale(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get sale", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.SaleFromDomain(sale))
}

// ListBySeller lists a seller's sales.
func (h *SaleHandler) ListBySeller(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "id")
	if sellerID == "" {
		writeError(w, http.StatusBadRequest, "missing seller ID", "")
		return
	}

	var status *domain.SaleStatus
	if s := r.URL.Query().Get("status"); s != "" {
		saleStatus := domain.SaleStatus(s)
		status = &saleStatus
	}

	sales, err := h.saleUC.ListSellerSales(r.Context(), usecase.ListSellerSalesInput{
		SellerID: sellerID,
		Status:   status,
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list sales", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SalesFromDomain(sales))
}
