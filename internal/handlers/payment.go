package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/internal/response"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	ListPayments(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error)
	BulkUpdatePaymentStatus(ctx context.Context, ids []string, status string) ([]*models.Payment, error)
}

type StatsService interface {
	GetPaymentStats(ctx context.Context) (dto.PaymentStats, error)
}

type paymentHandlers struct {
	ResponseHandler response.ResponseHandler
	PaymentSvc      PaymentService
	LedgerSvc       LedgerService
	StatsSvc        StatsService
}

func NewPaymentHandlers(deps *Deps) *paymentHandlers {
	return &paymentHandlers{
		ResponseHandler: deps.ResponseHandler,
		PaymentSvc:      deps.PaymentSvc,
		LedgerSvc:       deps.LedgerSvc,
		StatsSvc:        deps.StatsSvc,
	}
}

func (h *paymentHandlers) PaymentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPayments)
	r.Post("/", h.CreatePayment)
	r.Get("/stats", h.GetStats) // fixed paths before /{paymentId}
	r.Get("/ledger", h.GetLedger)
	r.Post("/bulk", h.BulkUpdateStatus)
	r.Get("/{paymentId}", h.GetPayment)
	r.Patch("/{paymentId}/status", h.UpdateStatus)
	return r
}

func (h *paymentHandlers) ListPayments(w http.ResponseWriter, r *http.Request) {
	f, err := parsePaymentFilter(r.URL.Query())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	payments, err := h.PaymentSvc.ListPayments(r.Context(), f)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, payments)
}

func (h *paymentHandlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	p, err := h.PaymentSvc.CreatePayment(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, p)
}

func (h *paymentHandlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.PaymentSvc.GetPayment(r.Context(), chi.URLParam(r, "paymentId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, p)
}

func (h *paymentHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePaymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	p, err := h.PaymentSvc.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "paymentId"), req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, p)
}

func (h *paymentHandlers) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkUpdatePaymentStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	payments, err := h.PaymentSvc.BulkUpdatePaymentStatus(r.Context(), req.PaymentIDs, req.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.BulkUpdatePaymentStatusResult{
		Payments: payments,
		Count:    len(payments),
	})
}

func (h *paymentHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsSvc.GetPaymentStats(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *paymentHandlers) GetLedger(w http.ResponseWriter, r *http.Request) {
	rows, err := h.LedgerSvc.ListLedgers(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rows)
}
