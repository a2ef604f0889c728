package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/internal/response"
)

type LedgerService interface {
	ListLedgers(ctx context.Context) ([]dto.LedgerWithPayments, error)
	ListDevelopers(ctx context.Context) ([]dto.DeveloperSummary, error)
	SetDeveloperActive(ctx context.Context, developerName string, active bool) (*models.Ledger, error)
}

type developerHandlers struct {
	ResponseHandler response.ResponseHandler
	LedgerSvc       LedgerService
}

func NewDeveloperHandlers(deps *Deps) *developerHandlers {
	return &developerHandlers{
		ResponseHandler: deps.ResponseHandler,
		LedgerSvc:       deps.LedgerSvc,
	}
}

func (h *developerHandlers) DeveloperRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDevelopers)
	r.Patch("/{name}", h.UpdateDeveloper)
	return r
}

func (h *developerHandlers) ListDevelopers(w http.ResponseWriter, r *http.Request) {
	devs, err := h.LedgerSvc.ListDevelopers(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, devs)
}

func (h *developerHandlers) UpdateDeveloper(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDeveloperRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Active == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("active is required"))
		return
	}
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid developer name"))
		return
	}
	row, err := h.LedgerSvc.SetDeveloperActive(r.Context(), name, *req.Active)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, row)
}
