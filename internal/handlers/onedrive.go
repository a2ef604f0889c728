package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/response"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type OneDriveService interface {
	AuthURL(ctx context.Context) string
	Callback(ctx context.Context, code, state string) error
	Status(ctx context.Context) dto.OneDriveStatus
	Test(ctx context.Context) (dto.OneDriveTestResult, error)
	Disconnect(ctx context.Context)
}

type onedriveHandlers struct {
	ResponseHandler response.ResponseHandler
	OneDriveSvc     OneDriveService
}

func NewOneDriveHandlers(deps *Deps) *onedriveHandlers {
	return &onedriveHandlers{
		ResponseHandler: deps.ResponseHandler,
		OneDriveSvc:     deps.OneDriveSvc,
	}
}

func (h *onedriveHandlers) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/login", h.Login)
	r.Get("/callback", h.Callback)
	return r
}

func (h *onedriveHandlers) OneDriveRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.Status)
	r.Post("/test", h.Test)
	r.Post("/disconnect", h.Disconnect)
	return r
}

func (h *onedriveHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{
		"authUrl": h.OneDriveSvc.AuthURL(r.Context()),
	})
}

// Callback finishes the OAuth flow and sends the browser back to the settings page.
func (h *onedriveHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("authorization code not provided"))
		return
	}
	if err := h.OneDriveSvc.Callback(r.Context(), code, q.Get("state")); err != nil {
		log := logger.FromContext(r.Context())
		log.Warn("onedrive oauth callback failed", "error", err)
		http.Redirect(w, r, "/settings?error=auth_failed", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/settings?connected=true", http.StatusFound)
}

func (h *onedriveHandlers) Status(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.OneDriveSvc.Status(r.Context()))
}

func (h *onedriveHandlers) Test(w http.ResponseWriter, r *http.Request) {
	res, err := h.OneDriveSvc.Test(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *onedriveHandlers) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.OneDriveSvc.Disconnect(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{
		"message": "Disconnected from OneDrive",
	})
}
