package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type responseHandler struct {
	Log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	return &responseHandler{Log: log}
}

func (h *responseHandler) WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.writeJSON(w, r, status, SuccessEnvelope{Success: true, Data: data})
}

// requestLog prefers the request-scoped logger set by the logger middleware.
func (h *responseHandler) requestLog(r *http.Request) *slog.Logger {
	log := logger.FromContext(r.Context())
	if log == slog.Default() && h.Log != nil {
		return h.Log
	}
	return log
}

func (h *responseHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// headers are already sent
		h.requestLog(r).Error("failed to encode response", "error", err, "status", status)
	}
}
