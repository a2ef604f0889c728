package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, r, status, ErrorResponse{Code: code, Message: message})
}

// HandleError maps the errs types, wrapped or not, to a status and error code.
func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := h.requestLog(r)

	var (
		notFound   *errs.NotFoundError
		invalid    *errs.ValidationError
		unauth     *errs.UnauthorizedError
		dbErr      *errs.DatabaseError
		extErr     *errs.ExternalServiceError
		internalEr *errs.InternalError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &invalid):
		log.Warn("validation failed", "error", invalid.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", invalid.Message)

	case errors.As(err, &unauth):
		log.Warn("unauthorized", "error", unauth.Message)
		h.WriteError(w, r, http.StatusUnauthorized, "unauthorized", unauth.Message)

	case errors.As(err, &dbErr):
		log.Error("database error",
			"operation", dbErr.Operation,
			"error", dbErr.Message,
			"cause", dbErr.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error", "An error occurred")

	case errors.As(err, &extErr):
		level, status := slog.LevelError, http.StatusBadGateway
		if extErr.Transient {
			level, status = slog.LevelWarn, http.StatusServiceUnavailable
		}
		log.Log(r.Context(), level, "external service error",
			"service", extErr.Service,
			"transient", extErr.Transient,
			"error", extErr.Message,
			"cause", extErr.Err)
		h.WriteError(w, r, status, "service_unavailable", extErr.Message)

	case errors.As(err, &internalEr):
		log.Error("internal error", "error", internalEr.Message, "cause", internalEr.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error", internalEr.Message)

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
