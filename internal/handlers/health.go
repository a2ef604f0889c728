package handlers

import (
	"net/http"
	"time"

	"github.com/GregMSThompson/devpay-backend/internal/response"
)

type healthHandlers struct {
	ResponseHandler response.ResponseHandler
	Environment     string
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	env := deps.Environment
	if env == "" {
		env = "development"
	}
	return &healthHandlers{
		ResponseHandler: deps.ResponseHandler,
		Environment:     env,
	}
}

func (h *healthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.Environment,
	})
}
