package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/devpay-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	PaymentSvc      PaymentService
	LedgerSvc       LedgerService
	StatsSvc        StatsService
	GitHubSvc       GitHubService
	OneDriveSvc     OneDriveService
	Firebase        *auth.Client
	AllowedOrigins  []string
	Environment     string
}
