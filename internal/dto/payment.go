package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/devpay-backend/internal/models"
)

// RecentPaymentsLimit is how many payments GetPaymentStats reports.
const RecentPaymentsLimit = 10

// LedgerRecentPayments is how many payments are attached to each ledger row.
const LedgerRecentPayments = 3

type CreatePaymentRequest struct {
	DeveloperName string          `json:"developerName"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"paymentType,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	PaymentStatus string          `json:"paymentStatus,omitempty"`
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	TaskID        string          `json:"taskId,omitempty"`
	TaskTitle     string          `json:"taskTitle,omitempty"`
	Project       string          `json:"project,omitempty"`
	Component     string          `json:"component,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status"`
}

type BulkUpdatePaymentStatusRequest struct {
	PaymentIDs []string `json:"payment_ids"`
	Status     string   `json:"status"`
}

type BulkUpdatePaymentStatusResult struct {
	Payments []*models.Payment `json:"payments"`
	Count    int               `json:"count"`
}

// PaymentFilter narrows ListPayments. Nil fields are ignored; the rest are ANDed.
// FromDate and ToDate are inclusive bounds on CreatedAt.
type PaymentFilter struct {
	DeveloperName *string
	Status        *string
	Project       *string
	Component     *string
	FromDate      *time.Time
	ToDate        *time.Time
}

func (f PaymentFilter) Matches(p *models.Payment) bool {
	if f.DeveloperName != nil && p.DeveloperName != *f.DeveloperName {
		return false
	}
	if f.Status != nil && p.PaymentStatus != *f.Status {
		return false
	}
	if f.Project != nil && p.Project != *f.Project {
		return false
	}
	if f.Component != nil && p.Component != *f.Component {
		return false
	}
	if f.FromDate != nil && p.CreatedAt.Before(*f.FromDate) {
		return false
	}
	if f.ToDate != nil && p.CreatedAt.After(*f.ToDate) {
		return false
	}
	return true
}

type PaymentStats struct {
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalPending     decimal.Decimal `json:"totalPending"`
	ActiveDevelopers int             `json:"activeDevelopers"`
	ThisMonth        decimal.Decimal `json:"thisMonth"`
	RecentPayments   []RecentPayment `json:"recentPayments"`
}

type RecentPayment struct {
	ID            string          `json:"id"`
	DeveloperName string          `json:"developerName"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentDate   *time.Time      `json:"paymentDate"`
	TaskTitle     string          `json:"taskTitle,omitempty"`
}

// LedgerWithPayments is a ledger row with the developer's most recent payments attached.
type LedgerWithPayments struct {
	models.Ledger
	RecentPayments []*models.Payment `json:"recentPayments"`
}

type DeveloperSummary struct {
	Name         string          `json:"name"`
	Active       bool            `json:"active"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	TotalPending decimal.Decimal `json:"totalPending"`
}

type UpdateDeveloperRequest struct {
	Active *bool `json:"active"`
}
