package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses. Any status may move to any other.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSent      = "sent"
	PaymentStatusConfirmed = "confirmed"
)

// Payment is a single payment owed or made to a developer.
type Payment struct {
	ID            string          `json:"id"`
	DeveloperName string          `json:"developerName"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"paymentType,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	PaymentStatus string          `json:"paymentStatus"`
	PaymentDate   *time.Time      `json:"paymentDate"` // set on confirmation, kept on revert
	TaskID        string          `json:"taskId,omitempty"`
	TaskTitle     string          `json:"taskTitle,omitempty"`
	Project       string          `json:"project,omitempty"`
	Component     string          `json:"component,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Seq           int64           `json:"-"` // insertion order, breaks createdAt ties
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// IsPaid reports whether the payment counts towards a developer's paid total.
func (p *Payment) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusConfirmed
}

// IsOutstanding reports whether the payment counts towards the pending total.
func (p *Payment) IsOutstanding() bool {
	return p.PaymentStatus == PaymentStatusPending || p.PaymentStatus == PaymentStatusSent
}

// Newer orders payments most recent first.
func (p *Payment) Newer(other *Payment) bool {
	if !p.CreatedAt.Equal(other.CreatedAt) {
		return p.CreatedAt.After(other.CreatedAt)
	}
	return p.Seq > other.Seq
}

func ValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusSent, PaymentStatusConfirmed:
		return true
	default:
		return false
	}
}
