package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the derived per-developer summary of payments. Only Active and
// JoinedDate are owned by the row itself; everything else is recomputed.
type Ledger struct {
	DeveloperName   string          `json:"developerName"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	TotalPending    decimal.Decimal `json:"totalPending"`
	PaymentCount    int             `json:"paymentCount"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate"`
	JoinedDate      time.Time       `json:"joinedDate"`
	Active          bool            `json:"active"`
}
