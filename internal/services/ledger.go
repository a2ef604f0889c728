package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type ledgerPaymentStore interface {
	List(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error)
}

type ledgerStore interface {
	Get(ctx context.Context, developerName string) (*models.Ledger, error)
	List(ctx context.Context) ([]*models.Ledger, error)
	Upsert(ctx context.Context, l *models.Ledger) error
}

// ledgerService derives ledger rows from the payment store. mu guards the
// read-modify-write of the row-owned fields (Active, JoinedDate).
type ledgerService struct {
	mu       sync.Mutex
	payments ledgerPaymentStore
	ledgers  ledgerStore
	now      func() time.Time
}

func NewLedgerService(payments ledgerPaymentStore, ledgers ledgerStore) *ledgerService {
	return &ledgerService{
		payments: payments,
		ledgers:  ledgers,
		now:      time.Now,
	}
}

// RecomputeLedger rebuilds the developer's row from scratch. Running it twice
// without an intervening payment mutation yields the same row.
func (s *ledgerService) RecomputeLedger(ctx context.Context, developerName string) (*models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payments, err := s.payments.List(ctx, dto.PaymentFilter{DeveloperName: &developerName})
	if err != nil {
		return nil, err
	}
	row := computeLedger(developerName, payments)

	existing, err := s.ledgers.Get(ctx, developerName)
	switch {
	case err == nil:
		row.Active = existing.Active
		row.JoinedDate = existing.JoinedDate
	case isNotFound(err):
		row.Active = true
		row.JoinedDate = s.now()
	default:
		return nil, err
	}

	if err := s.ledgers.Upsert(ctx, row); err != nil {
		return nil, err
	}

	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("ledger recomputed",
			"developer", developerName,
			"total_paid", row.TotalPaid.StringFixed(2),
			"total_pending", row.TotalPending.StringFixed(2),
			"payment_count", row.PaymentCount)
	}
	return row, nil
}

// RegisterDeveloper creates a ledger row for a developer who may have no
// payments yet. An existing row is returned untouched.
func (s *ledgerService) RegisterDeveloper(ctx context.Context, developerName string, active bool, joined time.Time) (*models.Ledger, error) {
	developerName = strings.TrimSpace(developerName)
	if developerName == "" {
		return nil, errs.NewValidationError("developer name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.ledgers.Get(ctx, developerName)
	if err == nil {
		return existing, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	payments, err := s.payments.List(ctx, dto.PaymentFilter{DeveloperName: &developerName})
	if err != nil {
		return nil, err
	}
	row := computeLedger(developerName, payments)
	row.Active = active
	row.JoinedDate = joined
	if row.JoinedDate.IsZero() {
		row.JoinedDate = s.now()
	}
	if err := s.ledgers.Upsert(ctx, row); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("developer registered", "developer", developerName, "active", active)
	return row, nil
}

func (s *ledgerService) SetDeveloperActive(ctx context.Context, developerName string, active bool) (*models.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.ledgers.Get(ctx, developerName)
	if err != nil {
		return nil, err
	}
	row.Active = active
	if err := s.ledgers.Upsert(ctx, row); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("developer active flag updated", "developer", developerName, "active", active)
	return row, nil
}

func (s *ledgerService) GetLedger(ctx context.Context, developerName string) (*models.Ledger, error) {
	return s.ledgers.Get(ctx, developerName)
}

// ListLedgers returns every row with that developer's most recent payments attached.
func (s *ledgerService) ListLedgers(ctx context.Context) ([]dto.LedgerWithPayments, error) {
	rows, err := s.ledgers.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx, dto.PaymentFilter{})
	if err != nil {
		return nil, err
	}

	recent := make(map[string][]*models.Payment, len(rows))
	for _, p := range payments {
		if len(recent[p.DeveloperName]) < dto.LedgerRecentPayments {
			recent[p.DeveloperName] = append(recent[p.DeveloperName], p)
		}
	}

	out := make([]dto.LedgerWithPayments, 0, len(rows))
	for _, row := range rows {
		rp := recent[row.DeveloperName]
		if rp == nil {
			rp = []*models.Payment{}
		}
		out = append(out, dto.LedgerWithPayments{Ledger: *row, RecentPayments: rp})
	}
	return out, nil
}

// ListDevelopers is the short roster used by payment forms.
func (s *ledgerService) ListDevelopers(ctx context.Context) ([]dto.DeveloperSummary, error) {
	rows, err := s.ledgers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeveloperSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.DeveloperSummary{
			Name:         row.DeveloperName,
			Active:       row.Active,
			TotalPaid:    row.TotalPaid,
			TotalPending: row.TotalPending,
		})
	}
	return out, nil
}

// computeLedger expects payments most recent first. lastPaymentDate follows
// creation order, not confirmation order.
func computeLedger(developerName string, payments []*models.Payment) *models.Ledger {
	row := &models.Ledger{
		DeveloperName: developerName,
		TotalPaid:     decimal.Zero,
		TotalPending:  decimal.Zero,
	}
	for _, p := range payments {
		switch {
		case p.IsPaid():
			row.TotalPaid = row.TotalPaid.Add(p.Amount)
			row.PaymentCount++
			if row.PaymentCount == 1 && p.PaymentDate != nil {
				d := *p.PaymentDate
				row.LastPaymentDate = &d
			}
		case p.IsOutstanding():
			row.TotalPending = row.TotalPending.Add(p.Amount)
		}
	}
	return row
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}
