package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type statsPaymentStore interface {
	List(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error)
}

type statsLedgerStore interface {
	List(ctx context.Context) ([]*models.Ledger, error)
}

type statsService struct {
	payments statsPaymentStore
	ledgers  statsLedgerStore
	now      func() time.Time
}

func NewStatsService(payments statsPaymentStore, ledgers statsLedgerStore) *statsService {
	return &statsService{
		payments: payments,
		ledgers:  ledgers,
		now:      time.Now,
	}
}

// GetPaymentStats recomputes dashboard totals on every call; nothing is cached.
func (s *statsService) GetPaymentStats(ctx context.Context) (dto.PaymentStats, error) {
	log := logger.FromContext(ctx)
	stats := dto.PaymentStats{
		TotalPaid:      decimal.Zero,
		TotalPending:   decimal.Zero,
		ThisMonth:      decimal.Zero,
		RecentPayments: []dto.RecentPayment{},
	}

	payments, err := s.payments.List(ctx, dto.PaymentFilter{})
	if err != nil {
		log.Error("payment stats: failed to list payments", "error", err)
		return stats, err
	}
	ledgers, err := s.ledgers.List(ctx)
	if err != nil {
		log.Error("payment stats: failed to list ledgers", "error", err)
		return stats, err
	}

	for _, l := range ledgers {
		stats.TotalPaid = stats.TotalPaid.Add(l.TotalPaid)
		stats.TotalPending = stats.TotalPending.Add(l.TotalPending)
		if l.Active {
			stats.ActiveDevelopers++
		}
	}

	monthStart, monthEnd := monthBounds(s.now())
	for _, p := range payments {
		if !p.IsPaid() || p.PaymentDate == nil {
			continue
		}
		if !p.PaymentDate.Before(monthStart) && p.PaymentDate.Before(monthEnd) {
			stats.ThisMonth = stats.ThisMonth.Add(p.Amount)
		}
	}

	for i, p := range payments {
		if i == dto.RecentPaymentsLimit {
			break
		}
		stats.RecentPayments = append(stats.RecentPayments, dto.RecentPayment{
			ID:            p.ID,
			DeveloperName: p.DeveloperName,
			Amount:        p.Amount,
			PaymentStatus: p.PaymentStatus,
			PaymentDate:   p.PaymentDate,
			TaskTitle:     p.TaskTitle,
		})
	}

	return stats, nil
}

// monthBounds returns [first of month, first of next month) in now's location.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
