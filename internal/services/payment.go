package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id string) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	List(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error)
}

type ledgerRecomputer interface {
	RecomputeLedger(ctx context.Context, developerName string) (*models.Ledger, error)
}

// paymentService owns every payment mutation. mu serialises each
// mutate-then-recompute sequence so a ledger row never reflects a state the
// store did not pass through.
type paymentService struct {
	mu       sync.Mutex
	payments paymentStore
	ledger   ledgerRecomputer
	now      func() time.Time
}

func NewPaymentService(payments paymentStore, ledger ledgerRecomputer) *paymentService {
	return &paymentService{
		payments: payments,
		ledger:   ledger,
		now:      time.Now,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.Payment, error) {
	developer := strings.TrimSpace(req.DeveloperName)
	if developer == "" {
		return nil, errs.NewValidationError("developerName is required")
	}
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errs.NewValidationError("amount must be greater than zero")
	}
	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentStatusPending
	}
	if !models.ValidPaymentStatus(status) {
		return nil, errs.NewValidationError("invalid payment status: " + status)
	}

	now := s.now()
	p := &models.Payment{
		ID:            uuid.New().String(),
		DeveloperName: developer,
		Amount:        amount,
		PaymentType:   req.PaymentType,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: status,
		PaymentDate:   req.PaymentDate,
		TaskID:        req.TaskID,
		TaskTitle:     req.TaskTitle,
		Project:       req.Project,
		Component:     req.Component,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.IsPaid() && p.PaymentDate == nil {
		p.PaymentDate = &now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, developer); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("payment created", "payment_id", p.ID, "developer", developer, "amount", amount.StringFixed(2), "status", status)
	return p, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return s.payments.Get(ctx, id)
}

func (s *paymentService) ListPayments(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error) {
	payments, err := s.payments.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

func (s *paymentService) UpdatePaymentStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, errs.NewValidationError("invalid payment status: " + status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.applyStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, p.DeveloperName); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("payment status updated", "payment_id", id, "status", status)
	return p, nil
}

// BulkUpdatePaymentStatus updates every known id, skipping unknown ones, and
// recomputes each affected developer's ledger once.
func (s *paymentService) BulkUpdatePaymentStatus(ctx context.Context, ids []string, status string) ([]*models.Payment, error) {
	if !models.ValidPaymentStatus(status) {
		return nil, errs.NewValidationError("invalid payment status: " + status)
	}
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]*models.Payment, 0, len(ids))
	var developers []string
	seen := make(map[string]bool)
	for _, id := range ids {
		p, err := s.applyStatus(ctx, id, status)
		if err != nil {
			if isNotFound(err) {
				log.Warn("bulk status update skipped unknown payment", "payment_id", id)
				continue
			}
			return nil, err
		}
		updated = append(updated, p)
		if !seen[p.DeveloperName] {
			seen[p.DeveloperName] = true
			developers = append(developers, p.DeveloperName)
		}
	}

	for _, developer := range developers {
		if err := s.recompute(ctx, developer); err != nil {
			return nil, err
		}
	}

	log.Info("bulk payment status updated", "requested", len(ids), "updated", len(updated), "status", status)
	return updated, nil
}

func (s *paymentService) applyStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p.PaymentStatus = status
	if status == models.PaymentStatusConfirmed {
		p.PaymentDate = &now
	}
	p.UpdatedAt = now
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *paymentService) recompute(ctx context.Context, developer string) error {
	if _, err := s.ledger.RecomputeLedger(ctx, developer); err != nil {
		log := logger.FromContext(ctx)
		log.Error("ledger recompute failed", "developer", developer, "error", err)
		return errs.NewInternalError("failed to update developer ledger", err)
	}
	return nil
}
