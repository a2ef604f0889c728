package store

import (
	"context"
	"sort"
	"sync"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
)

// memPaymentStore keeps payments in process memory. Callers always receive copies.
type memPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*models.Payment
	seq      int64
}

func NewMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *memPaymentStore) Create(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.payments[p.ID]; ok {
		return errs.NewDatabaseError("create", "payment already exists", nil)
	}
	s.seq++
	p.Seq = s.seq
	s.payments[p.ID] = clonePayment(p)
	return nil
}

func (s *memPaymentStore) Get(_ context.Context, id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, errs.NewNotFoundError("payment not found")
	}
	return clonePayment(p), nil
}

func (s *memPaymentStore) Update(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.payments[p.ID]
	if !ok {
		return errs.NewNotFoundError("payment not found")
	}
	updated := clonePayment(p)
	updated.Seq = existing.Seq
	s.payments[p.ID] = updated
	return nil
}

// List returns matching payments, most recently created first.
func (s *memPaymentStore) List(_ context.Context, f dto.PaymentFilter) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if f.Matches(p) {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Newer(out[j]) })
	return out, nil
}

func clonePayment(p *models.Payment) *models.Payment {
	cp := *p
	if p.PaymentDate != nil {
		d := *p.PaymentDate
		cp.PaymentDate = &d
	}
	return &cp
}

type memLedgerStore struct {
	mu      sync.RWMutex
	ledgers map[string]*models.Ledger
}

func NewMemLedgerStore() *memLedgerStore {
	return &memLedgerStore{ledgers: make(map[string]*models.Ledger)}
}

func (s *memLedgerStore) Get(_ context.Context, developerName string) (*models.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.ledgers[developerName]
	if !ok {
		return nil, errs.NewNotFoundError("developer ledger not found")
	}
	return cloneLedger(l), nil
}

// List returns every ledger row ordered by developer name.
func (s *memLedgerStore) List(_ context.Context) ([]*models.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Ledger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		out = append(out, cloneLedger(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeveloperName < out[j].DeveloperName })
	return out, nil
}

func (s *memLedgerStore) Upsert(_ context.Context, l *models.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgers[l.DeveloperName] = cloneLedger(l)
	return nil
}

func cloneLedger(l *models.Ledger) *models.Ledger {
	cp := *l
	if l.LastPaymentDate != nil {
		d := *l.LastPaymentDate
		cp.LastPaymentDate = &d
	}
	return &cp
}
