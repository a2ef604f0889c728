package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/models"
)

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id string) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	List(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error)
}

type LedgerStore interface {
	Get(ctx context.Context, developerName string) (*models.Ledger, error)
	List(ctx context.Context) ([]*models.Ledger, error)
	Upsert(ctx context.Context, l *models.Ledger) error
}

// NewStores returns Firestore-backed stores when a client is given and
// process-local ones otherwise.
func NewStores(client *firestore.Client) (PaymentStore, LedgerStore) {
	if client == nil {
		return NewMemPaymentStore(), NewMemLedgerStore()
	}
	return NewPaymentStore(client), NewLedgerStore(client)
}
