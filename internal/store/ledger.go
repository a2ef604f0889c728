package store

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
)

type ledgerDoc struct {
	DeveloperName   string     `firestore:"developerName"`
	TotalPaid       string     `firestore:"totalPaid"`
	TotalPending    string     `firestore:"totalPending"`
	PaymentCount    int        `firestore:"paymentCount"`
	LastPaymentDate *time.Time `firestore:"lastPaymentDate"`
	JoinedDate      time.Time  `firestore:"joinedDate"`
	Active          bool       `firestore:"active"`
}

type ledgerStore struct {
	client *firestore.Client
}

func NewLedgerStore(client *firestore.Client) *ledgerStore {
	return &ledgerStore{client: client}
}

func (s *ledgerStore) collection() *firestore.CollectionRef {
	return s.client.Collection("developer_ledgers")
}

// doc keys rows by developer name; names may contain '/', which Firestore IDs cannot.
func (s *ledgerStore) doc(developerName string) *firestore.DocumentRef {
	return s.collection().Doc(url.PathEscape(developerName))
}

func (s *ledgerStore) Get(ctx context.Context, developerName string) (*models.Ledger, error) {
	snap, err := s.doc(developerName).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("developer ledger not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get developer ledger", err)
	}
	return decodeLedger(snap)
}

func (s *ledgerStore) List(ctx context.Context) ([]*models.Ledger, error) {
	docs, err := s.collection().OrderBy("developerName", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list developer ledgers", err)
	}
	out := make([]*models.Ledger, 0, len(docs))
	for _, d := range docs {
		l, err := decodeLedger(d)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *ledgerStore) Upsert(ctx context.Context, l *models.Ledger) error {
	_, err := s.doc(l.DeveloperName).Set(ctx, ledgerDoc{
		DeveloperName:   l.DeveloperName,
		TotalPaid:       l.TotalPaid.StringFixed(2),
		TotalPending:    l.TotalPending.StringFixed(2),
		PaymentCount:    l.PaymentCount,
		LastPaymentDate: l.LastPaymentDate,
		JoinedDate:      l.JoinedDate,
		Active:          l.Active,
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to upsert developer ledger", err)
	}
	return nil
}

func decodeLedger(snap *firestore.DocumentSnapshot) (*models.Ledger, error) {
	var d ledgerDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse developer ledger", err)
	}
	paid, err := decimal.NewFromString(d.TotalPaid)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse totalPaid", err)
	}
	pending, err := decimal.NewFromString(d.TotalPending)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse totalPending", err)
	}
	return &models.Ledger{
		DeveloperName:   d.DeveloperName,
		TotalPaid:       paid,
		TotalPending:    pending,
		PaymentCount:    d.PaymentCount,
		LastPaymentDate: d.LastPaymentDate,
		JoinedDate:      d.JoinedDate,
		Active:          d.Active,
	}, nil
}
