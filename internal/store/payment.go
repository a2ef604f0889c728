package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/internal/models"
)

// paymentDoc is the Firestore shape of a payment. Amounts are stored as
// fixed-point strings so no precision is lost in float64.
type paymentDoc struct {
	ID            string     `firestore:"id"`
	DeveloperName string     `firestore:"developerName"`
	Amount        string     `firestore:"amount"`
	PaymentType   string     `firestore:"paymentType,omitempty"`
	PaymentMethod string     `firestore:"paymentMethod,omitempty"`
	PaymentStatus string     `firestore:"paymentStatus"`
	PaymentDate   *time.Time `firestore:"paymentDate"`
	TaskID        string     `firestore:"taskId,omitempty"`
	TaskTitle     string     `firestore:"taskTitle,omitempty"`
	Project       string     `firestore:"project,omitempty"`
	Component     string     `firestore:"component,omitempty"`
	Notes         string     `firestore:"notes,omitempty"`
	Seq           int64      `firestore:"seq"`
	CreatedAt     time.Time  `firestore:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt"`
}

func toPaymentDoc(p *models.Payment) paymentDoc {
	return paymentDoc{
		ID:            p.ID,
		DeveloperName: p.DeveloperName,
		Amount:        p.Amount.StringFixed(2),
		PaymentType:   p.PaymentType,
		PaymentMethod: p.PaymentMethod,
		PaymentStatus: p.PaymentStatus,
		PaymentDate:   p.PaymentDate,
		TaskID:        p.TaskID,
		TaskTitle:     p.TaskTitle,
		Project:       p.Project,
		Component:     p.Component,
		Notes:         p.Notes,
		Seq:           p.Seq,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (d paymentDoc) toModel() (*models.Payment, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, err
	}
	return &models.Payment{
		ID:            d.ID,
		DeveloperName: d.DeveloperName,
		Amount:        amount,
		PaymentType:   d.PaymentType,
		PaymentMethod: d.PaymentMethod,
		PaymentStatus: d.PaymentStatus,
		PaymentDate:   d.PaymentDate,
		TaskID:        d.TaskID,
		TaskTitle:     d.TaskTitle,
		Project:       d.Project,
		Component:     d.Component,
		Notes:         d.Notes,
		Seq:           d.Seq,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

type paymentStore struct {
	client *firestore.Client
}

func NewPaymentStore(client *firestore.Client) *paymentStore {
	return &paymentStore{client: client}
}

func (s *paymentStore) collection() *firestore.CollectionRef {
	return s.client.Collection("payments")
}

func (s *paymentStore) Create(ctx context.Context, p *models.Payment) error {
	// No shared counter in Firestore; creation time in ns is unique enough per store.
	p.Seq = p.CreatedAt.UnixNano()
	_, err := s.collection().Doc(p.ID).Create(ctx, toPaymentDoc(p))
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create payment", err)
	}
	return nil
}

func (s *paymentStore) Get(ctx context.Context, id string) (*models.Payment, error) {
	snap, err := s.collection().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("payment not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get payment", err)
	}
	return decodePayment(snap)
}

func (s *paymentStore) Update(ctx context.Context, p *models.Payment) error {
	_, err := s.collection().Doc(p.ID).Update(ctx, []firestore.Update{
		{Path: "paymentStatus", Value: p.PaymentStatus},
		{Path: "paymentDate", Value: p.PaymentDate},
		{Path: "updatedAt", Value: p.UpdatedAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("payment not found")
		}
		return errs.NewDatabaseError("update", "failed to update payment", err)
	}
	return nil
}

// List needs composite indexes on (filter fields, createdAt desc, seq desc).
func (s *paymentStore) List(ctx context.Context, f dto.PaymentFilter) ([]*models.Payment, error) {
	q := s.collection().Query
	if f.DeveloperName != nil {
		q = q.Where("developerName", "==", *f.DeveloperName)
	}
	if f.Status != nil {
		q = q.Where("paymentStatus", "==", *f.Status)
	}
	if f.Project != nil {
		q = q.Where("project", "==", *f.Project)
	}
	if f.Component != nil {
		q = q.Where("component", "==", *f.Component)
	}
	if f.FromDate != nil {
		q = q.Where("createdAt", ">=", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("createdAt", "<=", *f.ToDate)
	}
	q = q.OrderBy("createdAt", firestore.Desc).OrderBy("seq", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*models.Payment
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list payments", err)
		}
		p, err := decodePayment(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePayment(snap *firestore.DocumentSnapshot) (*models.Payment, error) {
	var d paymentDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse payment data", err)
	}
	p, err := d.toModel()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse payment amount", err)
	}
	return p, nil
}
