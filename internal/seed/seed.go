package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/models"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

// File is the on-disk seed format.
type File struct {
	Developers []Developer `yaml:"developers"`
	Payments   []Payment   `yaml:"payments"`
}

type Developer struct {
	Name       string    `yaml:"name"`
	Active     *bool     `yaml:"active"`
	JoinedDate time.Time `yaml:"joinedDate"`
}

type Payment struct {
	Developer string `yaml:"developer"`
	Amount    string `yaml:"amount"`
	Type      string `yaml:"type"`
	Method    string `yaml:"method"`
	Status    string `yaml:"status"`
	TaskID    string `yaml:"taskId"`
	TaskTitle string `yaml:"taskTitle"`
	Project   string `yaml:"project"`
	Component string `yaml:"component"`
	Notes     string `yaml:"notes"`
}

type Result struct {
	Developers int
	Payments   int
}

type developerRegistrar interface {
	RegisterDeveloper(ctx context.Context, developerName string, active bool, joined time.Time) (*models.Ledger, error)
}

type paymentCreator interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*models.Payment, error)
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// Apply registers developers first, then creates payments through the payment
// service so every ledger row is derived. Applying the same file twice
// duplicates its payments.
func Apply(ctx context.Context, f *File, developers developerRegistrar, payments paymentCreator) (Result, error) {
	var res Result
	log := logger.FromContext(ctx)

	for _, d := range f.Developers {
		active := true
		if d.Active != nil {
			active = *d.Active
		}
		if _, err := developers.RegisterDeveloper(ctx, d.Name, active, d.JoinedDate); err != nil {
			return res, fmt.Errorf("register developer %q: %w", d.Name, err)
		}
		res.Developers++
	}

	for i, p := range f.Payments {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return res, fmt.Errorf("payment %d: invalid amount %q: %w", i, p.Amount, err)
		}
		_, err = payments.CreatePayment(ctx, dto.CreatePaymentRequest{
			DeveloperName: p.Developer,
			Amount:        amount,
			PaymentType:   p.Type,
			PaymentMethod: p.Method,
			PaymentStatus: p.Status,
			TaskID:        p.TaskID,
			TaskTitle:     p.TaskTitle,
			Project:       p.Project,
			Component:     p.Component,
			Notes:         p.Notes,
		})
		if err != nil {
			return res, fmt.Errorf("payment %d for %q: %w", i, p.Developer, err)
		}
		res.Payments++
	}

	log.Info("seed applied", "developers", res.Developers, "payments", res.Payments)
	return res, nil
}
