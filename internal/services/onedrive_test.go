package services

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/pkg/helpers"
)

type fakeOneDriveAPI struct {
	exchangeErr error
	meErr       error
	files       []dto.DriveItem
	listedPath  string
}

func (f *fakeOneDriveAPI) AuthCodeURL(state string) string {
	return "https://login.example.com/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeOneDriveAPI) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "tok-" + code}, nil
}

func (f *fakeOneDriveAPI) Me(context.Context, *oauth2.Token) (dto.OneDriveUser, error) {
	return dto.OneDriveUser{ID: "u1", DisplayName: "Ada"}, f.meErr
}

func (f *fakeOneDriveAPI) ListChildren(_ context.Context, _ *oauth2.Token, folderPath string) ([]dto.DriveItem, error) {
	f.listedPath = folderPath
	return f.files, nil
}

func stateFrom(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("invalid auth url: %v", err)
	}
	return u.Query().Get("state")
}

func TestOneDriveConnectFlow(t *testing.T) {
	api := &fakeOneDriveAPI{files: []dto.DriveItem{{ID: "f1", Name: "a.xlsx"}}}
	svc := NewOneDriveService(api, "/Payments")
	ctx := helpers.TestCtx()

	if svc.Status(ctx).Connected {
		t.Fatalf("expected disconnected service")
	}

	state := stateFrom(t, svc.AuthURL(ctx))
	if state == "" {
		t.Fatalf("expected state in auth url")
	}
	if err := svc.Callback(ctx, "code-1", state); err != nil {
		t.Fatalf("Callback returned error: %v", err)
	}

	status := svc.Status(ctx)
	if !status.Connected || status.User == nil || status.User.DisplayName != "Ada" {
		t.Fatalf("unexpected status: %+v", status)
	}

	res, err := svc.Test(ctx)
	if err != nil {
		t.Fatalf("Test returned error: %v", err)
	}
	if api.listedPath != "/Payments" || res.FolderPath != "/Payments" || len(res.Files) != 1 {
		t.Fatalf("unexpected test result: %+v (listed %q)", res, api.listedPath)
	}

	svc.Disconnect(ctx)
	if svc.Status(ctx).Connected {
		t.Fatalf("expected disconnected after Disconnect")
	}
	_, err = svc.Test(ctx)
	var uerr *errs.UnauthorizedError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnauthorizedError after disconnect, got %T (%v)", err, err)
	}
}

func TestOneDriveCallbackRejectsBadState(t *testing.T) {
	svc := NewOneDriveService(&fakeOneDriveAPI{}, "")
	ctx := helpers.TestCtx()

	var uerr *errs.UnauthorizedError
	if err := svc.Callback(ctx, "code", "forged"); !errors.As(err, &uerr) {
		t.Fatalf("expected UnauthorizedError for unknown state, got %v", err)
	}

	state := stateFrom(t, svc.AuthURL(ctx))
	if err := svc.Callback(ctx, "code", state); err != nil {
		t.Fatalf("Callback returned error: %v", err)
	}
	if err := svc.Callback(ctx, "code", state); !errors.As(err, &uerr) {
		t.Fatalf("expected state to be single use, got %v", err)
	}

	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	stale := stateFrom(t, svc.AuthURL(ctx))
	svc.now = func() time.Time { return issued.Add(11 * time.Minute) }
	if err := svc.Callback(ctx, "code", stale); !errors.As(err, &uerr) {
		t.Fatalf("expected expired state to be rejected, got %v", err)
	}
}

func TestOneDriveCallbackErrors(t *testing.T) {
	ctx := helpers.TestCtx()

	svc := NewOneDriveService(&fakeOneDriveAPI{}, "")
	var verr *errs.ValidationError
	if err := svc.Callback(ctx, "", "any"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing code, got %v", err)
	}

	boom := errs.NewExternalServiceError("onedrive", "exchange failed", false, nil)
	svc = NewOneDriveService(&fakeOneDriveAPI{exchangeErr: boom}, "")
	state := stateFrom(t, svc.AuthURL(ctx))
	if err := svc.Callback(ctx, "code", state); !errors.Is(err, boom) {
		t.Fatalf("expected exchange error, got %v", err)
	}
	if svc.Status(ctx).Connected {
		t.Fatalf("failed exchange must not connect")
	}

	svc = NewOneDriveService(&fakeOneDriveAPI{meErr: errors.New("graph down")}, "")
	state = stateFrom(t, svc.AuthURL(ctx))
	if err := svc.Callback(ctx, "code", state); err != nil {
		t.Fatalf("user lookup failure should not fail the callback: %v", err)
	}
	status := svc.Status(ctx)
	if !status.Connected || status.User != nil {
		t.Fatalf("unexpected status: %+v", status)
	}
}
