package onedriveclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

func newTestAdapter(t *testing.T, mux *http.ServeMux) *Adapter {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	a := NewAdapter("client-id", "client-secret", "tenant", "http://localhost/auth/callback")
	return a.WithEndpoints(oauth2.Endpoint{
		AuthURL:   srv.URL + "/authorize",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}, srv.URL+"/v1.0")
}

func TestAuthCodeURL(t *testing.T) {
	a := NewAdapter("client-id", "secret", "tenant-1", "http://localhost/auth/callback")
	raw := a.AuthCodeURL("state-123")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("invalid auth url: %v", err)
	}
	if !strings.Contains(u.Path, "tenant-1") {
		t.Fatalf("expected tenant in auth url path, got %s", u.Path)
	}
	q := u.Query()
	if q.Get("state") != "state-123" || q.Get("client_id") != "client-id" || q.Get("response_mode") != "query" {
		t.Fatalf("unexpected query: %v", q)
	}
	if !strings.Contains(q.Get("scope"), "Files.ReadWrite.All") {
		t.Fatalf("missing files scope: %s", q.Get("scope"))
	}
}

func TestExchangeMeAndListChildren(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "auth-code" {
			t.Errorf("unexpected code %q", r.Form.Get("code"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1.0/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			t.Errorf("missing bearer token: %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"id":"u1","displayName":"Ada","userPrincipalName":"ada@example.com"}`))
	})
	mux.HandleFunc("/v1.0/me/drive/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/me/drive/root:/Dev Payments/2025:/children" {
			t.Errorf("unexpected drive path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"value":[{"id":"f1","name":"ledger.xlsx","size":1024,"webUrl":"https://x"}]}`))
	})
	a := newTestAdapter(t, mux)
	ctx := context.Background()

	tok, err := a.Exchange(ctx, "auth-code")
	if err != nil {
		t.Fatalf("Exchange returned error: %v", err)
	}

	user, err := a.Me(ctx, tok)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.ID != "u1" || user.Mail != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	files, err := a.ListChildren(ctx, tok, "/Dev Payments/2025")
	if err != nil {
		t.Fatalf("ListChildren returned error: %v", err)
	}
	if len(files) != 1 || files[0].Name != "ledger.xlsx" {
		t.Fatalf("unexpected files: %+v", files)
	}
}

func TestGraphErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/me/drive/root/children", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"serviceNotAvailable"}}`))
	})
	a := newTestAdapter(t, mux)

	_, err := a.ListChildren(context.Background(), &oauth2.Token{AccessToken: "abc"}, "/")
	var serr *errs.ExternalServiceError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ExternalServiceError, got %T (%v)", err, err)
	}
	if !serr.Transient || serr.Service != "onedrive" {
		t.Fatalf("unexpected error: %+v", serr)
	}
}
