package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func TestFirebaseAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	m := &Middleware{AuthClient: &stubVerifier{}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not run")
	})

	for _, header := range []string{"", "Token abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		m.FirebaseAuth(next).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", header, rr.Code)
		}
	}
}

func TestFirebaseAuthRejectsInvalidToken(t *testing.T) {
	v := &stubVerifier{err: errors.New("expired")}
	m := &Middleware{AuthClient: v}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rr := httptest.NewRecorder()
	m.FirebaseAuth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized || v.got != "stale" {
		t.Fatalf("status = %d, verified %q", rr.Code, v.got)
	}
}

func TestFirebaseAuthStoresIdentity(t *testing.T) {
	v := &stubVerifier{token: &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "ada@example.com"}}}
	m := &Middleware{AuthClient: v}

	var uid, email string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid = UID(r.Context())
		email = Email(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	req.Header.Set("Authorization", "bearer good")
	rr := httptest.NewRecorder()
	m.FirebaseAuth(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	if uid != "uid-1" || email != "ada@example.com" {
		t.Fatalf("identity not stored: uid=%q email=%q", uid, email)
	}
}

func TestLoggerMiddlewareStoresRequestLogger(t *testing.T) {
	base := slog.New(logger.NewTestHandler(slog.LevelInfo))
	m := NewLoggerMiddleware(base)

	var got *slog.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	chimiddleware.RequestID(m.LoggerMiddleware(next)).ServeHTTP(rr, req)

	if got == nil || got == slog.Default() {
		t.Fatalf("expected request-scoped logger in context")
	}
}

func TestLoggerMiddlewareWritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	m := NewLoggerMiddleware(slog.New(logger.NewCloudRunHandlerWriter(slog.LevelInfo, &buf)))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/workload", nil)
	chimiddleware.RequestID(m.LoggerMiddleware(next)).ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid access line %q: %v", buf.String(), err)
	}
	if event["severity"] != "ERROR" || event["message"] != "request completed" {
		t.Fatalf("unexpected access line: %v", event)
	}
	data, _ := event["data"].(map[string]any)
	if data["path"] != "/api/workload" || data["status"] != float64(http.StatusBadGateway) || data["request_id"] == "" {
		t.Fatalf("unexpected access data: %v", data)
	}
}
