package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/devpay-backend/internal/handlers"
	"github.com/GregMSThompson/devpay-backend/internal/response"
	"github.com/GregMSThompson/devpay-backend/internal/services"
	"github.com/GregMSThompson/devpay-backend/internal/store"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.New(logger.NewTestHandler(slog.LevelInfo))

	payments := store.NewMemPaymentStore()
	ledgers := store.NewMemLedgerStore()
	ledgerSvc := services.NewLedgerService(payments, ledgers)

	deps := &handlers.Deps{
		Log:             log,
		ResponseHandler: response.New(log),
		PaymentSvc:      services.NewPaymentService(payments, ledgerSvc),
		LedgerSvc:       ledgerSvc,
		StatsSvc:        services.NewStatsService(payments, ledgers),
		Environment:     "test",
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string, dst any) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: invalid json: %v", method, url, err)
	}
	if dst != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("%s %s: decode data: %v", method, url, err)
		}
	}
	return resp.StatusCode, env
}

func TestPaymentLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var created struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"paymentStatus"`
	}
	status, _ := call(t, http.MethodPost, srv.URL+"/api/payments",
		`{"developerName":"Ada","amount":75,"taskTitle":"Login page"}`, &created)
	if status != http.StatusCreated || created.ID == "" || created.PaymentStatus != "pending" {
		t.Fatalf("create: status=%d payment=%+v", status, created)
	}

	status, _ = call(t, http.MethodPatch, srv.URL+"/api/payments/"+created.ID+"/status",
		`{"status":"confirmed"}`, nil)
	if status != http.StatusOK {
		t.Fatalf("update status: %d", status)
	}

	var stats struct {
		TotalPaid        string `json:"totalPaid"`
		TotalPending     string `json:"totalPending"`
		ActiveDevelopers int    `json:"activeDevelopers"`
		ThisMonth        string `json:"thisMonth"`
		RecentPayments   []any  `json:"recentPayments"`
	}
	status, _ = call(t, http.MethodGet, srv.URL+"/api/payments/stats", "", &stats)
	if status != http.StatusOK {
		t.Fatalf("stats: %d", status)
	}
	if stats.TotalPaid != "75" || stats.TotalPending != "0" || stats.ThisMonth != "75" || stats.ActiveDevelopers != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(stats.RecentPayments) != 1 {
		t.Fatalf("expected one recent payment, got %d", len(stats.RecentPayments))
	}

	var ledger []struct {
		DeveloperName  string `json:"developerName"`
		PaymentCount   int    `json:"paymentCount"`
		RecentPayments []any  `json:"recentPayments"`
	}
	status, _ = call(t, http.MethodGet, srv.URL+"/api/payments/ledger", "", &ledger)
	if status != http.StatusOK || len(ledger) != 1 || ledger[0].PaymentCount != 1 || len(ledger[0].RecentPayments) != 1 {
		t.Fatalf("unexpected ledger: status=%d rows=%+v", status, ledger)
	}
}

func TestBulkAndErrors(t *testing.T) {
	srv := newTestServer(t)

	var a, b struct {
		ID string `json:"id"`
	}
	call(t, http.MethodPost, srv.URL+"/api/payments", `{"developerName":"Ada","amount":"10"}`, &a)
	call(t, http.MethodPost, srv.URL+"/api/payments", `{"developerName":"Grace","amount":"20"}`, &b)

	var bulk struct {
		Count int `json:"count"`
	}
	body := `{"payment_ids":["` + a.ID + `","missing","` + b.ID + `"],"status":"sent"}`
	status, _ := call(t, http.MethodPost, srv.URL+"/api/payments/bulk", body, &bulk)
	if status != http.StatusOK || bulk.Count != 2 {
		t.Fatalf("bulk: status=%d count=%d", status, bulk.Count)
	}

	status, env := call(t, http.MethodGet, srv.URL+"/api/payments/missing", "", nil)
	if status != http.StatusNotFound || env.Code != "not_found" {
		t.Fatalf("get missing: status=%d code=%q", status, env.Code)
	}

	status, env = call(t, http.MethodPost, srv.URL+"/api/payments", `{"developerName":"Ada","amount":0}`, nil)
	if status != http.StatusBadRequest || env.Code != "invalid_input" {
		t.Fatalf("invalid create: status=%d code=%q", status, env.Code)
	}

	status, env = call(t, http.MethodPatch, srv.URL+"/api/developers/Nobody", `{"active":false}`, nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown developer: status=%d code=%q", status, env.Code)
	}

	var devs []struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
	call(t, http.MethodPatch, srv.URL+"/api/developers/Grace", `{"active":false}`, nil)
	status, _ = call(t, http.MethodGet, srv.URL+"/api/developers", "", &devs)
	if status != http.StatusOK || len(devs) != 2 || devs[1].Name != "Grace" || devs[1].Active {
		t.Fatalf("developers: status=%d devs=%+v", status, devs)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	var health map[string]string
	status, env := call(t, http.MethodGet, srv.URL+"/api/health", "", &health)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("health: status=%d", status)
	}
	if health["status"] != "ok" || health["environment"] != "test" || health["timestamp"] == "" {
		t.Fatalf("unexpected health body: %v", health)
	}
}
