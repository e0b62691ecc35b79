package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"docverify-backend/internal/shared/config"
)

type stubClients struct{}

func (stubClients) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
}

type stubTransactions struct{}

func (stubTransactions) RegisterRoutes(rg *gin.RouterGroup, submit ...gin.HandlerFunc) {
	rg.POST("/transactions", append(submit, func(c *gin.Context) { c.Status(http.StatusCreated) })...)
}

func testConfig() config.Config {
	return config.Config{SubmitRateLimit: 1, SubmitRateBurst: 1}
}

func TestHealthWithoutDatabase(t *testing.T) {
	r := NewRouter(testConfig(), RouterDeps{})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestHealthReportsDatabaseFailure(t *testing.T) {
	database, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer database.Close()
	mock.ExpectPing().WillReturnError(sqlmock.ErrCancelled)

	r := NewRouter(testConfig(), RouterDeps{DB: database})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewRouter(testConfig(), RouterDeps{})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `path="/api/v1/health"`) {
		t.Fatalf("expected health route in metrics output")
	}
}

func TestAuthRequiredProtectsFeatureRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRequired = true
	r := NewRouter(cfg, RouterDeps{Clients: stubClients{}, Transactions: stubTransactions{}})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", resp.Code)
	}
}

func TestSubmitIsRateLimited(t *testing.T) {
	r := NewRouter(testConfig(), RouterDeps{Clients: stubClients{}, Transactions: stubTransactions{}})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil))
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected 201 then 429, got %v", codes)
	}

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("reads must not be limited, got %d", resp.Code)
		}
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", ":9000": ":9000", "3000": ":3000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
