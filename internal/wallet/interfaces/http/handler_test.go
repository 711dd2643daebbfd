package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/market"
	"github.com/wyfcoding/tradingterminal/internal/wallet/application"
	"github.com/wyfcoding/tradingterminal/internal/wallet/domain"
	"github.com/wyfcoding/tradingterminal/pkg/metrics"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := market.NewCatalog([]market.Market{{
		Symbol:        "BTC-USD",
		BaseCurrency:  "BTC",
		QuoteCurrency: "USD",
		Status:        market.StatusActive,
	}})
	svc := application.NewWalletService(catalog, map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(2),
		"USD": decimal.NewFromInt(10000),
	})
	router := gin.New()
	NewWalletHandler(svc, metrics.New("test")).RegisterRoutes(router.Group(""))
	return router
}

func TestListBalances(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balances", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var env struct {
		Data []domain.Balance `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data) != 2 {
		t.Fatalf("balances = %d, want 2", len(env.Data))
	}
}

func TestDeposit(t *testing.T) {
	router := newTestRouter(t)

	body := `{"asset":"USD","amount":"500"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var env struct {
		Data domain.Transaction `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Type != domain.TransactionTypeDeposit || env.Data.Status != domain.TransactionStatusCompleted {
		t.Errorf("tx = %s/%s, want DEPOSIT/COMPLETED", env.Data.Type, env.Data.Status)
	}
}

func TestDepositBadAmount(t *testing.T) {
	router := newTestRouter(t)

	body := `{"asset":"USD","amount":"-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/deposits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRequestWithdrawal(t *testing.T) {
	router := newTestRouter(t)

	body := `{"asset":"USD","address":"0xabcdef012345","amount":"500","memo":"rent"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdrawals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var env struct {
		Data domain.Transaction `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Status != domain.TransactionStatusPending {
		t.Fatalf("status = %s, want %s", env.Data.Status, domain.TransactionStatusPending)
	}
	if env.Data.Memo != "rent" {
		t.Fatalf("memo = %q, want the submitted memo", env.Data.Memo)
	}
}

func TestRequestWithdrawalShortAddress(t *testing.T) {
	router := newTestRouter(t)

	body := `{"asset":"USD","address":"short","amount":"500"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdrawals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRequestWithdrawalInsufficientFunds(t *testing.T) {
	router := newTestRouter(t)

	body := `{"asset":"USD","address":"0xabcdef012345","amount":"999999"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wallet/withdrawals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
