package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/orderbook/application"
	"github.com/wyfcoding/tradingterminal/internal/orderbook/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *application.BookService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := application.NewBookService(domain.NormalizeByMax)
	router := gin.New()
	NewBookHandler(svc).RegisterRoutes(router.Group(""))
	return router, svc
}

func mustLevel(t *testing.T, price, size string) domain.BookLevel {
	t.Helper()
	lvl, err := domain.NewBookLevel(decimal.RequireFromString(price), decimal.RequireFromString(size))
	if err != nil {
		t.Fatalf("level %s/%s: %v", price, size, err)
	}
	return lvl
}

func TestGetDepth(t *testing.T) {
	router, svc := newTestRouter(t)
	svc.Apply(&domain.Snapshot{
		Symbol:    "BTC-USD",
		Bids:      []domain.BookLevel{mustLevel(t, "100", "1"), mustLevel(t, "99", "2")},
		Asks:      []domain.BookLevel{mustLevel(t, "101", "1")},
		Timestamp: time.Now(),
	}, decimal.RequireFromString("100.5"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orderbook/BTC-USD?depth=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var env struct {
		Data application.DepthView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got := len(env.Data.Bids); got != 1 {
		t.Fatalf("bids = %d, want 1 after truncation", got)
	}
	if !env.Data.LastPrice.Equal(decimal.RequireFromString("100.5")) {
		t.Fatalf("last price = %s, want 100.5", env.Data.LastPrice)
	}
}

func TestGetDepthRejectsBadDepth(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, depth := range []string{"0", "-3", "abc"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orderbook/BTC-USD?depth="+depth, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("depth %q: status = %d, want 400", depth, w.Code)
		}
	}
}

func TestGetDepthUnknownSymbolIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orderbook/XRP-USD", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var env struct {
		Data application.DepthView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(env.Data.Bids) != 0 || len(env.Data.Asks) != 0 {
		t.Fatal("expected empty book before any update")
	}
}
