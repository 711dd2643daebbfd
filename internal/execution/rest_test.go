package execution

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wyfcoding/tradingterminal/internal/trading/domain"
)

func TestRESTGateway_Submit(t *testing.T) {
	var received submitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(submitResponse{OrderID: "ord-remote-1"})
	}))
	defer srv.Close()

	gw := NewRESTGateway(srv.URL, 5*time.Second)
	order := domain.ValidatedOrder{
		Symbol:     "BTC-USD",
		Side:       domain.OrderSideBuy,
		Type:       domain.OrderTypeLimit,
		Amount:     dec("0.1"),
		LimitPrice: dec("50000"),
	}

	id, err := gw.SubmitOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
	if id != "ord-remote-1" {
		t.Errorf("order id = %q, want ord-remote-1", id)
	}
	if received.Amount != "0.1" || received.LimitPrice != "50000" {
		t.Errorf("request body = %+v, want decimal strings preserved", received)
	}
}

func TestRESTGateway_RejectionSurfacesReasonVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(submitResponse{Message: "min notional not met"})
	}))
	defer srv.Close()

	gw := NewRESTGateway(srv.URL, 5*time.Second)
	order := domain.ValidatedOrder{
		Symbol: "BTC-USD",
		Side:   domain.OrderSideBuy,
		Type:   domain.OrderTypeMarket,
		Amount: dec("0.0001"),
	}

	_, err := gw.SubmitOrder(context.Background(), order)
	var execErr *domain.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("SubmitOrder() error type = %T, want *domain.ExecutionError", err)
	}
	if execErr.Reason != "min notional not met" {
		t.Errorf("reason = %q, want backend message verbatim", execErr.Reason)
	}
}

func TestRESTGateway_MarketOrderOmitsLimitPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["limit_price"]; ok {
			t.Error("market order request carried limit_price")
		}
		json.NewEncoder(w).Encode(submitResponse{OrderID: "ord-2"})
	}))
	defer srv.Close()

	gw := NewRESTGateway(srv.URL, 5*time.Second)
	order := domain.ValidatedOrder{
		Symbol: "BTC-USD",
		Side:   domain.OrderSideSell,
		Type:   domain.OrderTypeMarket,
		Amount: dec("1"),
	}
	if _, err := gw.SubmitOrder(context.Background(), order); err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
}
