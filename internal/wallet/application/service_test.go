package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/market"
	tradingdomain "github.com/wyfcoding/tradingterminal/internal/trading/domain"
	"github.com/wyfcoding/tradingterminal/internal/wallet/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestWallet() *WalletService {
	catalog := market.NewCatalog([]market.Market{
		{Symbol: "BTC-USD", BaseCurrency: "BTC", QuoteCurrency: "USD", Status: market.StatusActive},
	})
	return NewWalletService(catalog, map[string]decimal.Decimal{
		"BTC": dec("0.5"),
		"USD": dec("10000"),
	})
}

func TestWalletService_BalancesForSymbol(t *testing.T) {
	w := newTestWallet()

	snap, err := w.Balances(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("Balances() error = %v", err)
	}
	if !snap.BaseAvailable.Equal(dec("0.5")) || !snap.QuoteAvailable.Equal(dec("10000")) {
		t.Errorf("Balances() = %+v, want base 0.5 / quote 10000", snap)
	}

	if _, err := w.Balances(context.Background(), "DOGE-USD"); err == nil {
		t.Error("Balances(unknown) expected error")
	}
}

func TestWalletService_RequestWithdrawal(t *testing.T) {
	w := newTestWallet()

	tx, err := w.RequestWithdrawal(context.Background(), domain.WithdrawRequest{
		Asset:   "BTC",
		Address: "bc1q0000000000",
		Amount:  "0.2",
		Memo:    "cold storage",
	})
	if err != nil {
		t.Fatalf("RequestWithdrawal() error = %v", err)
	}
	if tx.Status != domain.TransactionStatusPending {
		t.Errorf("tx status = %s, want PENDING", tx.Status)
	}
	if tx.Memo != "cold storage" {
		t.Errorf("tx memo = %q, want the submitted memo", tx.Memo)
	}

	// 可用转冻结
	snap, _ := w.Balances(context.Background(), "BTC-USD")
	if !snap.BaseAvailable.Equal(dec("0.3")) {
		t.Errorf("available after withdrawal = %s, want 0.3", snap.BaseAvailable)
	}

	history := w.History(0)
	if len(history) != 1 || history[0].TransactionID != tx.TransactionID {
		t.Errorf("History() = %+v, want the pending withdrawal", history)
	}
}

func TestWalletService_WithdrawValidation(t *testing.T) {
	w := newTestWallet()

	tests := []struct {
		name string
		req  domain.WithdrawRequest
	}{
		{"missing asset", domain.WithdrawRequest{Address: "bc1q0000000000", Amount: "1"}},
		{"short address", domain.WithdrawRequest{Asset: "BTC", Address: "short", Amount: "1"}},
		{"bad amount", domain.WithdrawRequest{Asset: "BTC", Address: "bc1q0000000000", Amount: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.RequestWithdrawal(context.Background(), tt.req)
			var verr *WithdrawValidationError
			if !errors.As(err, &verr) {
				t.Errorf("RequestWithdrawal() error = %v, want WithdrawValidationError", err)
			}
		})
	}
}

func TestWalletService_WithdrawBeyondBalance(t *testing.T) {
	w := newTestWallet()
	_, err := w.RequestWithdrawal(context.Background(), domain.WithdrawRequest{
		Asset:   "BTC",
		Address: "bc1q0000000000",
		Amount:  "0.6",
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("RequestWithdrawal() error = %v, want ErrInsufficientFunds", err)
	}
}

func TestWalletService_HistoryMostRecentFirst(t *testing.T) {
	w := newTestWallet()
	w.RecordTrade("BTC-USD", tradingdomain.OrderSideBuy, dec("0.1"))
	w.RecordTrade("BTC-USD", tradingdomain.OrderSideBuy, dec("0.2"))

	history := w.History(1)
	if len(history) != 1 {
		t.Fatalf("History(1) = %d entries, want 1", len(history))
	}
	if !history[0].Amount.Equal(dec("0.2")) {
		t.Errorf("History(1)[0].Amount = %s, want most recent 0.2", history[0].Amount)
	}
}

func TestWalletService_RecordTrade(t *testing.T) {
	w := newTestWallet()
	w.RecordTrade("BTC-USD", tradingdomain.OrderSideBuy, dec("0.1"))
	w.RecordTrade("BTC-USD", tradingdomain.OrderSideSell, dec("0.3"))
	w.RecordTrade("DOGE-USD", tradingdomain.OrderSideBuy, dec("1")) // 未知交易对忽略

	history := w.History(0)
	if len(history) != 2 {
		t.Fatalf("History() = %d entries, want 2", len(history))
	}
	// 最近的在前：卖出记为负的基础货币数量
	if history[0].Asset != "BTC" || !history[0].Amount.Equal(dec("-0.3")) {
		t.Errorf("sell entry = %s %s, want BTC -0.3", history[0].Asset, history[0].Amount)
	}
	if history[0].Type != domain.TransactionTypeTrade {
		t.Errorf("entry type = %s, want TRADE", history[0].Type)
	}
	if !history[1].Amount.Equal(dec("0.1")) {
		t.Errorf("buy entry amount = %s, want 0.1", history[1].Amount)
	}
}

func TestWalletService_Deposit(t *testing.T) {
	w := newTestWallet()

	tx, err := w.Deposit(context.Background(), domain.DepositRequest{Asset: "USD", Amount: "500"})
	if err != nil {
		t.Fatalf("Deposit() error = %v", err)
	}
	if tx.Status != domain.TransactionStatusCompleted || tx.Type != domain.TransactionTypeDeposit {
		t.Errorf("tx = %s/%s, want COMPLETED/DEPOSIT", tx.Status, tx.Type)
	}

	snap, _ := w.Balances(context.Background(), "BTC-USD")
	if !snap.QuoteAvailable.Equal(dec("10500")) {
		t.Errorf("quote balance = %s, want 10500 after deposit", snap.QuoteAvailable)
	}

	// 新资产充值自动建仓
	if _, err := w.Deposit(context.Background(), domain.DepositRequest{Asset: "EUR", Amount: "100"}); err != nil {
		t.Fatalf("Deposit(new asset) error = %v", err)
	}
	found := false
	for _, b := range w.ListBalances() {
		if b.Asset == "EUR" && b.Available.Equal(dec("100")) {
			found = true
		}
	}
	if !found {
		t.Error("deposit to a new asset did not create its balance")
	}
}

func TestWalletService_DepositValidation(t *testing.T) {
	w := newTestWallet()

	tests := []struct {
		name string
		req  domain.DepositRequest
	}{
		{"missing asset", domain.DepositRequest{Amount: "1"}},
		{"bad amount", domain.DepositRequest{Asset: "BTC", Amount: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Deposit(context.Background(), tt.req)
			var verr *DepositValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Deposit() error = %v, want DepositValidationError", err)
			}
		})
	}
}
