// Package application 提供钱包的应用服务
package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/market"
	tradingdomain "github.com/wyfcoding/tradingterminal/internal/trading/domain"
	"github.com/wyfcoding/tradingterminal/internal/wallet/domain"
)

// ErrInsufficientFunds 可用余额不足以完成提现
var ErrInsufficientFunds = fmt.Errorf("insufficient available balance")

// WithdrawValidationError 提现申请校验失败
type WithdrawValidationError struct {
	Issues []string
}

func (e *WithdrawValidationError) Error() string {
	return fmt.Sprintf("withdraw request invalid: %v", e.Issues)
}

// DepositValidationError 充值申请校验失败
type DepositValidationError struct {
	Issues []string
}

func (e *DepositValidationError) Error() string {
	return fmt.Sprintf("deposit request invalid: %v", e.Issues)
}

// WalletService 钱包应用服务
// 账户协作者的进程内实现：持有各资产余额与资金流水，
// 并按交易对提供下单模块需要的余额快照。
type WalletService struct {
	catalog *market.Catalog

	mu           sync.RWMutex
	balances     map[string]*domain.Balance
	transactions []domain.Transaction
}

// NewWalletService 构造钱包服务
// initial 为各资产的期初可用余额。
func NewWalletService(catalog *market.Catalog, initial map[string]decimal.Decimal) *WalletService {
	balances := make(map[string]*domain.Balance, len(initial))
	for asset, amount := range initial {
		balances[asset] = &domain.Balance{Asset: asset, Available: amount, Frozen: decimal.Zero}
	}
	return &WalletService{catalog: catalog, balances: balances}
}

// Balances 返回指定交易对的余额快照，实现下单模块的余额接口
// 每次调用都读取当下余额，调用方不得缓存。
func (s *WalletService) Balances(ctx context.Context, symbol string) (tradingdomain.BalanceSnapshot, error) {
	mk, err := s.catalog.Get(symbol)
	if err != nil {
		return tradingdomain.BalanceSnapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return tradingdomain.BalanceSnapshot{
		BaseAvailable:  s.available(mk.BaseCurrency),
		QuoteAvailable: s.available(mk.QuoteCurrency),
	}, nil
}

// available 返回资产可用余额，未知资产视为零
// 调用方须持有读锁。
func (s *WalletService) available(asset string) decimal.Decimal {
	if b, ok := s.balances[asset]; ok {
		return b.Available
	}
	return decimal.Zero
}

// ListBalances 返回全部资产余额
func (s *WalletService) ListBalances() []domain.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Balance, 0, len(s.balances))
	for _, b := range s.balances {
		out = append(out, *b)
	}
	return out
}

// History 返回资金流水，最近发生的在前
func (s *WalletService) History(limit int) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.transactions)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Transaction, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.transactions[i])
	}
	return out
}

// RequestWithdrawal 受理提现申请
// 校验通过后冻结相应可用余额并记一笔 PENDING 流水。
func (s *WalletService) RequestWithdrawal(ctx context.Context, req domain.WithdrawRequest) (domain.Transaction, error) {
	if issues := req.Validate(); len(issues) > 0 {
		return domain.Transaction{}, &WithdrawValidationError{Issues: issues}
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.Transaction{}, &WithdrawValidationError{Issues: []string{"amount must be a positive number"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[req.Asset]
	if !ok || balance.Available.LessThan(amount) {
		return domain.Transaction{}, ErrInsufficientFunds
	}
	balance.Available = balance.Available.Sub(amount)
	balance.Frozen = balance.Frozen.Add(amount)

	tx := domain.Transaction{
		TransactionID: uuid.New().String(),
		Type:          domain.TransactionTypeWithdrawal,
		Asset:         req.Asset,
		Amount:        amount,
		Status:        domain.TransactionStatusPending,
		Memo:          req.Memo,
		CreatedAt:     time.Now(),
	}
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// Deposit 受理充值申请
// 校验通过后直接入账并记一笔 COMPLETED 流水。
func (s *WalletService) Deposit(ctx context.Context, req domain.DepositRequest) (domain.Transaction, error) {
	if issues := req.Validate(); len(issues) > 0 {
		return domain.Transaction{}, &DepositValidationError{Issues: issues}
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.Transaction{}, &DepositValidationError{Issues: []string{"amount must be a positive number"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, ok := s.balances[req.Asset]
	if !ok {
		balance = &domain.Balance{Asset: req.Asset, Available: decimal.Zero, Frozen: decimal.Zero}
		s.balances[req.Asset] = balance
	}
	balance.Available = balance.Available.Add(amount)

	tx := domain.Transaction{
		TransactionID: uuid.New().String(),
		Type:          domain.TransactionTypeDeposit,
		Asset:         req.Asset,
		Amount:        amount,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now(),
	}
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

// RecordTrade 记录一笔成交的资金流水（由下单成功回调）
// 流水以基础货币计量，卖出记为负数。余额由后端结算回报
// 更新，此处不做本地推算。
func (s *WalletService) RecordTrade(symbol string, side tradingdomain.OrderSide, amount decimal.Decimal) {
	mk, err := s.catalog.Get(symbol)
	if err != nil {
		return
	}
	if side == tradingdomain.OrderSideSell {
		amount = amount.Neg()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, domain.Transaction{
		TransactionID: uuid.New().String(),
		Type:          domain.TransactionTypeTrade,
		Asset:         mk.BaseCurrency,
		Amount:        amount,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now(),
	})
}
