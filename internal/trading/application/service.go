package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/trading/domain"
)

// TradingService 下单模块的应用服务门面
// 管理表单会话，把校验、比例推算与提交状态机编排到一起。
// 余额与参考价每次操作都从协作方重新读取，不做缓存。
type TradingService struct {
	gateway  domain.ExecutionGateway
	balances domain.BalanceProvider
	prices   domain.ReferencePriceProvider
	catalog  domain.MarketCatalog
	trades   domain.TradeRecorder

	mu       sync.Mutex
	sessions map[string]*FormSession
}

// NewTradingService 构造函数
// trades 可为 nil，此时成交不记流水。
func NewTradingService(gateway domain.ExecutionGateway, balances domain.BalanceProvider, prices domain.ReferencePriceProvider, catalog domain.MarketCatalog, trades domain.TradeRecorder) *TradingService {
	return &TradingService{
		gateway:  gateway,
		balances: balances,
		prices:   prices,
		catalog:  catalog,
		trades:   trades,
		sessions: make(map[string]*FormSession),
	}
}

// session 返回指定会话，不存在时创建
// 会话 ID 为空时分配新 ID。
func (s *TradingService) session(id string) (string, *FormSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.New().String()
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = NewFormSession()
		s.sessions[id] = sess
	}
	return id, sess
}

// lookup 返回指定会话，不存在时不创建
// 只读与关闭提示走该路径，避免未知 ID 撑大会话表。
func (s *TradingService) lookup(id string) (*FormSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SubmitOrder 提交订单
// 返回会话 ID 与流转后的提交状态；在途提交返回 ErrSubmissionInFlight。
func (s *TradingService) SubmitOrder(ctx context.Context, cmd SubmitOrderCommand) (SubmitResultDTO, error) {
	id, sess := s.session(cmd.SessionID)
	draft := cmd.Draft()

	if s.catalog != nil && !s.catalog.Tradable(draft.Symbol) {
		state, err := sess.FailValidation(draft, domain.ValidationErrors{{
			Code:    domain.ErrCodeInvalidSymbol,
			Field:   "symbol",
			Message: fmt.Sprintf("unknown or untradable symbol %q", draft.Symbol),
		}})
		if err != nil {
			return SubmitResultDTO{}, err
		}
		return SubmitResultDTO{SessionID: id, State: state}, nil
	}

	balances, err := s.balances.Balances(ctx, draft.Symbol)
	if err != nil {
		return SubmitResultDTO{}, fmt.Errorf("read balances: %w", err)
	}
	refPrice := s.prices.ReferencePrice(draft.Symbol)

	state, err := sess.Submit(ctx, draft, balances, s.gateway, refPrice)
	if err != nil {
		return SubmitResultDTO{}, err
	}
	if state.Phase == PhaseSucceeded && s.trades != nil {
		if amount, perr := decimalFromInput(draft.Amount); perr == nil {
			s.trades.RecordTrade(draft.Symbol, draft.Side, amount)
		}
	}
	return SubmitResultDTO{SessionID: id, State: state}, nil
}

// Preview 计算草稿的派生字段
// 纯读操作：给出预估总额与非致命的校验提示，不改变会话状态。
func (s *TradingService) Preview(ctx context.Context, cmd SubmitOrderCommand) (PreviewDTO, error) {
	draft := cmd.Draft()

	balances, err := s.balances.Balances(ctx, draft.Symbol)
	if err != nil {
		return PreviewDTO{}, fmt.Errorf("read balances: %w", err)
	}
	refPrice := s.prices.ReferencePrice(draft.Symbol)

	dto := PreviewDTO{}
	if refPrice.IsPositive() {
		dto.ReferencePrice = refPrice.String()
	}
	if derived := domain.Derive(draft, refPrice); derived.TotalAvailable {
		dto.EstimatedTotal = derived.EstimatedTotal.String()
	}
	if _, errs := domain.Validate(draft, balances, refPrice); len(errs) > 0 {
		dto.Issues = errs
	}
	return dto, nil
}

// Size 按可用余额比例推算下单数量
func (s *TradingService) Size(ctx context.Context, cmd SizeCommand) (SizeDTO, error) {
	balances, err := s.balances.Balances(ctx, cmd.Symbol)
	if err != nil {
		return SizeDTO{}, fmt.Errorf("read balances: %w", err)
	}

	// 参考价：限价单用当前限价，否则用最近成交价
	refPrice := s.prices.ReferencePrice(cmd.Symbol)
	if domain.OrderType(cmd.Type) == domain.OrderTypeLimit && cmd.LimitPrice != "" {
		if p, perr := decimalFromInput(cmd.LimitPrice); perr == nil {
			refPrice = p
		}
	}

	amount := domain.SizeFromPercentage(cmd.Percent, domain.OrderSide(cmd.Side), balances, refPrice)
	return SizeDTO{Amount: amount.String(), Computable: amount.IsPositive()}, nil
}

// Edit 记录一次已提交的输入变更，终态会话回到 Idle
func (s *TradingService) Edit(cmd SubmitOrderCommand) string {
	id, sess := s.session(cmd.SessionID)
	sess.Edit(cmd.Draft())
	return id
}

// Dismiss 关闭指定会话的成功或失败提示
// 会话不存在时返回 false，不创建新会话。
func (s *TradingService) Dismiss(sessionID string) bool {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return false
	}
	sess.Dismiss()
	return true
}

// State 返回指定会话的当前提交状态
// 会话不存在时返回 false，不创建新会话。
func (s *TradingService) State(sessionID string) (SubmissionState, bool) {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return SubmissionState{}, false
	}
	return sess.State(), true
}

// decimalFromInput 解析表单输入中的正十进制数
func decimalFromInput(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("value must be positive, got %s", s)
	}
	return d, nil
}
