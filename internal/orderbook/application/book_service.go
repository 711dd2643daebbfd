// Package application 提供订单簿的应用服务
package application

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/orderbook/domain"
)

// DefaultDepth 深度视图默认档位数
const DefaultDepth = 15

// DepthView 聚合后的双边深度视图，供渲染层直接消费
type DepthView struct {
	Symbol string `json:"symbol"`
	// 买盘，最优买价在前
	Bids []domain.AggregatedLevel `json:"bids"`
	// 卖盘，最优卖价在前
	Asks []domain.AggregatedLevel `json:"asks"`
	// 买卖价差，任一侧为空时为零值
	Spread decimal.Decimal `json:"spread"`
	// 最近成交价，尚无行情时为零值
	LastPrice decimal.Decimal `json:"last_price"`
	// 快照时间
	Timestamp time.Time `json:"timestamp"`
}

// BookService 订单簿应用服务
// 每个交易对保存最新一份行情快照与最近成交价；快照由行情源整体
// 替换，读取方永远拿到完整的一份，不存在部分更新。
type BookService struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.Snapshot
	lastPrice map[string]decimal.Decimal
	normalize domain.NormalizeMode
}

// NewBookService 构造订单簿服务
func NewBookService(normalize domain.NormalizeMode) *BookService {
	return &BookService{
		snapshots: make(map[string]*domain.Snapshot),
		lastPrice: make(map[string]decimal.Decimal),
		normalize: normalize,
	}
}

// Apply 接收一份新的行情快照与最近成交价，整体替换旧数据
func (s *BookService) Apply(snapshot *domain.Snapshot, lastPrice decimal.Decimal) {
	if snapshot == nil || snapshot.Symbol == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snapshot.Symbol] = snapshot
	if lastPrice.IsPositive() {
		s.lastPrice[snapshot.Symbol] = lastPrice
	}
}

// ReferencePrice 返回最近成交价，实现下单模块的参考价接口
func (s *BookService) ReferencePrice(symbol string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPrice[symbol]
}

// Depth 返回指定交易对的聚合深度视图
// depth <= 0 时使用默认档位数。尚无行情时返回空视图。
func (s *BookService) Depth(symbol string, depth int) DepthView {
	if depth <= 0 {
		depth = DefaultDepth
	}

	s.mu.RLock()
	snap := s.snapshots[symbol]
	last := s.lastPrice[symbol]
	s.mu.RUnlock()

	view := DepthView{Symbol: symbol, LastPrice: last}
	if snap == nil {
		return view
	}

	opts := domain.AggregateOptions{MaxRows: depth, Normalize: s.normalize}
	view.Bids = domain.Aggregate(snap.Bids, domain.SideBid, opts)
	view.Asks = domain.Aggregate(snap.Asks, domain.SideAsk, opts)
	view.Spread = snap.Spread()
	view.Timestamp = snap.Timestamp
	return view
}
