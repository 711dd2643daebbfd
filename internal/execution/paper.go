// Package execution 提供执行网关的具体实现
// 网关是核心之外的交易后端，这里提供纸面引擎与远端 REST 客户端两种。
package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/trading/domain"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
)

// AcceptedOrder 纸面引擎接受的订单
type AcceptedOrder struct {
	OrderID string `json:"order_id"`
	Symbol  string `json:"symbol"`
	Side    string `json:"side"`
	Type    string `json:"type"`
	// 数量
	Amount decimal.Decimal `json:"amount"`
	// 成交价：市价单为接受时的参考价，限价单为限价
	Price decimal.Decimal `json:"price"`
	// 接受时间
	AcceptedAt time.Time `json:"accepted_at"`
}

// Paper 纸面执行引擎
// 在进程内模拟交易后端：接受合法订单、分配订单 ID 并记录，
// 不做撮合。可配置延迟用于模拟网络与后端处理耗时。
type Paper struct {
	prices  domain.ReferencePriceProvider
	latency time.Duration

	mu     sync.Mutex
	orders []AcceptedOrder
}

// NewPaper 构造纸面引擎
func NewPaper(prices domain.ReferencePriceProvider, latency time.Duration) *Paper {
	return &Paper{prices: prices, latency: latency}
}

// SubmitOrder 接受订单并返回分配的订单 ID
// 市价单在无参考价时拒绝（真实后端同样无法为其定价）。
func (p *Paper) SubmitOrder(ctx context.Context, order domain.ValidatedOrder) (string, error) {
	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	price := order.LimitPrice
	if order.Type == domain.OrderTypeMarket {
		price = p.prices.ReferencePrice(order.Symbol)
		if !price.IsPositive() {
			return "", domain.NewExecutionError(fmt.Sprintf("no market price available for %s", order.Symbol))
		}
	}

	accepted := AcceptedOrder{
		OrderID:    uuid.New().String(),
		Symbol:     order.Symbol,
		Side:       string(order.Side),
		Type:       string(order.Type),
		Amount:     order.Amount,
		Price:      price,
		AcceptedAt: time.Now(),
	}

	p.mu.Lock()
	p.orders = append(p.orders, accepted)
	p.mu.Unlock()

	logger.Info(ctx, "paper execution accepted order",
		"order_id", accepted.OrderID,
		"symbol", accepted.Symbol,
		"side", accepted.Side,
		"type", accepted.Type,
		"amount", accepted.Amount.String(),
		"price", accepted.Price.String(),
	)
	return accepted.OrderID, nil
}

// Orders 返回已接受的订单，最近接受的在前
func (p *Paper) Orders() []AcceptedOrder {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]AcceptedOrder, len(p.orders))
	for i, o := range p.orders {
		out[len(p.orders)-1-i] = o
	}
	return out
}
