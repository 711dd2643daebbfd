package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExecutionGateway 执行网关接口
// 由外部交易后端实现，核心对拒绝原因不做解释，原样透传。
type ExecutionGateway interface {
	// SubmitOrder 提交订单，成功返回后端分配的订单 ID
	SubmitOrder(ctx context.Context, order ValidatedOrder) (string, error)
}

// BalanceProvider 账户余额提供方
// 推模式外部协作者，核心每次使用都重新读取最新快照。
type BalanceProvider interface {
	// Balances 返回指定交易对的余额快照
	Balances(ctx context.Context, symbol string) (BalanceSnapshot, error)
}

// ReferencePriceProvider 参考价提供方
// 返回最近成交价；尚无行情时返回零值。
type ReferencePriceProvider interface {
	ReferencePrice(symbol string) decimal.Decimal
}

// MarketCatalog 交易对目录
// 下单前用于确认交易对存在且可交易。
type MarketCatalog interface {
	Tradable(symbol string) bool
}

// TradeRecorder 成交记录方
// 提交被网关接受后回调，由账户协作者记入资金流水。
type TradeRecorder interface {
	// RecordTrade 记录一笔成交：交易对、方向与基础货币数量
	RecordTrade(symbol string, side OrderSide, amount decimal.Decimal)
}
