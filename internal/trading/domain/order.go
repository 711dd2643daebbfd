// Package domain 包含交易终端下单模块的领域模型
package domain

import (
	"github.com/shopspring/decimal"
)

// OrderSide 订单方向
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Valid 判断订单方向是否合法
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderType 订单类型
type OrderType string

const (
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"
)

// Valid 判断订单类型是否合法
func (t OrderType) Valid() bool {
	return t == OrderTypeLimit || t == OrderTypeMarket
}

// AssetPrecision 资产数量精度（小数位数）
// 下单数量与按比例计算的数量都按该精度展示与录入
const AssetPrecision = 8

// OrderDraft 订单草稿
// 代表用户在表单中正在编辑、尚未被执行网关接受的一笔订单。
// 数量与限价保持原始字符串，解析与校验统一由 Validate 完成。
type OrderDraft struct {
	// 交易对符号
	Symbol string `json:"symbol"`
	// 买卖方向
	Side OrderSide `json:"side"`
	// 订单类型
	Type OrderType `json:"type"`
	// 数量（表单原始输入）
	Amount string `json:"amount"`
	// 限价（仅限价单使用，市价单忽略）
	LimitPrice string `json:"limit_price"`
}

// ValidatedOrder 已通过校验的订单
// 与 OrderDraft 字段一一对应，但保证所有不变量成立：
// 数量为正、限价单限价为正、市价单不携带限价。
// 只能由 Validate 构造，调用方不得手工拼装。
type ValidatedOrder struct {
	Symbol string
	Side   OrderSide
	Type   OrderType
	// 数量，已保证为正
	Amount decimal.Decimal
	// 限价，市价单时为零值
	LimitPrice decimal.Decimal
}

// EffectivePrice 返回订单的生效价格
// 限价单返回限价，市价单返回传入的参考价。
func (o ValidatedOrder) EffectivePrice(referencePrice decimal.Decimal) decimal.Decimal {
	if o.Type == OrderTypeLimit {
		return o.LimitPrice
	}
	return referencePrice
}
