package domain

import "github.com/shopspring/decimal"

var percentSteps = map[int]bool{25: true, 50: true, 75: true, 100: true}

// SizeFromPercentage 按可用余额比例推算下单数量
//
// 买入：数量 = 计价货币可用余额 × pct/100 ÷ 参考价；
// 卖出：数量 = 基础货币可用余额 × pct/100。
// 参考价为限价单的当前限价，否则为最近成交价。参考价缺失或非正时
// 返回零值，表示"暂无法计算"，调用方不得把零当作有效数量提交。
//
// 结果按资产精度四舍五入到 8 位小数，仅作为录入便利；舍入后的数量
// 仍会由 Validate 重新做余额校验。
func SizeFromPercentage(pct int, side OrderSide, balances BalanceSnapshot, referencePrice decimal.Decimal) decimal.Decimal {
	if !percentSteps[pct] {
		return decimal.Zero
	}

	ratio := decimal.NewFromInt(int64(pct)).Div(decimal.NewFromInt(100))

	switch side {
	case OrderSideBuy:
		if !referencePrice.IsPositive() {
			return decimal.Zero
		}
		return balances.QuoteAvailable.Mul(ratio).Div(referencePrice).Round(AssetPrecision)
	case OrderSideSell:
		return balances.BaseAvailable.Mul(ratio).Round(AssetPrecision)
	default:
		return decimal.Zero
	}
}

// DerivedFields 由草稿推导出的展示字段
// 随每次已提交的输入变更重新计算，不依赖任何隐式观察者。
type DerivedFields struct {
	// 预估总额（计价货币），无法计算时为零值
	EstimatedTotal decimal.Decimal `json:"estimated_total"`
	// 预估总额是否可计算
	TotalAvailable bool `json:"total_available"`
}

// Derive 计算草稿的派生字段
// (draft, referencePrice) -> DerivedFields 为纯函数，
// 草稿不完整或价格不可用时各字段回落到零值。
func Derive(draft OrderDraft, referencePrice decimal.Decimal) DerivedFields {
	amount, ok := parsePositive(draft.Amount)
	if !ok {
		return DerivedFields{}
	}

	price := referencePrice
	if draft.Type == OrderTypeLimit {
		if price, ok = parsePositive(draft.LimitPrice); !ok {
			return DerivedFields{}
		}
	}
	if !price.IsPositive() {
		return DerivedFields{}
	}

	return DerivedFields{
		EstimatedTotal: amount.Mul(price),
		TotalAvailable: true,
	}
}
