package domain

import "github.com/shopspring/decimal"

// BalanceSnapshot 余额快照
// 由账户服务整体提供并整体替换，核心只读不改。
// 每次使用都应重新获取最新快照，不得跨越挂起点缓存。
type BalanceSnapshot struct {
	// 基础货币可用余额（卖出时消耗）
	BaseAvailable decimal.Decimal `json:"base_available"`
	// 计价货币可用余额（买入时消耗）
	QuoteAvailable decimal.Decimal `json:"quote_available"`
}
