// Package market 提供交易对目录
// 终端可交易的交易对及其精度、最小下单量等参考数据。
package market

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Status 交易对状态
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusHalted Status = "HALTED"
)

// Market 交易对
type Market struct {
	// 交易对符号，如 BTC-USD
	Symbol string `json:"symbol"`
	// 展示名称
	Name string `json:"name"`
	// 基础货币
	BaseCurrency string `json:"base_currency"`
	// 计价货币
	QuoteCurrency string `json:"quote_currency"`
	// 价格精度（小数位数）
	PricePrecision int32 `json:"price_precision"`
	// 数量精度（小数位数）
	AmountPrecision int32 `json:"amount_precision"`
	// 最小下单量
	MinOrderSize decimal.Decimal `json:"min_order_size"`
	// 状态
	Status Status `json:"status"`
}

// Catalog 交易对目录
// 启动时装载，运行期只读。
type Catalog struct {
	mu      sync.RWMutex
	markets map[string]Market
}

// NewCatalog 构造目录
func NewCatalog(markets []Market) *Catalog {
	m := make(map[string]Market, len(markets))
	for _, mk := range markets {
		m[mk.Symbol] = mk
	}
	return &Catalog{markets: m}
}

// Tradable 判断交易对是否存在且处于可交易状态
func (c *Catalog) Tradable(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mk, ok := c.markets[symbol]
	return ok && mk.Status == StatusActive
}

// Get 返回指定交易对
func (c *Catalog) Get(symbol string) (Market, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mk, ok := c.markets[symbol]
	if !ok {
		return Market{}, fmt.Errorf("unknown symbol %q", symbol)
	}
	return mk, nil
}

// List 返回全部交易对，按符号排序
func (c *Catalog) List() []Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Market, 0, len(c.markets))
	for _, mk := range c.markets {
		out = append(out, mk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
