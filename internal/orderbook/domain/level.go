// Package domain 包含订单簿聚合模块的领域模型
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SizePrecision 档位数量精度（小数位数），与资产数量精度一致
const SizePrecision = 8

// Side 订单簿方向
type Side string

const (
	SideBid Side = "BID"
	SideAsk Side = "ASK"
)

// BookLevel 订单簿单档
// 原始数据，无序且不含累计量。价格与数量必须为正，
// 非法输入在构造时拒绝，聚合函数对其声明域内是全函数。
type BookLevel struct {
	// 价格
	Price decimal.Decimal `json:"price"`
	// 数量
	Size decimal.Decimal `json:"size"`
}

// NewBookLevel 构造订单簿档位，价格或数量非正时报错
func NewBookLevel(price, size decimal.Decimal) (BookLevel, error) {
	if !price.IsPositive() {
		return BookLevel{}, fmt.Errorf("book level price must be positive, got %s", price)
	}
	if !size.IsPositive() {
		return BookLevel{}, fmt.Errorf("book level size must be positive, got %s", size)
	}
	return BookLevel{Price: price, Size: size}, nil
}

// AggregatedLevel 聚合后的档位
// 在 BookLevel 基础上追加累计量与深度比例，只能由 Aggregate 产出。
type AggregatedLevel struct {
	BookLevel
	// 累计数量：排序后从最优档到本档的数量之和
	CumulativeSize decimal.Decimal `json:"cumulative_size"`
	// 深度比例，驱动深度条宽度；按最大累计量归一化时落在 [0,1]
	DepthRatio float64 `json:"depth_ratio"`
}

// Snapshot 订单簿快照
// 行情每次更新整体替换，聚合过程不就地修改。
type Snapshot struct {
	// 交易对符号
	Symbol string `json:"symbol"`
	// 买盘原始档位
	Bids []BookLevel `json:"bids"`
	// 卖盘原始档位
	Asks []BookLevel `json:"asks"`
	// 快照时间
	Timestamp time.Time `json:"timestamp"`
}

// BestBid 返回最高买价，空盘时返回零值
func (s *Snapshot) BestBid() decimal.Decimal {
	best := decimal.Zero
	for _, l := range s.Bids {
		if l.Price.GreaterThan(best) {
			best = l.Price
		}
	}
	return best
}

// BestAsk 返回最低卖价，空盘时返回零值
func (s *Snapshot) BestAsk() decimal.Decimal {
	best := decimal.Zero
	for _, l := range s.Asks {
		if best.IsZero() || l.Price.LessThan(best) {
			best = l.Price
		}
	}
	return best
}

// Spread 返回买卖价差，任一侧为空时返回零值
func (s *Snapshot) Spread() decimal.Decimal {
	bid, ask := s.BestBid(), s.BestAsk()
	if bid.IsZero() || ask.IsZero() {
		return decimal.Zero
	}
	return ask.Sub(bid)
}
