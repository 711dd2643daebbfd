package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NormalizeMode 深度比例的归一化方式
type NormalizeMode int

const (
	// NormalizeByMax 按截断序列内最大累计量（末行）归一化，比例保证落在 [0,1]
	NormalizeByMax NormalizeMode = iota
	// NormalizeByFirst 按首行累计量归一化
	// 兼容旧版终端的深度条：买卖盘均按最优档排序，首行累计量即最小值，
	// 后续行的比例会超过 1，渲染方必须在展示时钳制到 [0,1]。
	NormalizeByFirst
)

// AggregateOptions 聚合选项
type AggregateOptions struct {
	// MaxRows 最多返回的档位数，0 表示不截断。
	// 截断发生在排序之后、累计之前：累计量只反映实际保留的档位。
	MaxRows int
	// Normalize 深度比例归一化方式，默认 NormalizeByMax
	Normalize NormalizeMode
}

// Aggregate 将原始档位聚合为带累计量与深度比例的有序序列
//
// 排序：买盘按价格降序（最优买价在前），卖盘按价格升序（最优卖价在前）；
// 价格相同的档位稳定保序，不做合并。输入切片不被修改。
func Aggregate(levels []BookLevel, side Side, opts AggregateOptions) []AggregatedLevel {
	if len(levels) == 0 {
		return nil
	}

	sorted := make([]BookLevel, len(levels))
	copy(sorted, levels)
	sort.SliceStable(sorted, func(i, j int) bool {
		if side == SideBid {
			return sorted[i].Price.GreaterThan(sorted[j].Price)
		}
		return sorted[i].Price.LessThan(sorted[j].Price)
	})

	if opts.MaxRows > 0 && len(sorted) > opts.MaxRows {
		sorted = sorted[:opts.MaxRows]
	}

	rows := make([]AggregatedLevel, len(sorted))
	running := decimal.Zero
	for i, l := range sorted {
		running = running.Add(l.Size)
		rows[i] = AggregatedLevel{BookLevel: l, CumulativeSize: running}
	}

	var denom decimal.Decimal
	switch opts.Normalize {
	case NormalizeByFirst:
		denom = rows[0].CumulativeSize
	default:
		denom = rows[len(rows)-1].CumulativeSize
	}
	if denom.IsZero() {
		return rows
	}
	for i := range rows {
		rows[i].DepthRatio = rows[i].CumulativeSize.Div(denom).InexactFloat64()
	}
	return rows
}
