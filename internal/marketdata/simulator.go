// Package marketdata 提供行情源
// 推模式协作者：周期性生成订单簿快照与最近成交价并推给订单簿服务。
// 终端默认对接模拟行情，真实行情源只需实现相同的 Sink 推送即可。
package marketdata

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/orderbook/domain"
	"github.com/wyfcoding/tradingterminal/pkg/logger"
)

// Sink 行情接收方
type Sink interface {
	// Apply 整体替换指定交易对的快照与最近成交价
	Apply(snapshot *domain.Snapshot, lastPrice decimal.Decimal)
}

// SymbolFeed 单个交易对的模拟参数
type SymbolFeed struct {
	// 交易对符号
	Symbol string
	// 基准价，随机游走围绕其波动
	BasePrice float64
	// 相邻档位的价格步长
	TickSize float64
	// 每侧生成的档位数
	Levels int
}

// Simulator 模拟行情源
// 最近成交价围绕基准价做正弦叠加随机扰动的游走，
// 买卖盘按步长在成交价两侧铺档，数量随机。
type Simulator struct {
	feeds    []SymbolFeed
	sink     Sink
	interval time.Duration
	rng      *rand.Rand
	step     int
}

// NewSimulator 构造模拟行情源
func NewSimulator(feeds []SymbolFeed, sink Sink, interval time.Duration, seed int64) *Simulator {
	return &Simulator{
		feeds:    feeds,
		sink:     sink,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Run 周期推送行情直到 ctx 结束
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info(ctx, "market data simulator started",
		"symbols", len(s.feeds),
		"interval", s.interval.String(),
	)

	// 启动即推一轮，终端无需等待第一个 tick
	s.Tick()
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "market data simulator stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick 为全部交易对生成并推送一轮行情
func (s *Simulator) Tick() {
	s.step++
	for _, feed := range s.feeds {
		snapshot, last := s.generate(feed)
		s.sink.Apply(snapshot, last)
	}
}

// generate 生成一份快照与最近成交价
func (s *Simulator) generate(feed SymbolFeed) (*domain.Snapshot, decimal.Decimal) {
	levels := feed.Levels
	if levels <= 0 {
		levels = 15
	}
	tick := feed.TickSize
	if tick <= 0 {
		tick = feed.BasePrice / 10000
	}

	// 随机游走：正弦漂移叠加均匀扰动
	drift := math.Sin(float64(s.step)/5) * tick * 4
	noise := (s.rng.Float64() - 0.5) * tick * 2
	last := feed.BasePrice + drift + noise

	snapshot := &domain.Snapshot{
		Symbol:    feed.Symbol,
		Bids:      make([]domain.BookLevel, 0, levels),
		Asks:      make([]domain.BookLevel, 0, levels),
		Timestamp: time.Now(),
	}
	for i := 0; i < levels; i++ {
		bidPx := last - tick*float64(i+1)
		askPx := last + tick*float64(i+1)
		if bidPx <= 0 {
			break
		}
		bid, err := domain.NewBookLevel(priceDecimal(bidPx), sizeDecimal(s.rng.Float64()*2+0.01))
		if err != nil {
			continue
		}
		ask, err := domain.NewBookLevel(priceDecimal(askPx), sizeDecimal(s.rng.Float64()*2+0.01))
		if err != nil {
			continue
		}
		snapshot.Bids = append(snapshot.Bids, bid)
		snapshot.Asks = append(snapshot.Asks, ask)
	}
	return snapshot, priceDecimal(last)
}

func priceDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func sizeDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(domain.SizePrecision)
}
