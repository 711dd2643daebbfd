package marketdata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/tradingterminal/internal/orderbook/domain"
)

type captureSink struct {
	snapshots []*domain.Snapshot
	lastPrice []decimal.Decimal
}

func (c *captureSink) Apply(snapshot *domain.Snapshot, lastPrice decimal.Decimal) {
	c.snapshots = append(c.snapshots, snapshot)
	c.lastPrice = append(c.lastPrice, lastPrice)
}

func testFeeds() []SymbolFeed {
	return []SymbolFeed{
		{Symbol: "BTC-USD", BasePrice: 62000, TickSize: 0.5, Levels: 15},
		{Symbol: "ETH-USD", BasePrice: 3400, TickSize: 0.1, Levels: 10},
	}
}

func TestSimulator_TickPushesAllSymbols(t *testing.T) {
	sink := &captureSink{}
	sim := NewSimulator(testFeeds(), sink, time.Second, 1)

	sim.Tick()
	if len(sink.snapshots) != 2 {
		t.Fatalf("Tick() pushed %d snapshots, want 2", len(sink.snapshots))
	}
	if sink.snapshots[0].Symbol != "BTC-USD" || sink.snapshots[1].Symbol != "ETH-USD" {
		t.Errorf("symbols = %s, %s", sink.snapshots[0].Symbol, sink.snapshots[1].Symbol)
	}
}

func TestSimulator_SnapshotsAreWellFormed(t *testing.T) {
	sink := &captureSink{}
	sim := NewSimulator(testFeeds(), sink, time.Second, 42)

	for i := 0; i < 20; i++ {
		sim.Tick()
	}

	for i, snap := range sink.snapshots {
		last := sink.lastPrice[i]
		if !last.IsPositive() {
			t.Fatalf("tick %d: last price %s not positive", i, last)
		}
		if len(snap.Bids) == 0 || len(snap.Asks) == 0 {
			t.Fatalf("tick %d: empty side", i)
		}
		for _, l := range snap.Bids {
			if !l.Price.IsPositive() || !l.Size.IsPositive() {
				t.Fatalf("tick %d: malformed bid %+v", i, l)
			}
			if l.Price.GreaterThanOrEqual(last) {
				t.Errorf("tick %d: bid %s not below last %s", i, l.Price, last)
			}
		}
		for _, l := range snap.Asks {
			if l.Price.LessThanOrEqual(last) {
				t.Errorf("tick %d: ask %s not above last %s", i, l.Price, last)
			}
		}
		if snap.BestBid().GreaterThanOrEqual(snap.BestAsk()) {
			t.Errorf("tick %d: crossed book, bid %s >= ask %s", i, snap.BestBid(), snap.BestAsk())
		}
	}
}

func TestSimulator_DeterministicWithSeed(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{}
	NewSimulator(testFeeds(), a, time.Second, 7).Tick()
	NewSimulator(testFeeds(), b, time.Second, 7).Tick()

	if !a.lastPrice[0].Equal(b.lastPrice[0]) {
		t.Errorf("same seed produced different prices: %s vs %s", a.lastPrice[0], b.lastPrice[0])
	}
}
