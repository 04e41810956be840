package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBook_BestPrices(t *testing.T) {
	ob := OrderBook{
		Asks: []BookEntry{{Price: 100.5, Volume: 2}, {Price: 101, Volume: 1}},
		Bids: []BookEntry{{Price: 99.5, Volume: 3}, {Price: 99, Volume: 4}},
	}
	assert.Equal(t, 100.5, ob.BestAsk())
	assert.Equal(t, 99.5, ob.BestBid())
}

func TestOrderBook_EmptySides(t *testing.T) {
	// Libro vacío de un lado: centinelas que participan en comparaciones
	// sin ganar nunca a un precio real.
	empty := OrderBook{}
	assert.Equal(t, InfiniteAsk, empty.BestAsk())
	assert.Equal(t, 0.0, empty.BestBid())
}

func TestFillBuy_ExactLevel(t *testing.T) {
	// 300 de notional contra [(100,3),(101,5)]: el primer nivel cubre
	// exactamente el gasto → 3 unidades a 100, sin tocar el segundo nivel.
	asks := []BookEntry{{Price: 100, Volume: 3}, {Price: 101, Volume: 5}}

	volume, cost := FillBuy(asks, 300)
	assert.InDelta(t, 3.0, volume, 1e-9)
	assert.InDelta(t, 300.0, cost, 1e-9)
}

func TestFillBuy_PartialLastLevel(t *testing.T) {
	asks := []BookEntry{{Price: 100, Volume: 2}, {Price: 110, Volume: 10}}

	// 200 se van en el primer nivel; los 110 restantes compran 1 unidad
	// fraccional del segundo.
	volume, cost := FillBuy(asks, 310)
	assert.InDelta(t, 3.0, volume, 1e-9)
	assert.InDelta(t, 310.0, cost, 1e-9)
}

func TestFillBuy_ThinBook(t *testing.T) {
	// El libro se agota antes de llegar al notional: se paga solo lo que hay.
	asks := []BookEntry{{Price: 100, Volume: 1}}

	volume, cost := FillBuy(asks, 500)
	assert.InDelta(t, 1.0, volume, 1e-9)
	assert.InDelta(t, 100.0, cost, 1e-9)
}

func TestFillBuy_Empty(t *testing.T) {
	volume, cost := FillBuy(nil, 500)
	assert.Zero(t, volume)
	assert.Zero(t, cost)
}

func TestFillSell_WalksBestFirst(t *testing.T) {
	// Vender 3 unidades contra [(105,2),(104,10)]: 2@105 + 1@104 = 314.
	bids := []BookEntry{{Price: 105, Volume: 2}, {Price: 104, Volume: 10}}

	proceeds, sold := FillSell(bids, 3)
	assert.InDelta(t, 3.0, sold, 1e-9)
	assert.InDelta(t, 314.0, proceeds, 1e-9)
}

func TestFillSell_ThinBook(t *testing.T) {
	bids := []BookEntry{{Price: 105, Volume: 1}}

	proceeds, sold := FillSell(bids, 3)
	assert.InDelta(t, 1.0, sold, 1e-9)
	assert.InDelta(t, 105.0, proceeds, 1e-9)
}

func TestBestPrice_SpreadRatio(t *testing.T) {
	bp := BestPrice{
		BestAsk: Quote{Number: 100},
		BestBid: Quote{Number: 105},
	}
	assert.InDelta(t, 1.05, bp.SpreadRatio(), 1e-9)
	assert.InDelta(t, 5.0, bp.SpreadPercent(), 1e-9)

	assert.Zero(t, BestPrice{}.SpreadRatio())
}
