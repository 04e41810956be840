package scanner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alejandrodnm/coinarb/internal/application/arb"
	"github.com/alejandrodnm/coinarb/internal/application/market"
	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/alejandrodnm/coinarb/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCoins struct {
	coins []*domain.Coin
}

func (m *memCoins) GetByName(_ context.Context, name string) (*domain.Coin, error) {
	for _, c := range m.coins {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, domain.ErrCoinNotFound
}

func (m *memCoins) All(_ context.Context) ([]*domain.Coin, error) { return m.coins, nil }
func (m *memCoins) Put(_ context.Context, c *domain.Coin) error   { m.coins = append(m.coins, c); return nil }
func (m *memCoins) Delete(_ context.Context, _ string) error      { return nil }

type captureNotifier struct {
	calls int
	deals []domain.Deal
}

func (n *captureNotifier) Notify(_ context.Context, deals []domain.Deal) error {
	n.calls++
	n.deals = append(n.deals, deals...)
	return nil
}

type captureStorage struct {
	saved []domain.Deal
}

func (s *captureStorage) SaveDeal(_ context.Context, d domain.Deal) error {
	s.saved = append(s.saved, d)
	return nil
}

func (s *captureStorage) History(_ context.Context, _, _ time.Time) ([]domain.Deal, error) {
	return s.saved, nil
}

func (s *captureStorage) Close() error { return nil }

type stubVenue struct {
	name  string
	books map[string]domain.OrderBook
}

func (v *stubVenue) Name() string { return v.name }

func (v *stubVenue) SymbolFor(coin *domain.Coin, base string) string {
	return coin.UpperOn(v.name) + base
}

func (v *stubVenue) TradeLink(coin *domain.Coin, base string) string {
	return "https://" + v.name + ".example.com/" + coin.UpperOn(v.name)
}

func (v *stubVenue) FetchOrderBook(_ context.Context, coin *domain.Coin, base string, _ int) (domain.OrderBook, error) {
	book, ok := v.books[coin.Name()+"/"+base]
	if !ok {
		return domain.OrderBook{}, fmt.Errorf("%s: no pair", v.name)
	}
	return book, nil
}

func newTestScanner(t *testing.T, coins *memCoins, storage ports.DealStorage, notifier *captureNotifier) *Scanner {
	t.Helper()

	// btc tiene arbitraje claro entre los dos venues; doge no lo tiene.
	buySide := &stubVenue{name: "kraken", books: map[string]domain.OrderBook{
		"btc/usdt": {
			Asks: []domain.BookEntry{{Price: 100, Volume: 50}},
			Bids: []domain.BookEntry{{Price: 99, Volume: 50}},
		},
		"doge/usdt": {
			Asks: []domain.BookEntry{{Price: 0.10, Volume: 1e6}},
			Bids: []domain.BookEntry{{Price: 0.099, Volume: 1e6}},
		},
	}}
	sellSide := &stubVenue{name: "mexc", books: map[string]domain.OrderBook{
		"btc/usdt": {
			Asks: []domain.BookEntry{{Price: 111, Volume: 50}},
			Bids: []domain.BookEntry{{Price: 110, Volume: 50}},
		},
		"doge/usdt": {
			Asks: []domain.BookEntry{{Price: 0.101, Volume: 1e6}},
			Bids: []domain.BookEntry{{Price: 0.0995, Volume: 1e6}},
		},
	}}

	reg := market.NewRegistry(
		market.New(buySide, time.Second),
		market.New(sellSide, time.Second),
	)
	agg := arb.NewAggregator(reg, []string{"usdt"}, 4)
	matcher := arb.NewMatcher(agg, reg, arb.MatcherConfig{
		TargetNotional: 500,
		MinProfitRatio: 1.02,
		Depth:          100,
	})

	return New(Config{ScanInterval: time.Minute, Once: true}, coins, matcher, storage, notifier)
}

func TestScanner_CycleFindsAndPersistsDeals(t *testing.T) {
	coins := &memCoins{coins: []*domain.Coin{
		domain.NewCoin("btc"),
		domain.NewCoin("doge"),
		domain.NewCoin("ghost"), // en ningún venue: se ignora sin romper el ciclo
	}}
	storage := &captureStorage{}
	notifier := &captureNotifier{}

	s := newTestScanner(t, coins, storage, notifier)
	require.NoError(t, s.Run(context.Background()))

	// Solo btc da deal: 110/100 = 1.10 y hay profundidad de sobra.
	require.Len(t, notifier.deals, 1)
	deal := notifier.deals[0]
	assert.Equal(t, "btc", deal.Best.BestAsk.Coin.Name())
	assert.Equal(t, "kraken", deal.Best.BestAsk.Venue)
	assert.Equal(t, "mexc", deal.Best.BestBid.Venue)

	require.Len(t, storage.saved, 1)
	assert.Equal(t, deal.ID, storage.saved[0].ID)
	assert.Equal(t, 1, notifier.calls)
}

func TestScanner_RunOnceReturnsDeals(t *testing.T) {
	coins := &memCoins{coins: []*domain.Coin{domain.NewCoin("btc")}}

	s := newTestScanner(t, coins, &captureStorage{}, &captureNotifier{})
	deals, err := s.RunOnce(context.Background())

	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.InDelta(t, 1.10, deals[0].Ratio(), 0.001)
}

func TestScanner_NilStorage(t *testing.T) {
	coins := &memCoins{coins: []*domain.Coin{domain.NewCoin("btc")}}
	notifier := &captureNotifier{}

	s := newTestScanner(t, coins, nil, notifier)
	// Con storage nil el ciclo notifica igualmente sin explotar.
	require.NoError(t, s.Run(context.Background()))
	assert.Len(t, notifier.deals, 1)
}
