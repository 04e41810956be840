package market

// market.go — Quote Service: envuelve un VenueAdapter con el deadline por
// llamada y la cache negativa diaria del venue.
//
// Reglas de traducción de errores (el adapter nunca se filtra crudo):
//   - deadline superado → domain.ErrVenueTimeout, sin tocar la cache
//   - cualquier otro error del adapter → se apunta el par en la cache
//     negativa de hoy y se devuelve domain.ErrCoinNotFound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/alejandrodnm/coinarb/internal/ports"
)

// DefaultTimeout es el deadline wall-clock por llamada al venue.
const DefaultTimeout = 3 * time.Second

// Market es un venue envuelto con su bookkeeping de fiabilidad local.
// Solo las llamadas de este Market leen/escriben su cache negativa.
type Market struct {
	adapter ports.VenueAdapter
	timeout time.Duration
	now     func() time.Time // inyectable en tests para simular el rollover

	cache *missingPairs
}

// New crea un Market sobre el adapter dado. Si timeout <= 0 usa DefaultTimeout.
func New(adapter ports.VenueAdapter, timeout time.Duration) *Market {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Market{
		adapter: adapter,
		timeout: timeout,
		now:     time.Now,
	}
	m.cache = newMissingPairs(func() time.Time { return m.now() })
	return m
}

// Name devuelve el nombre del venue subyacente.
func (m *Market) Name() string { return m.adapter.Name() }

// TradeLink expone el link informativo del adapter.
func (m *Market) TradeLink(coin *domain.Coin, base string) string {
	return m.adapter.TradeLink(coin, base)
}

// GetPrice devuelve el mejor ask y bid del par coin/base en este venue.
// Un libro sin asks devuelve el ask centinela domain.InfiniteAsk; sin bids,
// bid 0 — así una moneda con libro a un solo lado sigue participando en las
// comparaciones sin ganar de forma espuria.
func (m *Market) GetPrice(ctx context.Context, coin *domain.Coin, base string) (domain.BestPrice, error) {
	cup, err := m.fetchCup(ctx, coin, base, 1)
	if err != nil {
		return domain.BestPrice{}, err
	}

	return domain.BestPrice{
		BestAsk: domain.Quote{Coin: coin, Base: base, Number: cup.BestAsk(), Venue: m.Name()},
		BestBid: domain.Quote{Coin: coin, Base: base, Number: cup.BestBid(), Venue: m.Name()},
	}, nil
}

// GetAsks devuelve hasta depth niveles del lado ask, mejor precio primero.
func (m *Market) GetAsks(ctx context.Context, coin *domain.Coin, base string, depth int) ([]domain.BookEntry, error) {
	cup, err := m.fetchCup(ctx, coin, base, depth)
	if err != nil {
		return nil, err
	}
	return cup.Asks, nil
}

// GetBids devuelve hasta depth niveles del lado bid, mejor precio primero.
func (m *Market) GetBids(ctx context.Context, coin *domain.Coin, base string, depth int) ([]domain.BookEntry, error) {
	cup, err := m.fetchCup(ctx, coin, base, depth)
	if err != nil {
		return nil, err
	}
	return cup.Bids, nil
}

// ClearCache vacía la cache negativa del venue (comando /restart del bot).
func (m *Market) ClearCache() {
	m.cache.clear()
}

// fetchCup aplica la cache negativa, el deadline y la traducción de errores.
func (m *Market) fetchCup(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error) {
	key := pairKey{coin: coin.Name(), base: base}
	if m.cache.has(key) {
		return domain.OrderBook{}, fmt.Errorf("market %s: %s/%s known missing today: %w",
			m.Name(), coin.Name(), base, domain.ErrCoinNotFound)
	}

	cup, err := m.boundedFetch(ctx, coin, base, depth)
	if err == nil {
		return cup, nil
	}

	if errors.Is(err, domain.ErrVenueTimeout) {
		// Transitorio: el mismo par se reintenta en el siguiente scan sin
		// penalización.
		return domain.OrderBook{}, err
	}

	// Par ausente, payload malformado o fallo de red: hoy tratamos a los
	// tres igual para no martillear un venue que falla de forma consistente.
	m.cache.add(key)
	slog.Debug("pair marked missing",
		"venue", m.Name(),
		"coin", coin.Name(),
		"base", base,
		"cause", err,
	)
	return domain.OrderBook{}, fmt.Errorf("market %s: %s/%s: %w",
		m.Name(), coin.Name(), base, domain.ErrCoinNotFound)
}

// boundedFetch invoca al adapter bajo un deadline duro. La goroutine con el
// select garantiza que el caller recupera el control al vencer el deadline
// aunque el adapter ignore la cancelación del contexto.
func (m *Market) boundedFetch(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	type result struct {
		cup domain.OrderBook
		err error
	}
	resCh := make(chan result, 1)

	go func() {
		cup, err := m.adapter.FetchOrderBook(ctx, coin, base, depth)
		resCh <- result{cup: cup, err: err}
	}()

	select {
	case <-ctx.Done():
		return domain.OrderBook{}, fmt.Errorf("market %s: %s/%s after %s: %w",
			m.Name(), coin.Name(), base, m.timeout, domain.ErrVenueTimeout)
	case res := <-resCh:
		// Un adapter cooperativo puede devolver el error de contexto antes
		// de que el select vea ctx.Done(); ninguna de las dos causas es culpa
		// del venue, así que ninguna debe acabar en la cache negativa.
		if res.err != nil && (errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled)) {
			return domain.OrderBook{}, fmt.Errorf("market %s: %s/%s after %s: %w",
				m.Name(), coin.Name(), base, m.timeout, domain.ErrVenueTimeout)
		}
		return res.cup, res.err
	}
}
