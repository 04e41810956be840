package venue

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

const defaultMexcBase = "https://api.mexc.com"

// Mexc implementa ports.VenueAdapter sobre el depth estilo binance de MEXC.
type Mexc struct {
	base string
	c    *client
}

// NewMexc crea el adapter. Si baseURL está vacío usa producción.
func NewMexc(baseURL string) *Mexc {
	if baseURL == "" {
		baseURL = defaultMexcBase
	}
	return &Mexc{base: baseURL, c: newClient(5, 5)}
}

func (m *Mexc) Name() string { return "mexc" }

// SymbolFor concatena moneda y base en mayúsculas (BTCUSDT).
func (m *Mexc) SymbolFor(coin *domain.Coin, base string) string {
	return coin.UpperOn(m.Name()) + strings.ToUpper(base)
}

type mexcDepthResponse struct {
	Asks [][]any `json:"asks"`
	Bids [][]any `json:"bids"`
}

// FetchOrderBook pide /api/v3/depth. Un símbolo desconocido devuelve 400,
// que getJSON convierte en error sin retries.
func (m *Mexc) FetchOrderBook(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error) {
	symbol := m.SymbolFor(coin, base)
	u := fmt.Sprintf("%s/api/v3/depth?symbol=%s&limit=%d", m.base, url.QueryEscape(symbol), depth)

	var resp mexcDepthResponse
	if err := m.c.getJSON(ctx, u, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("mexc: depth %s: %w", symbol, err)
	}

	asks, err := toEntries(resp.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("mexc: asks %s: %w", symbol, err)
	}
	bids, err := toEntries(resp.Bids)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("mexc: bids %s: %w", symbol, err)
	}
	return domain.OrderBook{Asks: capDepth(asks, depth), Bids: capDepth(bids, depth)}, nil
}

// TradeLink apunta a la página spot del par (BTC_USDT).
func (m *Mexc) TradeLink(coin *domain.Coin, base string) string {
	return fmt.Sprintf("https://www.mexc.com/exchange/%s_%s",
		coin.UpperOn(m.Name()), strings.ToUpper(base))
}
