package venue

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

const defaultKucoinBase = "https://api.kucoin.com"

// Kucoin implementa ports.VenueAdapter sobre los endpoints part-orderbook.
type Kucoin struct {
	base string
	c    *client
}

// NewKucoin crea el adapter. Si baseURL está vacío usa producción.
func NewKucoin(baseURL string) *Kucoin {
	if baseURL == "" {
		baseURL = defaultKucoinBase
	}
	return &Kucoin{base: baseURL, c: newClient(5, 5)}
}

func (k *Kucoin) Name() string { return "kucoin" }

// SymbolFor une moneda y base con guion (BTC-USDT).
func (k *Kucoin) SymbolFor(coin *domain.Coin, base string) string {
	return coin.UpperOn(k.Name()) + "-" + strings.ToUpper(base)
}

type kucoinDepthResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Asks [][]any `json:"asks"`
		Bids [][]any `json:"bids"`
	} `json:"data"`
}

// FetchOrderBook pide el part-orderbook público. Kucoin solo sirve 20 o
// 100 niveles: se elige el endpoint según depth y se recorta a la salida.
func (k *Kucoin) FetchOrderBook(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error) {
	symbol := k.SymbolFor(coin, base)

	levels := 20
	if depth > 20 {
		levels = 100
	}
	u := fmt.Sprintf("%s/api/v1/market/orderbook/level2_%d?symbol=%s",
		k.base, levels, url.QueryEscape(symbol))

	var resp kucoinDepthResponse
	if err := k.c.getJSON(ctx, u, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("kucoin: depth %s: %w", symbol, err)
	}
	// "200000" es el OK de kucoin; todo lo demás viene con msg en el body.
	if resp.Code != "200000" {
		return domain.OrderBook{}, fmt.Errorf("kucoin: depth %s: code %s %s", symbol, resp.Code, resp.Msg)
	}

	asks, err := toEntries(resp.Data.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("kucoin: asks %s: %w", symbol, err)
	}
	bids, err := toEntries(resp.Data.Bids)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("kucoin: bids %s: %w", symbol, err)
	}
	return domain.OrderBook{Asks: capDepth(asks, depth), Bids: capDepth(bids, depth)}, nil
}

// TradeLink apunta a la página de trading del par (BTC-USDT).
func (k *Kucoin) TradeLink(coin *domain.Coin, base string) string {
	return "https://www.kucoin.com/trade/" + k.SymbolFor(coin, base)
}
