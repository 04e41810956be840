package venue

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

const defaultKrakenBase = "https://api.kraken.com"

// Kraken implementa ports.VenueAdapter sobre el endpoint público de depth.
type Kraken struct {
	base string
	c    *client
}

// NewKraken crea el adapter. Si baseURL está vacío usa producción.
func NewKraken(baseURL string) *Kraken {
	if baseURL == "" {
		baseURL = defaultKrakenBase
	}
	// Límite público de kraken: ~1 req/s sostenido por IP.
	return &Kraken{base: baseURL, c: newClient(1, 3)}
}

func (k *Kraken) Name() string { return "kraken" }

// SymbolFor concatena moneda y base en mayúsculas (BTCUSDT). Las monedas
// con nombre propio de kraken (XBT) se resuelven vía alias.
func (k *Kraken) SymbolFor(coin *domain.Coin, base string) string {
	return coin.UpperOn(k.Name()) + strings.ToUpper(base)
}

type krakenDepthResponse struct {
	Error  []string `json:"error"`
	Result map[string]struct {
		Asks [][]any `json:"asks"`
		Bids [][]any `json:"bids"`
	} `json:"result"`
}

// FetchOrderBook pide /0/public/Depth. Kraken devuelve los errores dentro
// del body con HTTP 200, así que se comprueba el campo error siempre.
func (k *Kraken) FetchOrderBook(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error) {
	pair := k.SymbolFor(coin, base)
	u := fmt.Sprintf("%s/0/public/Depth?pair=%s&count=%d", k.base, url.QueryEscape(pair), depth)

	var resp krakenDepthResponse
	if err := k.c.getJSON(ctx, u, &resp); err != nil {
		return domain.OrderBook{}, fmt.Errorf("kraken: depth %s: %w", pair, err)
	}
	if len(resp.Error) > 0 {
		return domain.OrderBook{}, fmt.Errorf("kraken: depth %s: %s", pair, strings.Join(resp.Error, "; "))
	}

	// El result viene indexado por el nombre que kraken decida darle al
	// par (no siempre el pedido); con un solo par basta el primer valor.
	for _, book := range resp.Result {
		asks, err := toEntries(book.Asks)
		if err != nil {
			return domain.OrderBook{}, fmt.Errorf("kraken: asks %s: %w", pair, err)
		}
		bids, err := toEntries(book.Bids)
		if err != nil {
			return domain.OrderBook{}, fmt.Errorf("kraken: bids %s: %w", pair, err)
		}
		return domain.OrderBook{Asks: capDepth(asks, depth), Bids: capDepth(bids, depth)}, nil
	}
	return domain.OrderBook{}, fmt.Errorf("kraken: depth %s: empty result", pair)
}

// TradeLink apunta al formulario de orden nueva con el par precargado.
func (k *Kraken) TradeLink(coin *domain.Coin, base string) string {
	return fmt.Sprintf("https://www.kraken.com/u/trade/new-order?receive=%s&spend=%s",
		coin.UpperOn(k.Name()), strings.ToUpper(base))
}
