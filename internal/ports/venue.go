package ports

import (
	"context"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

// VenueAdapter es la capability que implementa cada exchange: traduce la
// petición normalizada al formato de su API y parsea la respuesta. Una
// implementación por venue, cada una reemplazable de forma independiente;
// el core depende solo de esta interfaz, nunca de tipos concretos.
type VenueAdapter interface {
	// Name devuelve el nombre único del venue en lower-case.
	Name() string

	// SymbolFor construye el símbolo local del par coin/base en este venue,
	// resolviendo el alias de la moneda si lo tiene.
	SymbolFor(coin *domain.Coin, base string) string

	// FetchOrderBook devuelve el libro con hasta depth niveles por lado.
	// Contrato de orden: asks ascendentes, bids descendentes — la posición
	// 0 es el mejor precio. Falla con un error propio del adapter ante
	// cualquier problema (red, parseo, par desconocido).
	FetchOrderBook(ctx context.Context, coin *domain.Coin, base string, depth int) (domain.OrderBook, error)

	// TradeLink devuelve la URL del par en el venue. Solo informativo.
	TradeLink(coin *domain.Coin, base string) string
}
