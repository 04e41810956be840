package ports

import (
	"context"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

// CoinRegistry es el directorio persistente de monedas. El core lo trata
// como read-mostly: el scanner solo lee, el CLI de gestión escribe.
type CoinRegistry interface {
	// GetByName busca una moneda por su nombre canónico.
	// Devuelve domain.ErrCoinNotFound si no existe.
	GetByName(ctx context.Context, name string) (*domain.Coin, error)

	// All devuelve todas las monedas registradas, en orden estable.
	All(ctx context.Context) ([]*domain.Coin, error)

	// Put inserta o actualiza una moneda con sus alias y su address.
	Put(ctx context.Context, coin *domain.Coin) error

	// Delete elimina la moneda y sus alias.
	Delete(ctx context.Context, name string) error
}
