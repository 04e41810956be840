package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

// DealStorage persiste las oportunidades confirmadas por el matcher.
type DealStorage interface {
	// SaveDeal guarda un deal confirmado.
	SaveDeal(ctx context.Context, deal domain.Deal) error

	// History devuelve los deals registrados en el rango de tiempo dado.
	History(ctx context.Context, from, to time.Time) ([]domain.Deal, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
