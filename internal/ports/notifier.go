package ports

import (
	"context"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

// Notifier presenta al usuario los deals encontrados en un ciclo.
type Notifier interface {
	// Notify muestra los deals del ciclo. En la implementación de consola,
	// imprime una línea compacta o una tabla formateada.
	Notify(ctx context.Context, deals []domain.Deal) error
}
