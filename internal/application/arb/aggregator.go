package arb

// aggregator.go — búsqueda del mejor precio cross-venue.
//
// El fan-out sobre las combinaciones (venue × quote currency) no tiene
// dependencias entre iteraciones: un worker pool acotado las consulta en
// paralelo sin saturar los rate limits de ningún venue. La reducción se
// hace después de que todos los workers terminen, recorriendo los
// resultados en orden de scan (venue-major, currency-minor): así los
// empates los gana siempre la primera combinación vista y el resultado es
// determinista con un orden de registro fijo.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/coinarb/internal/application/market"
	"github.com/alejandrodnm/coinarb/internal/domain"
)

const defaultWorkers = 4

// Aggregator escanea todos los venues registrados y todas las quote
// currencies aceptadas buscando el ask más barato y el bid más alto.
type Aggregator struct {
	venues  *market.Registry
	bases   []string
	workers int
}

// NewAggregator crea un Aggregator. bases es el set fijo de quote
// currencies aceptadas (p.ej. usd, usdt); un venue no tiene por qué
// soportarlas todas. Si workers <= 0 usa defaultWorkers.
func NewAggregator(venues *market.Registry, bases []string, workers int) *Aggregator {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Aggregator{venues: venues, bases: bases, workers: workers}
}

// BestPrice devuelve el mejor ask y el mejor bid de la moneda entre todos
// los venues. Los ganadores de cada lado son independientes: pueden venir
// de venues y de quote currencies distintas. Si ninguna combinación produjo
// un precio, la moneda no existe para el sistema: domain.ErrCoinNotFound.
func (a *Aggregator) BestPrice(ctx context.Context, coin *domain.Coin) (domain.BestPrice, error) {
	type combo struct {
		m    *market.Market
		base string
	}

	var combos []combo
	for _, m := range a.venues.All() {
		for _, base := range a.bases {
			combos = append(combos, combo{m: m, base: base})
		}
	}

	// Indexado por posición de scan: el slice preserva el orden aunque los
	// workers terminen en cualquier orden, y la reducción queda fuera de la
	// zona concurrente — sin acumulador compartido que sincronizar.
	results := make([]*domain.BestPrice, len(combos))

	workCh := make(chan int, len(combos))
	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				c := combos[i]
				bp, err := c.m.GetPrice(ctx, coin, c.base)
				if err != nil {
					// CoinNotFound y VenueTimeout por combinación no
					// abortan el scan: esa combinación no aporta nada.
					slog.Debug("combo skipped",
						"venue", c.m.Name(),
						"coin", coin.Name(),
						"base", c.base,
						"err", err,
					)
					continue
				}
				results[i] = &bp
			}
		}()
	}

	for i := range combos {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	var best domain.BestPrice
	found := false
	for _, r := range results {
		if r == nil {
			continue
		}
		if !found {
			best = *r
			found = true
			continue
		}
		// Estrictamente menor/mayor: en empate gana el primero visto.
		if r.BestAsk.Number < best.BestAsk.Number {
			best.BestAsk = r.BestAsk
		}
		if r.BestBid.Number > best.BestBid.Number {
			best.BestBid = r.BestBid
		}
	}

	if !found {
		return domain.BestPrice{}, fmt.Errorf("aggregator: %s unknown on every venue: %w",
			coin.Name(), domain.ErrCoinNotFound)
	}
	return best, nil
}
