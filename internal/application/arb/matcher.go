package arb

// matcher.go — confirmación de arbitraje contra profundidad real.
//
// El precio top-of-book es mal indicador del beneficio ejecutable en libros
// finos. Dos pasadas: un pre-filtro barato sobre el spread (sin tocar la
// profundidad) y, solo si pasa, la confirmación cara con el walk ponderado
// por volumen sobre los dos libros ganadores. Un spread que parecía
// rentable puede morir aquí si la liquidez real no cubre el tamaño.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/coinarb/internal/application/market"
	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/google/uuid"
)

// Valores de política por defecto.
const (
	DefaultTargetNotional = 500.0 // quote currency a gastar en el buy walk
	DefaultMinProfitRatio = 1.02  // ≥2% para considerar el deal
	DefaultDepth          = 100   // niveles a pedir en cada libro
)

// MatcherConfig son las constantes de política del matcher.
type MatcherConfig struct {
	TargetNotional float64
	MinProfitRatio float64
	Depth          int
}

// DefaultMatcherConfig devuelve la política por defecto.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		TargetNotional: DefaultTargetNotional,
		MinProfitRatio: DefaultMinProfitRatio,
		Depth:          DefaultDepth,
	}
}

// Matcher verifica que el par best ask / best bid aguanta un tamaño
// objetivo con beneficio tras recorrer la profundidad de ambos libros.
type Matcher struct {
	agg    *Aggregator
	venues *market.Registry
	cfg    MatcherConfig
}

// NewMatcher crea un Matcher sobre el aggregator y el registry dados.
func NewMatcher(agg *Aggregator, venues *market.Registry, cfg MatcherConfig) *Matcher {
	if cfg.TargetNotional <= 0 {
		cfg.TargetNotional = DefaultTargetNotional
	}
	if cfg.MinProfitRatio <= 0 {
		cfg.MinProfitRatio = DefaultMinProfitRatio
	}
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	return &Matcher{agg: agg, venues: venues, cfg: cfg}
}

// FindDeal busca una oportunidad de arbitraje a dos bandas para la moneda.
// Devuelve (nil, nil) cuando no hay oportunidad — la ausencia de arbitraje
// es un resultado normal, no un fallo. ErrCoinNotFound del aggregator se
// propaga sin cambios.
func (mt *Matcher) FindDeal(ctx context.Context, coin *domain.Coin) (*domain.Deal, error) {
	best, err := mt.agg.BestPrice(ctx, coin)
	if err != nil {
		return nil, err
	}

	// Pre-filtro barato: si el spread top-of-book ya no da el ratio mínimo,
	// no hace falta gastar fetches de profundidad.
	if best.SpreadRatio() < mt.cfg.MinProfitRatio {
		return nil, nil
	}

	askMarket, ok := mt.venues.Get(best.BestAsk.Venue)
	if !ok {
		return nil, fmt.Errorf("matcher: unknown ask venue %q", best.BestAsk.Venue)
	}
	bidMarket, ok := mt.venues.Get(best.BestBid.Venue)
	if !ok {
		return nil, fmt.Errorf("matcher: unknown bid venue %q", best.BestBid.Venue)
	}

	// Los dos fetches de profundidad van contra venues distintos y no
	// dependen entre sí: en paralelo.
	var (
		wg     sync.WaitGroup
		asks   []domain.BookEntry
		bids   []domain.BookEntry
		askErr error
		bidErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		asks, askErr = askMarket.GetAsks(ctx, coin, best.BestAsk.Base, mt.cfg.Depth)
	}()
	go func() {
		defer wg.Done()
		bids, bidErr = bidMarket.GetBids(ctx, coin, best.BestBid.Base, mt.cfg.Depth)
	}()
	wg.Wait()

	if askErr != nil || bidErr != nil {
		// El libro estaba ahí hace un momento; si ahora no responde, este
		// ciclo no confirma nada. No es un error del matcher.
		slog.Warn("depth fetch failed, discarding candidate",
			"coin", coin.Name(),
			"ask_venue", best.BestAsk.Venue,
			"bid_venue", best.BestBid.Venue,
			"ask_err", askErr,
			"bid_err", bidErr,
		)
		return nil, nil
	}

	// Buy walk: cuánta moneda compra el notional objetivo y a qué coste.
	volume, cost := domain.FillBuy(asks, mt.cfg.TargetNotional)
	if volume <= 0 || cost <= 0 {
		return nil, nil
	}

	// Sell walk: vender todo lo comprado contra los bids del otro venue.
	// El consumo va en unidades del asset — ver domain.FillSell.
	proceeds, _ := domain.FillSell(bids, volume)

	if proceeds/cost < mt.cfg.MinProfitRatio {
		// El spread naive prometía pero la liquidez real es demasiado fina.
		slog.Debug("candidate rejected by depth walk",
			"coin", coin.Name(),
			"naive_ratio", fmt.Sprintf("%.4f", best.SpreadRatio()),
			"real_ratio", fmt.Sprintf("%.4f", proceeds/cost),
		)
		return nil, nil
	}

	return &domain.Deal{
		ID:           uuid.New().String(),
		Best:         best,
		FilledVolume: volume,
		Cost:         cost,
		Proceeds:     proceeds,
		BuyLink:      askMarket.TradeLink(coin, best.BestAsk.Base),
		SellLink:     bidMarket.TradeLink(coin, best.BestBid.Base),
		FoundAt:      time.Now().UTC(),
	}, nil
}
