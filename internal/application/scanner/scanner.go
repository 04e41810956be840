package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/coinarb/internal/application/arb"
	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/alejandrodnm/coinarb/internal/ports"
)

// Config contiene la configuración del scanner.
type Config struct {
	ScanInterval time.Duration
	Once         bool // un solo ciclo y salir
}

// Scanner es el loop principal: cada ciclo recorre todas las monedas del
// registry, pasa cada una por el matcher y notifica/persiste los deals.
// El matcher ya hace su propio fan-out concurrente por venue, así que las
// monedas se recorren en secuencia para no apilar presión sobre los rate
// limits de los venues.
type Scanner struct {
	cfg      Config
	coins    ports.CoinRegistry
	matcher  *arb.Matcher
	storage  ports.DealStorage // puede ser nil (modo efímero)
	notifier ports.Notifier
}

// New crea un Scanner con todas las dependencias inyectadas.
func New(cfg Config, coins ports.CoinRegistry, matcher *arb.Matcher, storage ports.DealStorage, notifier ports.Notifier) *Scanner {
	return &Scanner{
		cfg:      cfg,
		coins:    coins,
		matcher:  matcher,
		storage:  storage,
		notifier: notifier,
	}
}

// Run ejecuta el loop de escaneo hasta que el contexto se cancele.
// Con cfg.Once solo ejecuta un ciclo.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"interval", s.cfg.ScanInterval,
		"once", s.cfg.Once,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("scan cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}

	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("scan cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un ciclo y devuelve los deals encontrados.
func (s *Scanner) RunOnce(ctx context.Context) ([]domain.Deal, error) {
	return s.cycle(ctx)
}

// runCycle ejecuta un ciclo completo y notifica/persiste los resultados.
func (s *Scanner) runCycle(ctx context.Context) error {
	start := time.Now()

	deals, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	if err := s.notifier.Notify(ctx, deals); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if s.storage != nil {
		for _, deal := range deals {
			if err := s.storage.SaveDeal(ctx, deal); err != nil {
				slog.Warn("storage error", "deal", deal.ID, "err", err)
			}
		}
	}

	slog.Info("scan cycle complete",
		"deals", len(deals),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle recorre todas las monedas registradas y junta los deals confirmados.
func (s *Scanner) cycle(ctx context.Context) ([]domain.Deal, error) {
	coins, err := s.coins.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanner.cycle: load coins: %w", err)
	}

	var deals []domain.Deal
	for _, coin := range coins {
		if ctx.Err() != nil {
			return deals, ctx.Err()
		}

		deal, err := s.matcher.FindDeal(ctx, coin)
		if err != nil {
			if errors.Is(err, domain.ErrCoinNotFound) {
				// Moneda desconocida en todos los venues: ruido esperado,
				// no un fallo del ciclo.
				slog.Debug("coin unknown everywhere", "coin", coin.Name())
				continue
			}
			slog.Warn("match failed", "coin", coin.Name(), "err", err)
			continue
		}
		if deal == nil {
			slog.Debug("no deal", "coin", coin.Name())
			continue
		}
		deals = append(deals, *deal)
	}

	return deals, nil
}
