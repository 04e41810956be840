package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/coinarb/internal/adapters/notify"
	"github.com/alejandrodnm/coinarb/internal/adapters/storage"
	"github.com/alejandrodnm/coinarb/internal/application/market"
	"github.com/alejandrodnm/coinarb/internal/domain"
)

// runPrices imprime el top-of-book de una moneda en cada venue y sale.
// La moneda no necesita estar registrada: si no está, se consulta con el
// nombre tal cual (sin alias).
func runPrices(ctx context.Context, store *storage.SQLiteStorage, venues *market.Registry, bases []string, notifier *notify.Console, name string) {
	coin, err := store.GetByName(ctx, name)
	if errors.Is(err, domain.ErrCoinNotFound) {
		coin = domain.NewCoin(name)
	} else if err != nil {
		slog.Error("failed to load coin", "coin", name, "err", err)
		os.Exit(1)
	}

	var rows []notify.PriceRow
	for _, m := range venues.All() {
		for _, base := range bases {
			row := notify.PriceRow{Venue: m.Name(), Base: base}
			best, err := m.GetPrice(ctx, coin, base)
			if err != nil {
				row.Err = err
			} else {
				row.Ask = best.BestAsk.Number
				row.Bid = best.BestBid.Number
			}
			rows = append(rows, row)
		}
	}

	notifier.PrintPrices(coin.Name(), rows)
}

// runHistory imprime los deals guardados en la ventana pedida y sale.
func runHistory(ctx context.Context, store *storage.SQLiteStorage, notifier *notify.Console, window time.Duration) {
	now := time.Now().UTC()
	deals, err := store.History(ctx, now.Add(-window), now)
	if err != nil {
		slog.Error("failed to load history", "err", err)
		os.Exit(1)
	}
	notifier.PrintHistory(deals)
}
