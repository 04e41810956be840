package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alejandrodnm/coinarb/internal/adapters/storage"
	"github.com/alejandrodnm/coinarb/internal/domain"
)

// coinCmd agrupa los flags de gestión de monedas.
type coinCmd struct {
	add     string
	del     string
	alias   string
	address string
	list    bool
}

// runCoins ejecuta el subcomando de gestión del registro de monedas.
func runCoins(ctx context.Context, store *storage.SQLiteStorage, cmd coinCmd) {
	switch {
	case cmd.add != "":
		coin, err := store.GetByName(ctx, cmd.add)
		if errors.Is(err, domain.ErrCoinNotFound) {
			coin = domain.NewCoin(cmd.add)
		} else if err != nil {
			slog.Error("failed to load coin", "coin", cmd.add, "err", err)
			os.Exit(1)
		}

		if cmd.address != "" {
			coin.SetAddress(cmd.address)
		}
		if cmd.alias != "" {
			venueName, alias, ok := strings.Cut(cmd.alias, "=")
			if !ok {
				slog.Error("invalid -alias, expected venue=alias", "got", cmd.alias)
				os.Exit(1)
			}
			coin.SetAlias(venueName, alias)
		}

		if err := store.Put(ctx, coin); err != nil {
			slog.Error("failed to save coin", "coin", coin.Name(), "err", err)
			os.Exit(1)
		}
		fmt.Printf("saved %s\n", coin.Name())

	case cmd.del != "":
		if err := store.Delete(ctx, cmd.del); err != nil {
			slog.Error("failed to delete coin", "coin", cmd.del, "err", err)
			os.Exit(1)
		}
		fmt.Printf("deleted %s\n", strings.ToLower(cmd.del))

	case cmd.list:
		coins, err := store.All(ctx)
		if err != nil {
			slog.Error("failed to list coins", "err", err)
			os.Exit(1)
		}
		if len(coins) == 0 {
			fmt.Println("no coins registered — use -add <name>")
			return
		}
		for _, coin := range coins {
			line := coin.Name()
			if coin.Address() != "" {
				line += "  addr:" + coin.Address()
			}
			for venueName, alias := range coin.Aliases() {
				line += fmt.Sprintf("  %s=%s", venueName, alias)
			}
			fmt.Println(line)
		}
	}
}
