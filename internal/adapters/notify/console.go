package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier escribiendo en stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime los deals del ciclo en el modo configurado.
func (c *Console) Notify(_ context.Context, deals []domain.Deal) error {
	if len(deals) == 0 {
		fmt.Fprintf(c.out, "[%s] no deals found\n", time.Now().Format("15:04:05"))
		return nil
	}

	if c.table {
		c.printFull(deals)
	} else {
		c.printCompact(deals)
	}
	return nil
}

// printCompact imprime lo esencial en una línea por ciclo.
func (c *Console) printCompact(deals []domain.Deal) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d deal(s)", now, len(deals))

	shown := 0
	for _, deal := range deals {
		if shown >= 4 {
			break
		}
		fmt.Fprintf(&sb, " | %s %s@%.4f→%s@%.4f +%.2f%% vol %.4f",
			deal.Best.BestAsk.Coin.Name(),
			deal.Best.BestAsk.Venue, deal.Best.BestAsk.Number,
			deal.Best.BestBid.Venue, deal.Best.BestBid.Number,
			deal.ProfitPercent(), deal.FilledVolume)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla completa con links de trading.
func (c *Console) printFull(deals []domain.Deal) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] %d deal(s) found\n", now, len(deals))

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Coin", "Buy@", "Ask", "Sell@", "Bid", "Volume", "Cost", "Proceeds", "Profit")

	for i, deal := range deals {
		table.Append(
			fmt.Sprintf("%d", i+1),
			deal.Best.BestAsk.Coin.Name(),
			fmt.Sprintf("%s/%s", deal.Best.BestAsk.Venue, deal.Best.BestAsk.Base),
			fmt.Sprintf("%.6f", deal.Best.BestAsk.Number),
			fmt.Sprintf("%s/%s", deal.Best.BestBid.Venue, deal.Best.BestBid.Base),
			fmt.Sprintf("%.6f", deal.Best.BestBid.Number),
			fmt.Sprintf("%.4f", deal.FilledVolume),
			fmt.Sprintf("$%.2f", deal.Cost),
			fmt.Sprintf("$%.2f", deal.Proceeds),
			fmt.Sprintf("+%.2f%%", deal.ProfitPercent()),
		)
	}
	table.Render()

	for i, deal := range deals {
		if deal.BuyLink == "" && deal.SellLink == "" {
			continue
		}
		fmt.Fprintf(c.out, "  #%d buy:  %s\n", i+1, deal.BuyLink)
		fmt.Fprintf(c.out, "  #%d sell: %s\n", i+1, deal.SellLink)
	}
	fmt.Fprintln(c.out)
}

// PriceRow es una fila del listado por venue de PrintPrices.
type PriceRow struct {
	Venue string
	Base  string
	Ask   float64
	Bid   float64
	Err   error
}

// PrintPrices imprime el top-of-book de una moneda en cada venue,
// marcando timeouts y pares inexistentes.
func (c *Console) PrintPrices(coin string, rows []PriceRow) {
	fmt.Fprintf(c.out, "\n%s — top of book per venue\n", coin)

	table := tablewriter.NewWriter(c.out)
	table.Header("Venue", "Pair", "Ask", "Bid", "Spread")

	for _, row := range rows {
		pair := fmt.Sprintf("%s/%s", strings.ToUpper(coin), strings.ToUpper(row.Base))

		if row.Err != nil {
			table.Append(row.Venue, pair, errLabel(row.Err), errLabel(row.Err), "-")
			continue
		}

		ask := "-"
		if row.Ask < domain.InfiniteAsk {
			ask = fmt.Sprintf("%.6f", row.Ask)
		}
		bid := "-"
		if row.Bid > 0 {
			bid = fmt.Sprintf("%.6f", row.Bid)
		}
		spread := "-"
		if row.Ask > 0 && row.Ask < domain.InfiniteAsk && row.Bid > 0 {
			spread = fmt.Sprintf("%.3f%%", (row.Ask-row.Bid)/row.Ask*100)
		}

		table.Append(row.Venue, pair, ask, bid, spread)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

// PrintHistory imprime los deals guardados en el rango pedido.
func (c *Console) PrintHistory(deals []domain.Deal) {
	if len(deals) == 0 {
		fmt.Fprintln(c.out, "\n  No deals in range.")
		return
	}

	fmt.Fprintf(c.out, "\n%d deal(s) in history\n", len(deals))

	table := tablewriter.NewWriter(c.out)
	table.Header("When", "Coin", "Route", "Volume", "Cost", "Proceeds", "Profit")

	for _, deal := range deals {
		table.Append(
			deal.FoundAt.Format("01-02 15:04"),
			deal.Best.BestAsk.Coin.Name(),
			fmt.Sprintf("%s→%s", deal.Best.BestAsk.Venue, deal.Best.BestBid.Venue),
			fmt.Sprintf("%.4f", deal.FilledVolume),
			fmt.Sprintf("$%.2f", deal.Cost),
			fmt.Sprintf("$%.2f", deal.Proceeds),
			fmt.Sprintf("+%.2f%%", deal.ProfitPercent()),
		)
	}
	table.Render()
	fmt.Fprintln(c.out)
}

func errLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrVenueTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrCoinNotFound):
		return "not listed"
	default:
		return "error"
	}
}
