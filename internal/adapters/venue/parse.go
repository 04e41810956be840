package venue

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/alejandrodnm/coinarb/internal/domain"
)

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// toEntries convierte niveles crudos [precio, volumen, ...] en BookEntries.
// Los exchanges mandan precio y volumen como strings o como números según
// les da; los campos extra (el timestamp de kraken) se ignoran. El orden
// del exchange se preserva tal cual: el contrato de ports.VenueAdapter
// exige que el adapter lo entregue ya ordenado.
func toEntries(levels [][]any) ([]domain.BookEntry, error) {
	entries := make([]domain.BookEntry, 0, len(levels))
	for _, level := range levels {
		if len(level) < 2 {
			return nil, fmt.Errorf("malformed level %v", level)
		}
		price, err := toFloat(level[0])
		if err != nil {
			return nil, fmt.Errorf("level price: %w", err)
		}
		volume, err := toFloat(level[1])
		if err != nil {
			return nil, fmt.Errorf("level volume: %w", err)
		}
		entries = append(entries, domain.BookEntry{Price: price, Volume: volume})
	}
	return entries, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseFloat(n, 64)
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("unexpected number type %T", v)
	}
}

// capDepth recorta el slice a depth niveles como mucho.
func capDepth(entries []domain.BookEntry, depth int) []domain.BookEntry {
	if depth > 0 && len(entries) > depth {
		return entries[:depth]
	}
	return entries
}
