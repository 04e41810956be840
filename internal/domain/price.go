package domain

// Quote es un lado (ask o bid) del mejor precio actual de un mercado,
// etiquetado con el venue y la quote currency de donde salió.
type Quote struct {
	Coin   *Coin
	Base   string // quote currency (p.ej. "usdt")
	Number float64
	Venue  string
}

// BestPrice es el par ask/bid ganador. No tienen por qué venir del mismo
// venue ni de la misma quote currency.
type BestPrice struct {
	BestAsk Quote
	BestBid Quote
}

// SpreadRatio devuelve bid/ask — la métrica barata de rentabilidad
// top-of-book. Devuelve 0 si el ask no es un precio válido.
func (bp BestPrice) SpreadRatio() float64 {
	if bp.BestAsk.Number <= 0 {
		return 0
	}
	return bp.BestBid.Number / bp.BestAsk.Number
}

// SpreadPercent devuelve el spread top-of-book como porcentaje.
func (bp BestPrice) SpreadPercent() float64 {
	return (bp.SpreadRatio() - 1) * 100
}
