package domain

import "time"

// Deal es una oportunidad de arbitraje confirmada contra la profundidad
// real de los dos libros: comprar en Best.BestAsk.Venue y vender en
// Best.BestBid.Venue sigue siendo rentable al precio medio ponderado.
type Deal struct {
	ID   string
	Best BestPrice

	FilledVolume float64 // unidades compradas en el buy-side walk
	Cost         float64 // quote currency pagada por FilledVolume
	Proceeds     float64 // quote currency ingresada al vender

	BuyLink  string
	SellLink string
	FoundAt  time.Time
}

// Ratio devuelve Proceeds/Cost, la rentabilidad realizada con liquidez real.
func (d Deal) Ratio() float64 {
	if d.Cost <= 0 {
		return 0
	}
	return d.Proceeds / d.Cost
}

// ProfitPercent devuelve la ganancia realizada como porcentaje.
func (d Deal) ProfitPercent() float64 {
	return (d.Ratio() - 1) * 100
}
