package domain

// InfiniteAsk es el precio centinela para un libro sin asks: participa en
// las comparaciones sin poder ganar nunca a un precio real.
const InfiniteAsk = 999_999_999_999.99

// BookEntry es un nivel de precio del libro de órdenes (el "cup").
type BookEntry struct {
	Price  float64
	Volume float64
}

// OrderBook es el libro normalizado que devuelve cualquier adapter.
// Asks ordenados de menor a mayor precio, bids de mayor a menor: la
// posición 0 es siempre el mejor precio de su lado. El orden es
// responsabilidad del adapter — el core lo consume, no re-ordena.
type OrderBook struct {
	Asks []BookEntry
	Bids []BookEntry
}

// BestAsk devuelve el mejor precio de venta, o InfiniteAsk si no hay asks.
func (ob OrderBook) BestAsk() float64 {
	if len(ob.Asks) == 0 {
		return InfiniteAsk
	}
	return ob.Asks[0].Price
}

// BestBid devuelve el mejor precio de compra, o 0 si no hay bids.
func (ob OrderBook) BestBid() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Price
}

// FillBuy recorre los asks de mejor a peor acumulando compras hasta gastar
// maxNotional en quote currency. El último nivel se consume de forma
// fraccional si cubre lo que falta. Devuelve el volumen comprado y el
// coste realmente pagado (≤ maxNotional; menor si el libro se agota).
func FillBuy(asks []BookEntry, maxNotional float64) (volume, cost float64) {
	if maxNotional <= 0 {
		return 0, 0
	}
	remaining := maxNotional
	for _, level := range asks {
		if level.Price <= 0 {
			continue
		}
		levelCost := level.Price * level.Volume
		if levelCost < remaining {
			volume += level.Volume
			cost += levelCost
			remaining -= levelCost
			continue
		}
		volume += remaining / level.Price
		cost += remaining
		break
	}
	return volume, cost
}

// FillSell recorre los bids de mejor a peor vendiendo hasta maxVolume
// unidades de la moneda. Espejo de FillBuy, pero el consumo se lleva en
// unidades del asset, no en notional: asumimos que toda la cantidad
// comprada debe venderse. Devuelve lo ingresado y el volumen vendido
// (≤ maxVolume; menor si el libro se agota).
func FillSell(bids []BookEntry, maxVolume float64) (proceeds, sold float64) {
	if maxVolume <= 0 {
		return 0, 0
	}
	remaining := maxVolume
	for _, level := range bids {
		if level.Volume < remaining {
			proceeds += level.Price * level.Volume
			sold += level.Volume
			remaining -= level.Volume
			continue
		}
		proceeds += level.Price * remaining
		sold += remaining
		break
	}
	return proceeds, sold
}
