package domain

import "errors"

var (
	// ErrCoinNotFound indica que el par coin/base no está soportado por un
	// venue — o por ninguno, cuando lo devuelve el aggregator. Recuperable:
	// el caller puede probar otra moneda u otra quote currency.
	ErrCoinNotFound = errors.New("coin not found")

	// ErrVenueTimeout indica que un venue no respondió dentro de su deadline.
	// Transitorio: nunca debe poblar la cache negativa — un venue lento y un
	// par inexistente son modos de fallo distintos.
	ErrVenueTimeout = errors.New("venue timeout")
)
