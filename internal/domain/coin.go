package domain

import "strings"

// Coin es la identidad canónica de una moneda más sus alias por venue.
// El nombre canónico es inmutable después de la creación; el mapa de alias
// solo añade o reemplaza entradas, nunca borra implícitamente.
type Coin struct {
	name    string
	address string            // contrato on-chain, opcional
	aliases map[string]string // venue → símbolo local (lower-case)
}

// NewCoin crea una moneda con el nombre canónico en lower-case.
func NewCoin(name string) *Coin {
	return &Coin{
		name:    strings.ToLower(strings.TrimSpace(name)),
		aliases: make(map[string]string),
	}
}

// Name devuelve el nombre canónico.
func (c *Coin) Name() string { return c.name }

// NameOn devuelve el nombre que usa el venue dado: el alias si existe,
// o el nombre canónico.
func (c *Coin) NameOn(venue string) string {
	if alias, ok := c.aliases[venue]; ok {
		return alias
	}
	return c.name
}

// UpperOn es NameOn en mayúsculas, el formato que esperan la mayoría de
// las APIs de exchanges.
func (c *Coin) UpperOn(venue string) string {
	return strings.ToUpper(c.NameOn(venue))
}

// SetAlias registra el nombre alternativo de la moneda en un venue.
func (c *Coin) SetAlias(venue, alias string) {
	c.aliases[venue] = strings.ToLower(strings.TrimSpace(alias))
}

// Aliases devuelve una copia del mapa venue → alias.
func (c *Coin) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for venue, alias := range c.aliases {
		out[venue] = alias
	}
	return out
}

// Address devuelve el contrato on-chain, o "" si no está definido.
func (c *Coin) Address() string { return c.address }

// SetAddress registra el contrato on-chain de la moneda.
func (c *Coin) SetAddress(address string) {
	c.address = strings.TrimSpace(address)
}
