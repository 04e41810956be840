package market

// cache.go — cache negativa diaria de un venue.
//
// El set de pares "known missing" solo vale para el día natural en curso:
// el primer acceso tras el rollover lo limpia. Check-and-reset atómico bajo
// el mismo mutex que las lecturas, para que un caller no vea un set viejo
// mientras otro acaba de limpiarlo.

import (
	"sync"
	"time"
)

type pairKey struct {
	coin string
	base string
}

type missingPairs struct {
	now func() time.Time

	mu    sync.Mutex
	pairs map[pairKey]struct{}
	day   time.Time // medianoche del día al que pertenece el set
}

func newMissingPairs(now func() time.Time) *missingPairs {
	return &missingPairs{
		now:   now,
		pairs: make(map[pairKey]struct{}),
	}
}

func (c *missingPairs) has(key pairKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolloverLocked()
	_, ok := c.pairs[key]
	return ok
}

func (c *missingPairs) add(key pairKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolloverLocked()
	c.pairs[key] = struct{}{}
}

func (c *missingPairs) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pairs = make(map[pairKey]struct{})
}

// rolloverLocked invalida el set si cambió el día. Requiere c.mu.
func (c *missingPairs) rolloverLocked() {
	today := midnight(c.now())
	if !today.Equal(c.day) {
		c.pairs = make(map[pairKey]struct{})
		c.day = today
	}
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
