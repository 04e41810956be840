package market

// Registry es la lista explícita y ordenada de venues registrados.
// Sustituye al registro global implícito: se construye una vez en cmd/ y
// se pasa por referencia al aggregator y al matcher, lo que permite tests
// aislados con venues falsos. El orden de registro fija el orden de scan
// (y con él los desempates deterministas del aggregator).
type Registry struct {
	markets []*Market
	byName  map[string]*Market
}

// NewRegistry crea un Registry con los markets dados, en ese orden.
func NewRegistry(markets ...*Market) *Registry {
	r := &Registry{
		markets: markets,
		byName:  make(map[string]*Market, len(markets)),
	}
	for _, m := range markets {
		r.byName[m.Name()] = m
	}
	return r
}

// All devuelve los markets en orden de registro.
func (r *Registry) All() []*Market { return r.markets }

// Get busca un market por nombre de venue.
func (r *Registry) Get(name string) (*Market, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Names devuelve los nombres de los venues en orden de registro.
func (r *Registry) Names() []string {
	names := make([]string, len(r.markets))
	for i, m := range r.markets {
		names[i] = m.Name()
	}
	return names
}

// ClearCaches vacía la cache negativa de todos los venues.
func (r *Registry) ClearCaches() {
	for _, m := range r.markets {
		m.ClearCache()
	}
}
