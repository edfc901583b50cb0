package caso

// Prioridad is the urgency of a case.
type Prioridad string

// Allowed priorities.
const (
	PrioridadBaja  Prioridad = "baja"
	PrioridadMedia Prioridad = "media"
	PrioridadAlta  Prioridad = "alta"
)

// Prioridades lists the allowed priorities in display order.
var Prioridades = []Prioridad{PrioridadBaja, PrioridadMedia, PrioridadAlta}

// Valid reports whether p is one of the allowed priorities.
func (p Prioridad) Valid() bool {
	switch p {
	case PrioridadBaja, PrioridadMedia, PrioridadAlta:
		return true
	}
	return false
}

// DefaultEstado is assigned on create when no state is given.
const DefaultEstado = "nuevo"

// Caso is a single case record.
type Caso struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	Estado      string    `json:"estado"`
	Prioridad   Prioridad `json:"prioridad"`
	Responsable *string   `json:"responsable,omitempty"`
}

// Clone returns a copy that shares no memory with c.
func (c *Caso) Clone() *Caso {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Responsable != nil {
		r := *c.Responsable
		cp.Responsable = &r
	}
	return &cp
}
