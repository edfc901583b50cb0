package caso

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// Store is the in-memory case collection.
//
// Records are kept in a map for lookups plus an id slice that preserves
// insertion order for List. Every method takes the lock once, so each
// operation is observed as a whole by concurrent requests. Failed
// operations never modify the collection.
//
// All public methods are thread-safe.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*Caso
	order  []string
	newID  func() string
	logger Logger
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*Caso),
		newID:  uuid.NewString,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// List returns every record in insertion order. The result is never nil.
func (s *Store) List(_ context.Context) []Caso {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Caso, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.byID[id].Clone())
	}
	return out
}

// Get returns the record with the given id or ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (*Caso, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return c.Clone(), nil
}

// Create validates in, applies defaults and appends a new record with a
// fresh id. Validation failures are returned as Violations.
func (s *Store) Create(_ context.Context, in CreateInput) (*Caso, error) {
	if v := ValidateCreate(in); len(v) > 0 {
		return nil, v
	}

	nombre, _ := in.Nombre.Str()
	prioridad, _ := in.Prioridad.Str()
	descripcion, _ := in.Descripcion.Str()

	estado, _ := in.Estado.Str()
	if estado == "" {
		estado = DefaultEstado
	}

	c := &Caso{
		Nombre:      nombre,
		Descripcion: descripcion,
		Estado:      estado,
		Prioridad:   Prioridad(prioridad),
	}
	if r, ok := in.Responsable.Str(); ok && r != "" {
		c.Responsable = &r
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.uniqueIDLocked()
	s.byID[c.ID] = c
	s.order = append(s.order, c.ID)

	s.logger.Debug("caso created", "id", c.ID, "prioridad", c.Prioridad)
	return c.Clone(), nil
}

// Update merges the present fields of in into the record with the given id.
//
// For nombre, descripcion, estado and prioridad a null keeps the current
// value. For responsable a null clears the assignee and only an absent key
// keeps it. The id never changes.
func (s *Store) Update(_ context.Context, id string, in UpdateInput) (*Caso, error) {
	if v := ValidateUpdate(in); len(v) > 0 {
		return nil, v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	next := current.Clone()
	if v, ok := in.Nombre.Str(); ok {
		next.Nombre = v
	}
	if v, ok := in.Descripcion.Str(); ok {
		next.Descripcion = v
	}
	if v, ok := in.Estado.Str(); ok {
		next.Estado = v
	}
	if v, ok := in.Prioridad.Str(); ok {
		next.Prioridad = Prioridad(v)
	}
	switch {
	case in.Responsable.IsNull():
		next.Responsable = nil
	case in.Responsable.Present():
		v, _ := in.Responsable.Str()
		next.Responsable = &v
	}

	s.byID[id] = next

	s.logger.Debug("caso updated", "id", id)
	return next.Clone(), nil
}

// Delete removes the record with the given id and returns it.
func (s *Store) Delete(_ context.Context, id string) (*Caso, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}

	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Debug("caso deleted", "id", id)
	return c, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Seed appends records as given, skipping validation. Records without an
// id, or whose id is already taken, get a fresh one.
func (s *Store) Seed(casos []Caso) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range casos {
		c := casos[i].Clone()
		if _, taken := s.byID[c.ID]; c.ID == "" || taken {
			c.ID = s.uniqueIDLocked()
		}
		s.byID[c.ID] = c
		s.order = append(s.order, c.ID)
	}

	s.logger.Info("casos seeded", "count", len(casos), "total", len(s.order))
}

func (s *Store) uniqueIDLocked() string {
	for {
		id := s.newID()
		if _, taken := s.byID[id]; !taken {
			return id
		}
	}
}
