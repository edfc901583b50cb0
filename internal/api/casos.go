package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/casos-demo/casos-core/internal/caso"
)

// deleteResponse is the body of DELETE /casos/{id}.
type deleteResponse struct {
	Removed *caso.Caso `json:"removed"`
}

// handleListCasos returns the whole collection in insertion order.
func (s *Server) handleListCasos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	casos := s.store.List(r.Context())
	s.recordOperation("list", nil, time.Since(start))

	writeJSON(w, http.StatusOK, casos)
}

// handleGetCaso returns one record by id.
func (s *Server) handleGetCaso(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	s.recordOperation("get", err, time.Since(start))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleCreateCaso validates the body, stores a new record and announces it.
func (s *Server) handleCreateCaso(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	start := time.Now()
	in, err := caso.DecodeCreateInput(body)
	var created *caso.Caso
	if err == nil {
		created, err = s.store.Create(r.Context(), in)
	}
	s.recordOperation("create", err, time.Since(start))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.emit(r, EventCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateCaso merges the supplied fields into an existing record.
func (s *Server) handleUpdateCaso(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	start := time.Now()
	in, err := caso.DecodeUpdateInput(body)
	var updated *caso.Caso
	if err == nil {
		updated, err = s.store.Update(r.Context(), chi.URLParam(r, "id"), in)
	}
	s.recordOperation("update", err, time.Since(start))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.emit(r, EventUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteCaso removes a record and returns it as {removed}.
func (s *Server) handleDeleteCaso(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	removed, err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	s.recordOperation("delete", err, time.Since(start))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.emit(r, EventDeleted, removed)
	writeJSON(w, http.StatusOK, deleteResponse{Removed: removed})
}

// readBody reads the whole request body. A missing body reads as empty.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("reading body: %w", maxErr)
		}
		return nil, fmt.Errorf("%w: %w", caso.ErrInvalidBody, err)
	}
	return body, nil
}
