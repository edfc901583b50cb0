package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/casos-demo/casos-core/internal/auth"
)

// ticketTTL is how long a WebSocket ticket is valid.
const ticketTTL = 60 * time.Second

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	Token string `json:"token"`
}

// ticketStore holds pending WebSocket authentication tickets.
// Tickets are single-use and expire after ticketTTL.
type ticketStore struct {
	tickets map[string]ticketEntry
	mu      sync.Mutex
	now     func() time.Time
}

type ticketEntry struct {
	expiresAt time.Time
	userID    string
	email     string
}

func newTicketStore() *ticketStore {
	return &ticketStore{
		tickets: make(map[string]ticketEntry),
		now:     time.Now,
	}
}

// handleLogin exchanges email and password for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, HTTPError{Kind: KindPayloadTooLarge, Message: msgBodyTooLarge})
			return
		}
		writeError(w, r, HTTPError{Kind: KindValidation, Message: msgInvalidBody})
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, r, HTTPError{Kind: KindValidation, Message: msgMissingCreds})
		return
	}

	token, err := s.gate.Issue(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to authenticate the WebSocket connection
// without exposing the bearer token in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	entry := ticketEntry{}
	if p := principalFromContext(r.Context()); p != nil {
		entry.userID = p.UserID
		entry.email = p.Email
	}

	ticket := s.tickets.issue(entry)

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket":     ticket,
		"expires_in": int(ticketTTL.Seconds()),
	})
}

// issue stores entry under a fresh ticket and returns the ticket.
func (t *ticketStore) issue(entry ticketEntry) string {
	ticket := generateTicket()
	entry.expiresAt = t.now().Add(ticketTTL)

	t.mu.Lock()
	t.tickets[ticket] = entry
	t.mu.Unlock()

	return ticket
}

// consume checks if a ticket is valid and removes it (single-use).
func (t *ticketStore) consume(ticket string) (ticketEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.tickets[ticket]
	if !ok {
		return ticketEntry{}, false
	}
	delete(t.tickets, ticket)

	if !t.now().Before(entry.expiresAt) {
		return ticketEntry{}, false
	}
	return entry, true
}

// cleanExpired removes expired tickets.
func (t *ticketStore) cleanExpired() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for ticket, entry := range t.tickets {
		if !now.Before(entry.expiresAt) {
			delete(t.tickets, ticket)
		}
	}
}

func (t *ticketStore) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tickets)
}

// ticketBytes is the number of random bytes used for WebSocket tickets.
const ticketBytes = 32

// generateTicket creates a cryptographically random ticket string.
func generateTicket() string {
	b := make([]byte, ticketBytes)
	//nolint:errcheck // crypto/rand.Read always returns len(b) on supported platforms
	rand.Read(b)
	return hex.EncodeToString(b)
}

// cleanTicketsLoop runs cleanExpired periodically until the context is cancelled.
func (s *Server) cleanTicketsLoop(ctx context.Context) {
	ticker := time.NewTicker(ticketTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickets.cleanExpired()
		}
	}
}

// principalFromTicket rebuilds the caller identity carried by a ticket.
func principalFromTicket(entry ticketEntry) *auth.Principal {
	if entry.userID == "" {
		return nil
	}
	return &auth.Principal{UserID: entry.userID, Email: entry.email}
}
