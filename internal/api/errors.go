package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/casos-demo/casos-core/internal/auth"
	"github.com/casos-demo/casos-core/internal/caso"
)

// Kind classifies an HTTPError and fixes its status code.
type Kind int

// Error kinds understood by writeError.
const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindTooManyRequests
	KindPayloadTooLarge
)

// Client-facing messages.
const (
	msgInternal        = "Internal Server Error"
	msgNotFound        = "Caso no encontrado"
	msgRouteNotFound   = "Not Found"
	msgMethodNotAllow  = "Method Not Allowed"
	msgInvalidBody     = "invalid JSON body"
	msgBadCredentials  = "Credenciales inválidas"
	msgMissingCreds    = "email y password son requeridos"
	msgMissingToken    = "Token no proporcionado"
	msgInvalidToken    = "Token inválido"
	msgTooManyRequests = "Too Many Requests"
	msgBodyTooLarge    = "request body too large"
	msgMissingTicket   = "ticket query parameter is required"
	msgInvalidTicket   = "invalid or expired ticket"
)

// HTTPError is the single error value handlers hand to writeError.
type HTTPError struct {
	Kind    Kind
	Message string
}

func (e HTTPError) Error() string { return e.Message }

// Status maps the kind to an HTTP status code.
func (e HTTPError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// errorEnvelope is the JSON body of every error response.
type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// resolveError maps domain errors onto an HTTPError. Anything unrecognised
// becomes a 500 with a generic message.
func resolveError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var violations caso.Violations
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return HTTPError{Kind: KindPayloadTooLarge, Message: msgBodyTooLarge}
	case errors.As(err, &violations):
		return HTTPError{Kind: KindValidation, Message: violations.Error()}
	case errors.Is(err, caso.ErrInvalidBody):
		return HTTPError{Kind: KindValidation, Message: msgInvalidBody}
	case errors.Is(err, caso.ErrNotFound):
		return HTTPError{Kind: KindNotFound, Message: msgNotFound}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return HTTPError{Kind: KindUnauthorized, Message: msgBadCredentials}
	case errors.Is(err, auth.ErrTokenInvalid):
		return HTTPError{Kind: KindUnauthorized, Message: msgInvalidToken}
	default:
		return HTTPError{Kind: KindInternal, Message: msgInternal}
	}
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError renders e as the standard error envelope.
func writeError(w http.ResponseWriter, r *http.Request, e HTTPError) {
	writeJSON(w, e.Status(), errorEnvelope{
		StatusCode: e.Status(),
		Message:    e.Message,
		Timestamp:  nowTimestamp(),
		Path:       r.URL.Path,
	})
}

// nowTimestamp formats the current time as RFC 3339 UTC with milliseconds.
func nowTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// writeErr resolves err and writes the envelope, logging unexpected errors.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	e := resolveError(err)
	if e.Kind == KindInternal {
		s.logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	}
	writeError(w, r, e)
}
