// Package api provides the HTTP REST API and WebSocket server for the casos
// backend.
//
// Routes:
//
//	GET    /                 banner, no auth
//	GET    /health           liveness, no auth
//	GET    /metrics          process and store counters, no auth
//	POST   /auth/login       {email, password} -> {token}
//	POST   /auth/ws-ticket   bearer -> single-use WebSocket ticket
//	GET    /ws?ticket=       WebSocket upgrade, caso.* events
//	GET    /casos            bearer, list
//	GET    /casos/{id}       bearer, read one
//	POST   /casos            bearer, create
//	PUT    /casos/{id}       bearer, partial update
//	DELETE /casos/{id}       bearer, delete -> {removed}
//
// Every error is rendered as {statusCode, message, timestamp, path} by a
// single function, writeError. Handlers return domain errors and let
// resolveError pick the status.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
