package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc returns a function deriving the client key from a request.
//
// The key is the remote IP. When trustXFF is set, the first address in
// X-Forwarded-For wins; only enable that behind a proxy that overwrites it.
func KeyFunc(trustXFF bool) func(r *http.Request) string {
	return func(r *http.Request) string {
		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
			return host
		}
		if addr != "" {
			return addr
		}
		return "unknown"
	}
}
