package middleware

import (
	"net/http"
)

// SecurityConfig holds configuration for security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS in dev environments.
	IsDevelopment bool
}

// Security returns a middleware that applies security headers to all responses.
// Generated copy is per-caller content, so responses are never cacheable.
//
// Headers applied:
//   - X-Content-Type-Options: nosniff
//   - X-Frame-Options: DENY
//   - Referrer-Policy: no-referrer
//   - Content-Security-Policy: deny everything, the API serves no HTML
//   - Cross-Origin-Opener-Policy / Cross-Origin-Resource-Policy: same-origin
//   - Cache-Control: no-store
//   - Strict-Transport-Security: outside development only
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			// === MIME sniffing off; bodies are always JSON ===
			h.Set("X-Content-Type-Options", "nosniff")

			// === No framing ===
			h.Set("X-Frame-Options", "DENY")

			// === Never leak the calling page's URL ===
			h.Set("Referrer-Policy", "no-referrer")

			// === Content Security Policy ===
			// Nothing may load; frame-ancestors covers browsers that ignore X-Frame-Options.
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

			// === Cross-origin isolation ===
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")

			// === Tokens and generated copy must not reach shared caches ===
			h.Set("Cache-Control", "no-store")

			// === HSTS, production only ===
			// Local development usually runs over plain HTTP.
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize returns a middleware that limits request body size.
// Requests declaring a larger Content-Length are rejected with 413; bodies
// without a declared length fail on read once the limit is crossed.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"detail":"Request body too large","code":"PAYLOAD_TOO_LARGE"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
