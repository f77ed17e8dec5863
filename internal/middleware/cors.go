package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"badgehub/internal/contextutils"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// CORSConfig controls cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins []string      `json:"allowed_origins"`
	AllowedMethods []string      `json:"allowed_methods"`
	AllowedHeaders []string      `json:"allowed_headers"`
	ExposedHeaders []string      `json:"exposed_headers"`
	MaxAge         time.Duration `json:"max_age"`
}

// DefaultCORSConfig allows any origin to read and create badges.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", HeaderXRequestID},
		ExposedHeaders: []string{HeaderXRequestID},
		MaxAge:         12 * time.Hour,
	}
}

// CORS applies config. Requests from disallowed origins are served without
// CORS headers, leaving the browser to block them.
func CORS(config *CORSConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultCORSConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !OriginAllowed(origin, config.AllowedOrigins) {
				contextutils.GetLogger(r.Context(), logger).Warn("CORS origin not allowed",
					zap.String("origin", origin),
				)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if len(config.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				preflight(w, r, config)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func preflight(w http.ResponseWriter, r *http.Request, config *CORSConfig) {
	method := r.Header.Get("Access-Control-Request-Method")
	if !slices.ContainsFunc(config.AllowedMethods, func(m string) bool { return strings.EqualFold(m, method) }) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
		for _, header := range strings.Split(requested, ",") {
			header = strings.TrimSpace(header)
			if !slices.ContainsFunc(config.AllowedHeaders, func(h string) bool { return strings.EqualFold(h, header) }) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
	h.Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
	h.Set("Access-Control-Max-Age", fmt.Sprintf("%.0f", config.MaxAge.Seconds()))
	w.WriteHeader(http.StatusNoContent)
}

// OriginAllowed matches origin against exact entries, "*" and "*.domain"
// subdomain patterns.
func OriginAllowed(origin string, allowed []string) bool {
	for _, pattern := range allowed {
		switch {
		case pattern == "*", pattern == origin:
			return true
		case strings.HasPrefix(pattern, "*."):
			domain := pattern[2:]
			host := origin
			if _, rest, ok := strings.Cut(origin, "://"); ok {
				host = rest
			}
			if strings.HasSuffix(host, "."+domain) {
				return true
			}
		}
	}
	return false
}

// SecureHeaders sets conservative browser security headers.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
