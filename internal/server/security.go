package server

import (
	"net/http"
	"strings"
)

// SecurityConfig controls response hardening and request limits.
type SecurityConfig struct {
	// EnableCORS adds Access-Control-* headers for allowed origins.
	EnableCORS bool
	// AllowedOrigins lists origins allowed by CORS; "*" allows any.
	AllowedOrigins []string
	// AllowedMethods lists methods advertised by CORS.
	AllowedMethods []string
	// MaxBodyBytes bounds a request body.
	MaxBodyBytes int64
	// MaxBatchCalls bounds the number of calls in one batch request.
	MaxBatchCalls int
}

// DefaultSecurityConfig returns the configuration used by pydemo serve.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxBodyBytes:   1 << 20,
		MaxBatchCalls:  256,
	}
}

// SecurityMiddleware sets security headers on every response, applies CORS
// and answers preflight requests without calling next.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, a := range allowed {
		if a == "*" {
			return "*", true
		}
		if origin != "" && a == origin {
			return origin, true
		}
	}
	return "", false
}
