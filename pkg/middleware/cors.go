package middleware

import (
	"net/http"
	"strings"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
)

var (
	corsAllowMethods  = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}, ", ")
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Accept", "Authorization", HeaderIdempotencyKey, HeaderRequestID}, ", ")
	corsExposeHeaders = strings.Join([]string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", HeaderRequestID}, ", ")
)

// CORS echoes allow-listed origins back to the browser. Requests that carry
// any other Origin are refused with 403; requests without one pass through.
func CORS(origins []string, log *logger.Logger) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")

			if _, ok := allowed[origin]; !ok {
				log.Warn("Origin not allowed",
					"request_id", RequestIDFromContext(r.Context()),
					"origin", origin,
					"path", r.URL.Path,
				)
				_ = apperrors.WriteError(w, apperrors.Forbidden("Origin not allowed"))
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", corsExposeHeaders)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")
				w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
