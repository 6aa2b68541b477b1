package limiter

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
)

const ThrottledMessage = "Too many attempts, please try again later."

type IdentityFunc func(r *http.Request) string

// ClientIP identifies callers by their remote address. With trustProxy set the
// first X-Forwarded-For hop is used instead.
func ClientIP(trustProxy bool) IdentityFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				first, _, _ := strings.Cut(fwd, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return r.RemoteAddr
		}
		return host
	}
}

// Middleware records every request as one attempt and rejects with 429 once
// the caller's window is used up. The wrapped handler is not invoked then.
func Middleware(l Limiter, identify IdentityFunc, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identify(r)

			decision, err := l.CheckAndRecord(r.Context(), identity)
			if err != nil {
				log.Error("Failed to check attempt limit",
					"request_id", middleware.RequestIDFromContext(r.Context()),
					"error", err,
				)
				_ = apperrors.WriteError(w, apperrors.Unavailable("Attempt limiter"))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				log.Warn("Attempt limit exceeded",
					"request_id", middleware.RequestIDFromContext(r.Context()),
					"identity", identity,
					"path", r.URL.Path,
				)
				_ = apperrors.WriteError(w, apperrors.TooManyRequests(ThrottledMessage, decision.RetryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
