package middleware

import (
	"net/http"

	apperrors "roombook/pkg/errors"
)

// MaxRequestSize rejects bodies that declare more than limit bytes and caps
// the rest with http.MaxBytesReader so oversized chunked bodies fail on read.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.PayloadTooLarge(limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
