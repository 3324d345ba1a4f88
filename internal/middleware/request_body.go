package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes is plenty for a gallery action, the only request body
// this service reads
const MaxRequestBodyBytes = 64 * 1024

// LimitRequestBody caps the request body at maxBytes, reads past the limit
// fail and the handler sees a broken body. Whatever the handler left unread
// is drained before the body is closed, so the connection can be reused.
func LimitRequestBody(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body := http.MaxBytesReader(w, r.Body, maxBytes)
			r.Body = body
			next.ServeHTTP(w, r)

			_, _ = io.Copy(io.Discard, body)
			_ = body.Close()
		})
	}
}
