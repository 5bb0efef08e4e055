package middleware

import (
	"net/http"

	"github.com/angelmondragon/storecraft-backend/internal/errorlog"
)

// ErrorLog binds the error log recorder to every request context so the
// response writer can persist 5xx failures.
func ErrorLog(rec *errorlog.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(errorlog.WithRecorder(r.Context(), rec)))
		})
	}
}
