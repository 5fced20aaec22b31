package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/common"
	"carclub/paddock/internal/logging"
)

type respLogger struct {
	http.ResponseWriter
	status int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

// Logging writes a debug line per request and turns handler panics into
// a 500 envelope instead of a dropped connection.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &respLogger{ResponseWriter: w, status: http.StatusOK}
		log := logging.WithRequest(auth.GetRequestID(r.Context()), "", r.URL.Path)

		defer func() {
			if rec := recover(); rec != nil {
				log.Errorw("handler panicked", "panic", rec, "stack", string(debug.Stack()))
				common.RespondError(lw, start, fmt.Errorf("panic: %v", rec))
				return
			}
			log.Debugw("request served", "method", r.Method, "status", lw.status, "duration", time.Since(start))
		}()

		next.ServeHTTP(lw, r)
	})
}
