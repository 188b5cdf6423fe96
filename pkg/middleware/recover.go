package middleware

import (
	"net/http"

	"bus-booking/pkg/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// headerTracker remembers whether the handler already started its response.
type headerTracker struct {
	http.ResponseWriter
	written bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.written = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.written = true
	return t.ResponseWriter.Write(b)
}

// Recover turns a panicking handler into a 500 envelope. http.ErrAbortHandler is
// re-raised so net/http can drop the connection quietly. If the handler already
// wrote its status, only the log entry is produced.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("component", "recover"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &headerTracker{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.String("route", r.Method+" "+r.URL.Path),
					zap.Bool("response_started", tw.written),
					zap.Stack("stack"),
				)

				if !tw.written {
					utils.ResponseInternalError(w, "Internal server error")
				}
			}()
			next.ServeHTTP(tw, r)
		})
	}
}
