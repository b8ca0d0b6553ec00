package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"smartmilk/internal/platform/logger"
	"smartmilk/internal/platform/metrics"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recovery reemplaza a chimw.Recoverer: además de responder 500
// deja el panic en el log estructurado y en métricas.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// http.ErrAbortHandler se propaga tal cual (contrato de net/http).
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered", map[string]any{
					"request_id": chimw.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				metrics.PanicsRecovered.WithLabelValues("http_handler").Inc()

				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
