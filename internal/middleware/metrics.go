package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yatube/yatube/internal/monitoring"
)

// Metrics records request count, duration and in-flight requests.
// Requests are labelled by chi route pattern so path parameters do not
// explode label cardinality. The metrics endpoint itself is skipped.
func Metrics(metricsPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}

			monitoring.ActiveRequests.Inc()
			defer monitoring.ActiveRequests.Dec()

			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			monitoring.HttpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
