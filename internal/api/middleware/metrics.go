// metrics.go: Prometheus HTTP метрики.
// Регистрирует метрики: pf_http_requests_total, pf_http_request_duration_seconds.
// Лейбл path: шаблон маршрута chi, что ограничивает кардинальность.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// unmatchedRoute: лейбл path для запросов без найденного маршрута.
const unmatchedRoute = "unmatched"

var (
	// httpRequestsTotal: общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pf_http_requests_total",
			Help: "Общее количество HTTP-запросов",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration: гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pf_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware считает запросы и их длительность по шаблонам маршрутов.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				// Шаблон маршрута известен только после обработки запроса роутером
				httpRequestDuration.WithLabelValues(r.Method, routePattern(r)).Observe(v)
			}))

			next.ServeHTTP(ww, r)

			timer.ObserveDuration()
			status := strconv.Itoa(responseStatus(ww))
			httpRequestsTotal.WithLabelValues(r.Method, routePattern(r), status).Inc()
		})
	}
}

// routePattern возвращает шаблон маршрута chi (/api/files/{id})
// или unmatchedRoute, если маршрут не найден.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
