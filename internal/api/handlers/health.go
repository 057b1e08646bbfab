package handlers

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HansenBerlin/printfiles/internal/config"
)

// Статусы проверок готовности.
const (
	checkOK       = "ok"
	checkDegraded = "degraded"
	checkFail     = "fail"
)

// ReadinessChecker: проверка готовности одной зависимости.
type ReadinessChecker interface {
	CheckReady() (status string, message string)
}

// HealthHandler обслуживает /health/live, /health/ready и /metrics.
type HealthHandler struct {
	checks    map[string]ReadinessChecker
	startedAt time.Time
	metrics   http.Handler
}

// NewHealthHandler создаёт обработчик с проверкой PostgreSQL.
// Если pgChecker равен nil, readiness отвечает 503.
func NewHealthHandler(pgChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		checks:    map[string]ReadinessChecker{"postgresql": pgChecker},
		startedAt: time.Now(),
		metrics:   promhttp.Handler(),
	}
}

type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthLiveResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

type healthReadyResponse struct {
	Status  string                       `json:"status"`
	Service string                       `json:"service"`
	Version string                       `json:"version"`
	Checks  map[string]healthCheckResult `json:"checks"`
}

// HealthLive отвечает 200, пока процесс обслуживает запросы.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:        checkOK,
		Service:       config.ServiceName,
		Version:       config.Version,
		UptimeSeconds: time.Since(h.startedAt).Round(time.Second).Seconds(),
	})
}

// HealthReady опрашивает зависимости. fail по любой из них даёт 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	results := make(map[string]healthCheckResult, len(h.checks))
	statuses := make([]string, 0, len(h.checks))

	for name, checker := range h.checks {
		res := healthCheckResult{Status: checkFail, Message: "не инициализирован"}
		if checker != nil {
			res.Status, res.Message = checker.CheckReady()
		}
		results[name] = res
		statuses = append(statuses, res.Status)
	}

	status := overallStatus(statuses...)
	code := http.StatusOK
	if status == checkFail {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, healthReadyResponse{
		Status:  status,
		Service: config.ServiceName,
		Version: config.Version,
		Checks:  results,
	})
}

// GetMetrics отдаёт метрики Prometheus.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// overallStatus возвращает худший из статусов; пустой список даёт ok.
func overallStatus(statuses ...string) string {
	result := checkOK
	for _, s := range statuses {
		switch s {
		case checkFail:
			return checkFail
		case checkDegraded:
			result = checkDegraded
		}
	}
	return result
}
