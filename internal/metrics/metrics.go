// Package metrics содержит метрики Prometheus сервиса.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций аутентификации.
const (
	ResultSuccess            = "success"
	ResultInvalid            = "invalid"
	ResultInvalidCredentials = "invalid_credentials"
	ResultDuplicate          = "duplicate"
	ResultUnavailable        = "unavailable"
)

// AuthAttempts считает попытки регистрации, входа и выхода по результату.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "focus_tracker_auth_attempts_total",
		Help: "Total number of authentication attempts",
	},
	[]string{"operation", "result"},
)

// FocusLogEntries считает сохранённые записи журнала.
var FocusLogEntries = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "focus_tracker_focuslog_entries_total",
		Help: "Total number of stored focus log entries",
	},
)

// HTTPRequestDuration распределение длительности HTTP-запросов.
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "focus_tracker_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

// RegisterMetrics регистрирует метрики пакета в reg. Паникует при повторной регистрации.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(FocusLogEntries)
	reg.MustRegister(HTTPRequestDuration)
}

// RecordAuthAttempt увеличивает счётчик попыток операции operation с результатом result.
func RecordAuthAttempt(operation, result string) {
	AuthAttempts.WithLabelValues(operation, result).Inc()
}

// RecordFocusLogEntry увеличивает счётчик сохранённых записей.
func RecordFocusLogEntry() {
	FocusLogEntries.Inc()
}

// RecordHTTPRequest фиксирует длительность обработанного запроса.
func RecordHTTPRequest(route, method, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(route, method, status).Observe(duration.Seconds())
}
