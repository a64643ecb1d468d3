// Package metrics Prometheus метрики сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты обновления доски
const (
	RefreshApplied    = "applied"
	RefreshSuperseded = "superseded"
	RefreshFailed     = "error"
)

// Результаты действий пользователя
const (
	ActionOK       = "ok"
	ActionBlocked  = "blocked"
	ActionRejected = "rejected"
	ActionFailed   = "error"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	serviceName string

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	refreshes    *prometheus.CounterVec
	actions      *prometheus.CounterVec
	gateway      *prometheus.HistogramVec
	activeBoards prometheus.Gauge
}

// New создает и регистрирует метрики в указанном регистре
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "board_refresh_total",
			Help: "Board refresh cycles by trigger and result",
		}, []string{"service", "trigger", "result"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_actions_total",
			Help: "Reserve and cancel actions by result",
		}, []string{"service", "action", "result"}),
		gateway: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Latency of calls to the booking backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "operation", "result"}),
		activeBoards: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "boards_active",
			Help:        "Number of sessions with a live availability board",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.refreshes, m.actions, m.gateway, m.activeBoards)

	return m
}

// ObserveHTTP фиксирует HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveRefresh фиксирует результат цикла обновления
func (m *Metrics) ObserveRefresh(trigger, result string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(m.serviceName, trigger, result).Inc()
}

// ObserveAction фиксирует результат бронирования или отмены
func (m *Metrics) ObserveAction(action, result string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(m.serviceName, action, result).Inc()
}

// ObserveGateway фиксирует длительность обращения к бэкенду
func (m *Metrics) ObserveGateway(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.gateway.WithLabelValues(m.serviceName, operation, result).Observe(duration.Seconds())
}

// SetActiveBoards выставляет количество активных досок
func (m *Metrics) SetActiveBoards(n int) {
	if m == nil {
		return
	}
	m.activeBoards.Set(float64(n))
}
