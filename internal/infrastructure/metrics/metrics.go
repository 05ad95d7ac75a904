// Package metrics expone las métricas Prometheus del servicio sobre un registro propio.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores. Cada instancia usa su propio registro, así varias apps en el
// mismo proceso (tests) no chocan al registrar.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	loginAttempts       *prometheus.CounterVec
	authzDenials        *prometheus.CounterVec
	restocksTotal       prometheus.Counter
	restockUnits        prometheus.Counter
}

// New registra las métricas con el prefijo indicado (METRICS_PREFIX).
func New(prefix string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		loginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		authzDenials: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_authz_denials_total",
				Help: "Total number of requests denied by the authorization rules",
			},
			[]string{"code"},
		),
		restocksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_restocks_total",
			Help: "Total number of successful restocks",
		}),
		restockUnits: factory.NewCounter(prometheus.CounterOpts{
			Name: prefix + "_restock_units_total",
			Help: "Total units added through restocks",
		}),
	}
}

// Handler sirve el registro en formato de exposición Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro subyacente.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveRequest registra una petición HTTP ya respondida.
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// RecordLogin cuenta un intento de login (result: success | failure).
func (m *Metrics) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// RecordDenial cuenta una denegación de autorización por código de error.
func (m *Metrics) RecordDenial(code string) {
	m.authzDenials.WithLabelValues(code).Inc()
}

// RecordRestock cuenta una reposición exitosa y sus unidades.
func (m *Metrics) RecordRestock(quantity int64) {
	m.restocksTotal.Inc()
	m.restockUnits.Add(float64(quantity))
}
