// Package metrics exposes Prometheus counters for imports and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/puzzleboard/internal/model"
)

const namespace = "puzzleboard"

// Metrics holds the application collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	imports          *prometheus.CounterVec
	linesScanned     prometheus.Counter
	recordsExtracted *prometheus.CounterVec
	recordsStored    prometheus.Counter
	httpRequests     *prometheus.CounterVec
}

// New creates and registers all collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Chat imports by outcome.",
		}, []string{"outcome"}),
		linesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_scanned_total",
			Help:      "Chat lines read by imports.",
		}),
		recordsExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_extracted_total",
			Help:      "Game results recognised in imported chats.",
		}, []string{"game"}),
		recordsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_stored_total",
			Help:      "Game results newly persisted.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.imports,
		m.linesScanned,
		m.recordsExtracted,
		m.recordsStored,
		m.httpRequests,
	)
	return m
}

// ObserveImport counts a successful import
func (m *Metrics) ObserveImport(imp *model.Import, records []model.ScoreRecord) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues("ok").Inc()
	m.linesScanned.Add(float64(imp.LinesScanned))
	m.recordsStored.Add(float64(imp.RecordsStored))
	for _, r := range records {
		m.recordsExtracted.WithLabelValues(string(r.Game)).Inc()
	}
}

// ObserveImportFailure counts an import that returned an error
func (m *Metrics) ObserveImportFailure() {
	if m == nil {
		return
	}
	m.imports.WithLabelValues("error").Inc()
}

// ObserveRequest counts a served HTTP request
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
