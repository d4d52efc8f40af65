package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	global *Metrics
	once   sync.Once
)

// Metrics holds the Prometheus collectors of the portfolio server.
//
// Metrics:
//   - folio_http_requests_total{method,status} - handled requests
//   - folio_http_request_duration_seconds{method} - request latency
//   - folio_document_reads_total{state} - document reads by outcome (found, missing, corrupt)
//   - folio_document_saves_total{result} - document saves (ok, conflict, error)
//   - folio_uploads_total{result} - uploads (ok, rejected, error)
//   - folio_upload_bytes_total - bytes written to the uploads directory
//   - folio_logins_total{result} - PIN login attempts (ok, denied)
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	DocumentReads *prometheus.CounterVec
	DocumentSaves *prometheus.CounterVec
	Uploads       *prometheus.CounterVec
	UploadBytes   prometheus.Counter
	Logins        *prometheus.CounterVec
}

// Get returns the process-wide metrics, registering them on first use.
func Get() *Metrics {
	once.Do(func() {
		global = &Metrics{
			HTTPRequests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "folio_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "status"},
			),
			HTTPDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "folio_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method"},
			),
			DocumentReads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "folio_document_reads_total",
					Help: "Total number of document reads by outcome",
				},
				[]string{"state"},
			),
			DocumentSaves: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "folio_document_saves_total",
					Help: "Total number of document saves by result",
				},
				[]string{"result"},
			),
			Uploads: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "folio_uploads_total",
					Help: "Total number of uploads by result",
				},
				[]string{"result"},
			),
			UploadBytes: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "folio_upload_bytes_total",
					Help: "Total bytes written to the uploads directory",
				},
			),
			Logins: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "folio_logins_total",
					Help: "Total number of PIN login attempts by result",
				},
				[]string{"result"},
			),
		}
	})
	return global
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
