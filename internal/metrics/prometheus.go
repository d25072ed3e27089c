package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// MaxContactSubjects caps the distinct subject labels of
	// contact_form_submissions_total. Later subjects are counted as "other".
	MaxContactSubjects = 50
	maxSubjectLength   = 64
	otherSubject       = "other"
)

type Info struct {
	Version     string
	Environment string
}

// Prometheus implements Recorder on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	activeConnections prometheus.Gauge
	contactForms      *prometheus.CounterVec
	queryDuration     *prometheus.HistogramVec
	databaseErrors    prometheus.Counter

	subjectsMu sync.Mutex
	subjects   map[string]struct{}
}

func NewPrometheus(info Info) *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		subjects: make(map[string]struct{}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "status", "route"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.1, 0.3, 0.5, 0.7, 1, 3, 5, 7, 10},
		}, []string{"method", "status", "route"}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of in-flight HTTP requests",
		}),
		contactForms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contact_form_submissions_total",
			Help: "Total number of contact form submissions",
		}, []string{"subject", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 3, 5},
		}, []string{"operation", "table"}),
		databaseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "database_errors_total",
			Help: "Total number of failed database queries",
		}),
	}

	appInfo := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "application_info",
		Help: "Application build and runtime information",
	}, []string{"version", "environment", "go_version"})
	appInfo.WithLabelValues(info.Version, info.Environment, runtime.Version()).Set(1)

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.httpRequests,
		p.httpDuration,
		p.activeConnections,
		p.contactForms,
		p.queryDuration,
		p.databaseErrors,
		appInfo,
	)

	return p
}

// WatchPool exports the pool's connection counts as database_connections.
func (p *Prometheus) WatchPool(pool *pgxpool.Pool) {
	p.registry.MustRegister(newPoolCollector(func() (int32, int32) {
		stat := pool.Stat()
		return stat.AcquiredConns(), stat.IdleConns()
	}))
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	p.httpRequests.WithLabelValues(method, code, route).Inc()
	p.httpDuration.WithLabelValues(method, code, route).Observe(duration.Seconds())
}

func (p *Prometheus) ConnectionOpened() {
	p.activeConnections.Inc()
}

func (p *Prometheus) ConnectionClosed() {
	p.activeConnections.Dec()
}

func (p *Prometheus) ContactSubmitted(subject string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	p.contactForms.WithLabelValues(p.subjectLabel(subject), status).Inc()
}

// subjectLabel bounds the label set: subjects are truncated and only the
// first MaxContactSubjects distinct ones get their own series.
func (p *Prometheus) subjectLabel(subject string) string {
	subject = strings.TrimSpace(strings.ToValidUTF8(subject, ""))
	if utf8.RuneCountInString(subject) > maxSubjectLength {
		subject = string([]rune(subject)[:maxSubjectLength])
	}
	if subject == "" {
		return "unknown"
	}

	p.subjectsMu.Lock()
	defer p.subjectsMu.Unlock()

	if _, ok := p.subjects[subject]; ok {
		return subject
	}
	if len(p.subjects) >= MaxContactSubjects {
		return otherSubject
	}
	p.subjects[subject] = struct{}{}
	return subject
}

func (p *Prometheus) ObserveQuery(operation, table string, duration time.Duration, err error) {
	p.queryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		p.databaseErrors.Inc()
	}
}

var connectionsDesc = prometheus.NewDesc(
	"database_connections",
	"Number of database connections by state",
	[]string{"state"}, nil,
)

type poolCollector struct {
	stats func() (active, idle int32)
}

func newPoolCollector(stats func() (active, idle int32)) *poolCollector {
	return &poolCollector{stats: stats}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- connectionsDesc
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	active, idle := c.stats()
	ch <- prometheus.MustNewConstMetric(connectionsDesc, prometheus.GaugeValue, float64(active), "active")
	ch <- prometheus.MustNewConstMetric(connectionsDesc, prometheus.GaugeValue, float64(idle), "idle")
}
