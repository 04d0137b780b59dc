package metrics

/* adapted from https://github.com/zsais/go-gin-prometheus
edits:
- collectors are registered on an injected registry instead of the global one
- metrics are served by a dedicated http.Server owned by the caller
- removed basic auth and push gateway
*/

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var reqCnt = &Metric{
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url"},
}

var reqDur = &Metric{
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url"},
}

var resSz = &Metric{
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url"},
}

const DefaultMetricsPath = "/metrics"

// RequestCounterURLLabelMappingFn controls the cardinality of the "url" label,
// e.g. by returning c.FullPath() so /channels/:id is one series.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus is a gin middleware recording request metrics.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec
	resSz  *prometheus.SummaryVec

	urlLabel RequestCounterURLLabelMappingFn
}

// NewPrometheus registers the HTTP collectors on reg.
func NewPrometheus(reg prometheus.Registerer, urlLabel RequestCounterURLLabelMappingFn) (*Prometheus, error) {
	if urlLabel == nil {
		urlLabel = func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return "unmatched"
		}
	}
	p := &Prometheus{urlLabel: urlLabel}
	for _, def := range []*Metric{reqCnt, reqDur, resSz} {
		c, err := NewMetric(def, "http")
		if err != nil {
			return nil, err
		}
		if err := reg.Register(c); err != nil {
			return nil, err
		}
		switch def {
		case reqCnt:
			p.reqCnt = c.(*prometheus.CounterVec)
		case reqDur:
			p.reqDur = c.(*prometheus.HistogramVec)
		case resSz:
			p.resSz = c.(*prometheus.SummaryVec)
		}
	}
	return p, nil
}

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabel(c)
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(MillisecondsSince(start))
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(c.Writer.Size()))
	}
}

// Handler exposes the gathered metrics in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// MillisecondsSince returns the elapsed time since start in milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
