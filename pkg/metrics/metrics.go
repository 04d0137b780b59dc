package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

const namespace = "community"

var HistogramBuckets = []float64{
	// fast responses (0 - 500ms)
	5, 10, 25, 50, 75, 100, 150, 200, 300, 400, 500,
	// medium (500ms - 2s)
	750, 1000, 1500, 2000,
	// slow (2s - 30s)
	3000, 5000, 10000, 30000,
}

// Metric is a definition for the name, description, type and labels of a
// collector. NewMetric turns it into the matching prometheus.Collector.
type Metric struct {
	Name        string
	Description string
	Type        string
	Args        []string
}

// NewMetric associates a prometheus.Collector based on Metric.Type.
func NewMetric(m *Metric, subsystem string) (prometheus.Collector, error) {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	case "gauge_vec":
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	case "histogram_vec":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets}, m.Args), nil
	case "summary_vec":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Namespace: namespace, Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args), nil
	default:
		return nil, fmt.Errorf("unsupported metric type %q for %s", m.Type, m.Name)
	}
}

var webhookEvents = &Metric{
	Name:        "webhook_events_total",
	Description: "Gateway webhook events by type and outcome.",
	Type:        "counter_vec",
	Args:        []string{"type", "outcome"},
}

var webhookDur = &Metric{
	Name:        "webhook_dur_ms",
	Description: "Gateway webhook event processing latency in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"type"},
}

var notificationsCreated = &Metric{
	Name:        "notifications_created_total",
	Description: "Notification rows created, by type.",
	Type:        "counter_vec",
	Args:        []string{"type"},
}

// Business holds the domain collectors used by services.
type Business struct {
	WebhookEvents        *prometheus.CounterVec
	WebhookDuration      *prometheus.HistogramVec
	NotificationsCreated *prometheus.CounterVec
}

// NewRegistry returns a registry preloaded with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func NewBusiness(reg prometheus.Registerer) (*Business, error) {
	b := &Business{}
	for _, def := range []*Metric{webhookEvents, webhookDur, notificationsCreated} {
		c, err := NewMetric(def, "domain")
		if err != nil {
			return nil, err
		}
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register %s: %w", def.Name, err)
		}
		switch def {
		case webhookEvents:
			b.WebhookEvents = c.(*prometheus.CounterVec)
		case webhookDur:
			b.WebhookDuration = c.(*prometheus.HistogramVec)
		case notificationsCreated:
			b.NotificationsCreated = c.(*prometheus.CounterVec)
		}
	}
	return b, nil
}

// NewNopBusiness returns collectors that are not registered anywhere; used by tests.
func NewNopBusiness() *Business {
	b, _ := NewBusiness(prometheus.NewRegistry())
	return b
}

var Module = fx.Options(
	fx.Provide(
		NewRegistry,
		func(r *prometheus.Registry) prometheus.Registerer { return r },
		func(r *prometheus.Registry) prometheus.Gatherer { return r },
		NewBusiness,
	),
)
