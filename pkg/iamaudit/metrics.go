package iamaudit

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "iam_audit"

// NewMetricsRegistry builds a Prometheus registry holding the gauges of one
// audit run.
func NewMetricsRegistry(report *Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"provider": string(report.Provider)}

	audited := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "users_audited",
		Help:        "Number of users evaluated in the last audit run.",
		ConstLabels: labels,
	})
	flagged := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "users_flagged",
		Help:        "Number of users with at least one issue in the last audit run.",
		ConstLabels: labels,
	})
	issues := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "issues",
		Help:        "Number of issues found in the last audit run, by severity.",
		ConstLabels: labels,
	}, []string{"severity"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time of the last audit run.",
		ConstLabels: labels,
	})

	for _, c := range []prometheus.Collector{audited, flagged, issues, lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, ErrInternal("failed to register metric").WithCause(err)
		}
	}

	audited.Set(float64(report.Summary.AuditedUsers))
	flagged.Set(float64(report.Summary.FlaggedUsers))
	issues.WithLabelValues(string(SeverityCritical)).Set(float64(report.Summary.Critical))
	issues.WithLabelValues(string(SeverityWarning)).Set(float64(report.Summary.Warning))
	lastRun.Set(float64(report.GeneratedAt.Unix()))

	return reg, nil
}

// WriteMetrics writes the run's gauges in Prometheus text format to path,
// suitable for node_exporter's textfile collector.
func WriteMetrics(path string, report *Report) error {
	reg, err := NewMetricsRegistry(report)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return ErrStorage("failed to write metrics file").WithCause(err)
	}
	return nil
}
