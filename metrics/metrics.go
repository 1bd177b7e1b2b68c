// Package metrics provides Prometheus metrics for configuration binding and
// reloading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sparky983/warp-config-sub000/diagnostic"
)

const namespace = "warp"

// Bind results.
const (
	ResultOK      = "ok"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Collector holds the binding metrics. A nil *Collector records nothing.
type Collector struct {
	// Bind metrics
	BindsTotal   *prometheus.CounterVec
	BindDuration *prometheus.HistogramVec
	BindProblems *prometheus.CounterVec

	// Reload metrics
	Reloads      prometheus.Counter
	ReloadErrors prometheus.Counter
	LastReload   prometheus.Gauge
}

// New creates a collector registered with the default registerer.
func New() *Collector {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a collector registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		BindsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "binds_total",
				Help:      "Total number of configuration binds by result",
			},
			[]string{"contract", "result"},
		),
		BindDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bind_duration_seconds",
				Help:      "Configuration bind duration in seconds, source loading included",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"contract"},
		),
		BindProblems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bind_problems_total",
				Help:      "Total number of configuration problems reported by binds",
			},
			[]string{"contract"},
		),
		Reloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		LastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// ObserveBind records one bind of contract that took elapsed and ended with
// err.
func (c *Collector) ObserveBind(contract string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}

	c.BindDuration.WithLabelValues(contract).Observe(elapsed.Seconds())
	c.BindsTotal.WithLabelValues(contract, Result(err)).Inc()

	if errs, ok := diagnostic.As(err); ok {
		c.BindProblems.WithLabelValues(contract).Add(float64(len(errs.Strings())))
	}
}

// ObserveReload records a reload attempt finished at now.
func (c *Collector) ObserveReload(now time.Time, err error) {
	if c == nil {
		return
	}

	if err != nil {
		c.ReloadErrors.Inc()
		return
	}

	c.Reloads.Inc()
	c.LastReload.Set(float64(now.Unix()))
}

// Result classifies a bind error: nil is ResultOK, invalid data is
// ResultInvalid and anything else ResultError.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}

	if _, ok := diagnostic.As(err); ok {
		return ResultInvalid
	}

	return ResultError
}
