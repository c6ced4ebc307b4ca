package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "home_energy_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

var (
	registerOnce sync.Once

	currentUsage prometheus.Gauge
	overLimit    prometheus.Gauge
	monthlyCost  prometheus.Gauge

	overviewTotal   prometheus.Counter
	overviewLatency prometheus.Histogram

	settingsUpdates  *prometheus.CounterVec
	readingsIngested *prometheus.CounterVec
	wsClients        prometheus.Gauge
)

// Init registers the collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		currentUsage = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "current_usage_watts",
			Help: "Current power draw in watts",
		})
		overLimit = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "over_limit",
			Help: "1 when current draw exceeds the configured power limit",
		})
		monthlyCost = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "monthly_cost",
			Help: "Consumption cost at the configured tariff",
		})
		overviewTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "overview_total",
			Help: "Total overview computations",
		})
		overviewLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "overview_latency_seconds",
			Help:    "Overview computation latency in seconds",
			Buckets: prometheus.DefBuckets,
		})
		settingsUpdates = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "settings_updates_total",
				Help: "Total settings updates by result",
			},
			[]string{"result"},
		)
		readingsIngested = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_ingested_total",
				Help: "Total meter readings ingested by result",
			},
			[]string{"result"},
		)
		wsClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "dashboard_ws_clients",
			Help: "Connected dashboard websocket clients",
		})

		prometheus.MustRegister(
			currentUsage,
			overLimit,
			monthlyCost,
			overviewTotal,
			overviewLatency,
			settingsUpdates,
			readingsIngested,
			wsClients,
		)
	})
}

// ObserveOverview records the figures of one overview computation.
func ObserveOverview(usageWatts, cost float64, isOverLimit bool, duration time.Duration) {
	if overviewTotal == nil {
		return
	}
	overviewTotal.Inc()
	overviewLatency.Observe(duration.Seconds())
	currentUsage.Set(usageWatts)
	monthlyCost.Set(cost)
	if isOverLimit {
		overLimit.Set(1)
	} else {
		overLimit.Set(0)
	}
}

func IncSettingsUpdate(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if settingsUpdates != nil {
		settingsUpdates.WithLabelValues(result).Inc()
	}
}

func IncReadingIngested(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if readingsIngested != nil {
		readingsIngested.WithLabelValues(result).Inc()
	}
}

func SetWSClients(n int) {
	if wsClients != nil {
		wsClients.Set(float64(n))
	}
}
