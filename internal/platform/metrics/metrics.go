// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "dos_migration_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	recordsTotal  *prometheus.CounterVec
	recordLatency *prometheus.HistogramVec

	runsTotal *prometheus.CounterVec

	queueMessagesTotal *prometheus.CounterVec

	referenceCodesTotal *prometheus.CounterVec

	seedDocumentsTotal *prometheus.CounterVec
)

// Init registers the pipeline metrics. Pools, when given, are exposed as
// connection gauges labelled by name.
func Init(pools map[string]*pgxpool.Pool) {
	registerOnce.Do(func() {
		recordsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_total",
				Help: "Total processed legacy records by final state",
			},
			[]string{"state"},
		)
		recordLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "record_latency_seconds",
				Help:    "Per-record processing latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"state"},
		)
		runsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total migration runs by trigger and result",
			},
			[]string{"trigger", "result"},
		)
		queueMessagesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "queue_messages_total",
				Help: "Total DMS events sent by the queue populator by result",
			},
			[]string{"result"},
		)
		referenceCodesTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "reference_codes_total",
				Help: "Total triage codes loaded by code type and result",
			},
			[]string{"code_type", "result"},
		)
		seedDocumentsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "seed_documents_total",
				Help: "Total documents exported or restored by operation and entity",
			},
			[]string{"operation", "entity"},
		)

		prometheus.MustRegister(
			recordsTotal,
			recordLatency,
			runsTotal,
			queueMessagesTotal,
			referenceCodesTotal,
			seedDocumentsTotal,
		)

		for name, pool := range pools {
			if pool != nil {
				registerPoolMetrics(name, pool)
			}
		}
	})
}

func registerPoolMetrics(name string, pool *pgxpool.Pool) {
	labels := prometheus.Labels{"pool": name}
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        metricPrefix + "db_acquired_conns",
			Help:        "Connections currently acquired from the pool",
			ConstLabels: labels,
		},
		func() float64 { return float64(pool.Stat().AcquiredConns()) },
	))
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        metricPrefix + "db_total_conns",
			Help:        "Connections currently held by the pool",
			ConstLabels: labels,
		},
		func() float64 { return float64(pool.Stat().TotalConns()) },
	))
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// ObserveRecord records the final state and latency of one record.
func ObserveRecord(state string, duration time.Duration) {
	if state == "" {
		state = "unknown"
	}
	if recordsTotal != nil {
		recordsTotal.WithLabelValues(state).Inc()
	}
	if recordLatency != nil {
		recordLatency.WithLabelValues(state).Observe(duration.Seconds())
	}
}

// IncRun counts a finished migration run.
func IncRun(trigger string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if runsTotal != nil {
		runsTotal.WithLabelValues(trigger, result).Inc()
	}
}

// AddQueueMessages counts sent or failed DMS events.
func AddQueueMessages(ok bool, count int) {
	if count <= 0 {
		return
	}
	result := resultSuccess
	if !ok {
		result = resultError
	}
	if queueMessagesTotal != nil {
		queueMessagesTotal.WithLabelValues(result).Add(float64(count))
	}
}

// IncReferenceCode counts one triage code load.
func IncReferenceCode(codeType string, err error) {
	if codeType == "" {
		codeType = "unknown"
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	if referenceCodesTotal != nil {
		referenceCodesTotal.WithLabelValues(codeType, result).Inc()
	}
}

// AddSeedDocuments counts exported or restored documents.
func AddSeedDocuments(operation, entity string, count int) {
	if count <= 0 {
		return
	}
	if seedDocumentsTotal != nil {
		seedDocumentsTotal.WithLabelValues(operation, entity).Add(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	SeedExport  = "export"
	SeedRestore = "restore"
)
