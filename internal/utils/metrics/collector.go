// internal/utils/metrics/collector.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricType представляет тип метрики
type MetricType string

const (
	RPCRequestsType MetricType = "rpc_requests"
	RPCLatencyType  MetricType = "rpc_latency"
	TradesType      MetricType = "trades"
	BestRateType    MetricType = "best_rate"
)

const namespace = "eosnet"

// Collector управляет набором метрик клиента сети.
// A nil *Collector is valid and records nothing.
type Collector struct {
	metrics sync.Map

	rpcRequests *prometheus.CounterVec
	rpcLatency  *prometheus.HistogramVec
	trades      *prometheus.CounterVec
	bestRate    *prometheus.GaugeVec
}

// NewCollector создает коллектор и регистрирует метрики в reg.
// If reg is nil the collector keeps its metrics unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "Total number of chain RPC requests",
			},
			[]string{"method", "status"},
		),
		rpcLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_latency_seconds",
				Help:      "Chain RPC request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method"},
		),
		trades: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trades_total",
				Help:      "Total number of submitted trade transfers",
			},
			[]string{"status"},
		),
		bestRate: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "best_rate",
				Help:      "Best quoted conversion rate per pair",
			},
			[]string{"src", "dest"},
		),
	}
	c.initializeMetrics(reg)
	return c
}

func (c *Collector) initializeMetrics(reg prometheus.Registerer) {
	metricsMap := map[MetricType]prometheus.Collector{
		RPCRequestsType: c.rpcRequests,
		RPCLatencyType:  c.rpcLatency,
		TradesType:      c.trades,
		BestRateType:    c.bestRate,
	}

	for metricType, metric := range metricsMap {
		c.metrics.Store(metricType, metric)
		if reg != nil {
			reg.MustRegister(metric)
		}
	}
}

// Reset сбрасывает все метрики (полезно для тестирования)
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.metrics.Range(func(_, value interface{}) bool {
		switch m := value.(type) {
		case *prometheus.CounterVec:
			m.Reset()
		case *prometheus.GaugeVec:
			m.Reset()
		case *prometheus.HistogramVec:
			m.Reset()
		}
		return true
	})
}
