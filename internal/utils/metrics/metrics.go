// internal/utils/metrics/metrics.go
package metrics

import (
	"time"
)

// RecordRPC записывает исход и длительность RPC-запроса к ноде
func (c *Collector) RecordRPC(method string, duration time.Duration, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	c.rpcRequests.WithLabelValues(method, status).Inc()
	c.rpcLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordTrade записывает результат отправки trade-транзакции
func (c *Collector) RecordTrade(success bool) {
	if c == nil {
		return
	}
	status := "success"
	if !success {
		status = "failed"
	}
	c.trades.WithLabelValues(status).Inc()
}

// SetBestRate обновляет лучший курс для пары
func (c *Collector) SetBestRate(src, dest string, rate float64) {
	if c == nil {
		return
	}
	c.bestRate.WithLabelValues(src, dest).Set(rate)
}
