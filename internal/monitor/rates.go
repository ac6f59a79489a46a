// internal/monitor/rates.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/network"
	"github.com/rovshanmuradov/eos-network/internal/utils/metrics"
)

// RateSource is the part of network.Service the monitor polls.
type RateSource interface {
	GetRates(ctx context.Context, req network.RatesRequest) ([]float64, error)
}

// Pair is a watched conversion.
type Pair struct {
	Src    string
	Dest   string
	Amount float64
}

// RateUpdate reports a pair whose best rate moved since the previous poll.
type RateUpdate struct {
	Pair     Pair
	Rate     float64
	Previous float64
	At       time.Time
}

// RateMonitorConfig configures RateMonitor.
type RateMonitorConfig struct {
	Source          RateSource
	Pairs           []Pair
	NetworkAccount  string
	EOSTokenAccount string
	Interval        time.Duration
	Metrics         *metrics.Collector
	Logger          *zap.Logger
	// OnUpdate, if set, receives every rate change.
	OnUpdate func(RateUpdate)
}

// RateMonitor periodically polls best rates for a fixed set of pairs.
type RateMonitor struct {
	cfg    RateMonitorConfig
	logger *zap.Logger

	mu       sync.RWMutex
	last     []float64
	seen     bool
	polls    uint64
	failures uint64
}

// NewRateMonitor creates a monitor; it does not start polling.
func NewRateMonitor(cfg RateMonitorConfig) (*RateMonitor, error) {
	if cfg.Source == nil {
		return nil, errors.New("rate source cannot be nil")
	}
	if len(cfg.Pairs) == 0 {
		return nil, errors.New("no pairs to monitor")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("invalid interval %s", cfg.Interval)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateMonitor{
		cfg:    cfg,
		logger: logger.Named("rate-monitor"),
		last:   make([]float64, len(cfg.Pairs)),
	}, nil
}

// Run polls immediately and then every interval until ctx is cancelled.
// Poll failures are logged and do not stop the loop.
func (m *RateMonitor) Run(ctx context.Context) error {
	m.logger.Info("Rate monitor started",
		zap.Int("pairs", len(m.cfg.Pairs)),
		zap.Duration("interval", m.cfg.Interval))

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		if _, err := m.Poll(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("Rate poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			m.logger.Info("Rate monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Poll fetches all rates once, publishes them and returns the pairs that changed.
// On the first poll every pair counts as changed.
func (m *RateMonitor) Poll(ctx context.Context) ([]RateUpdate, error) {
	req := network.RatesRequest{
		SrcSymbols:      make([]string, len(m.cfg.Pairs)),
		DestSymbols:     make([]string, len(m.cfg.Pairs)),
		SrcAmounts:      make([]float64, len(m.cfg.Pairs)),
		NetworkAccount:  m.cfg.NetworkAccount,
		EOSTokenAccount: m.cfg.EOSTokenAccount,
	}
	for i, p := range m.cfg.Pairs {
		req.SrcSymbols[i] = p.Src
		req.DestSymbols[i] = p.Dest
		req.SrcAmounts[i] = p.Amount
	}

	rates, err := m.cfg.Source.GetRates(ctx, req)
	if err == nil && len(rates) != len(m.cfg.Pairs) {
		err = fmt.Errorf("got %d rates for %d pairs", len(rates), len(m.cfg.Pairs))
	}

	m.mu.Lock()
	m.polls++
	if err != nil {
		m.failures++
		m.mu.Unlock()
		return nil, err
	}

	now := time.Now()
	var updates []RateUpdate
	for i, rate := range rates {
		if m.seen && rate == m.last[i] {
			continue
		}
		updates = append(updates, RateUpdate{
			Pair:     m.cfg.Pairs[i],
			Rate:     rate,
			Previous: m.last[i],
			At:       now,
		})
		m.last[i] = rate
	}
	m.seen = true
	m.mu.Unlock()

	for i, rate := range rates {
		m.cfg.Metrics.SetBestRate(m.cfg.Pairs[i].Src, m.cfg.Pairs[i].Dest, rate)
	}
	for _, u := range updates {
		m.logger.Info("Rate changed",
			zap.String("src", u.Pair.Src),
			zap.String("dest", u.Pair.Dest),
			zap.Float64("amount", u.Pair.Amount),
			zap.Float64("previous", u.Previous),
			zap.Float64("rate", u.Rate))
		if m.cfg.OnUpdate != nil {
			m.cfg.OnUpdate(u)
		}
	}
	return updates, nil
}

// GetStats returns how many polls ran and how many of them failed.
func (m *RateMonitor) GetStats() (polls, failures uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.polls, m.failures
}

// LastRates returns the most recent rate per pair, in configuration order.
func (m *RateMonitor) LastRates() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]float64, len(m.last))
	copy(out, m.last)
	return out
}
