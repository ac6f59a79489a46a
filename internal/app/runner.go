// internal/app/runner.go
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/blockchain/eosbc"
	"github.com/rovshanmuradov/eos-network/internal/config"
	"github.com/rovshanmuradov/eos-network/internal/monitor"
	"github.com/rovshanmuradov/eos-network/internal/network"
	"github.com/rovshanmuradov/eos-network/internal/reserve"
	"github.com/rovshanmuradov/eos-network/internal/utils/logger"
	"github.com/rovshanmuradov/eos-network/internal/utils/metrics"
	"github.com/rovshanmuradov/eos-network/internal/wallet"
)

const startupRetryInterval = 500 * time.Millisecond

// Runner собирает зависимости сервиса сети из конфигурации.
type Runner struct {
	cfg      *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	client   *eosbc.Client
	keyring  *wallet.Keyring
	service  *network.Service
}

// NewRunner: принимает cfg и logger
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	registry := prometheus.NewRegistry()
	mc := metrics.NewCollector(registry)
	return &Runner{
		cfg:      cfg,
		logger:   log,
		registry: registry,
		metrics:  mc,
		client:   eosbc.NewClient(cfg.NodeURL, cfg.RequestTimeout(), log.WithComponent("eosbc"), mc),
	}
}

// NewLogger builds the application logger from cfg.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Development = cfg.DebugLogging
	return logger.New(logCfg)
}

// Initialize waits for the node, loads signing keys and builds the network service.
func (r *Runner) Initialize(ctx context.Context) error {
	if _, err := r.client.WaitReady(ctx, uint(r.cfg.StartupRetries), startupRetryInterval); err != nil {
		return fmt.Errorf("node %s not ready: %w", r.cfg.NodeURL, err)
	}

	if r.cfg.KeysFile != "" {
		keyring, err := wallet.LoadKeyring(r.cfg.KeysFile, r.logger.Named("wallet"))
		if err != nil {
			return fmt.Errorf("load keys: %w", err)
		}
		if err := r.client.UseKeys(ctx, keyring.PrivateKeys()); err != nil {
			return fmt.Errorf("use keys: %w", err)
		}
		r.keyring = keyring
		r.logger.Info("Signing keys loaded", zap.Int("accounts", len(keyring.PrivateKeys())))
	}

	quoter, err := r.newQuoter()
	if err != nil {
		return err
	}

	r.service = network.NewService(r.client, quoter, r.logger.Logger, r.metrics,
		network.Options{Concurrency: r.cfg.Concurrency})
	return nil
}

func (r *Runner) newQuoter() (network.RateQuoter, error) {
	switch r.cfg.Quoter.Mode {
	case config.QuoterStored:
		return reserve.NewStoredQuoter(r.client, r.logger.Logger), nil
	case config.QuoterHTTP:
		return reserve.NewHTTPQuoter(r.cfg.Quoter.URL, r.cfg.QuoterTimeout(), r.logger.Logger), nil
	default:
		return nil, fmt.Errorf("unknown quoter mode %q", r.cfg.Quoter.Mode)
	}
}

// Service returns the network service; nil before Initialize.
func (r *Runner) Service() *network.Service {
	return r.service
}

// Config returns the loaded configuration.
func (r *Runner) Config() *config.Config {
	return r.cfg
}

// Logger returns the application logger.
func (r *Runner) Logger() *logger.Logger {
	return r.logger
}

// Registry returns the Prometheus registry all collectors are registered in.
func (r *Runner) Registry() *prometheus.Registry {
	return r.registry
}

// Keyring returns the loaded keys, or nil when no keys file is configured.
func (r *Runner) Keyring() *wallet.Keyring {
	return r.keyring
}

// NewRateMonitor builds a rate monitor over the configured pairs.
func (r *Runner) NewRateMonitor() (*monitor.RateMonitor, error) {
	if r.service == nil {
		return nil, fmt.Errorf("runner is not initialized")
	}
	pairs := make([]monitor.Pair, 0, len(r.cfg.Monitor.Pairs))
	for _, p := range r.cfg.Monitor.Pairs {
		pairs = append(pairs, monitor.Pair{Src: p.Src, Dest: p.Dest, Amount: p.Amount})
	}
	return monitor.NewRateMonitor(monitor.RateMonitorConfig{
		Source:          r.service,
		Pairs:           pairs,
		NetworkAccount:  r.cfg.NetworkAccount,
		EOSTokenAccount: r.cfg.EOSTokenAccount,
		Interval:        r.cfg.MonitorInterval(),
		Metrics:         r.metrics,
		Logger:          r.logger.Logger,
	})
}

// Shutdown flushes the logger.
func (r *Runner) Shutdown() {
	r.logger.Debug("Shutting down")
	if err := r.logger.Sync(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to sync logger during shutdown: %v\n", err)
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context, log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(shutdownCh)
		select {
		case sig := <-shutdownCh:
			log.Info("Signal received", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
