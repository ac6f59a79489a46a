// internal/network/service.go
package network

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rovshanmuradov/eos-network/internal/blockchain"
	"github.com/rovshanmuradov/eos-network/internal/utils/metrics"
)

const (
	stateTable    = "state"
	reservesTable = "reservespert"

	// reservesTableLimit lifts the node's default page size of 10 rows.
	reservesTableLimit = 1000

	DefaultConcurrency = 8
)

// RateQuery is what a reserve is asked to quote.
type RateQuery struct {
	ReserveAccount  string
	EOSTokenAccount string
	SrcSymbol       string
	DestSymbol      string
	SrcAmount       float64
}

// RateQuoter returns a single reserve's conversion rate.
type RateQuoter interface {
	GetRate(ctx context.Context, query RateQuery) (float64, error)
}

// Options tunes the service.
type Options struct {
	// Concurrency bounds in-flight chain and quoter calls per operation. Defaults to DefaultConcurrency.
	Concurrency int
}

// Service queries the AMM network contract and submits trades to it.
// It keeps no state between calls.
type Service struct {
	client      blockchain.Client
	quoter      RateQuoter
	logger      *zap.Logger
	metrics     *metrics.Collector
	concurrency int
}

// NewService создаёт сервис сети поверх клиента блокчейна и котировщика резервов.
func NewService(client blockchain.Client, quoter RateQuoter, logger *zap.Logger, mc *metrics.Collector, opts Options) *Service {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		client:      client,
		quoter:      quoter,
		logger:      logger.Named("network"),
		metrics:     mc,
		concurrency: concurrency,
	}
}

// GetBalances returns reserveAccount's balance of each tokenSymbols[i] issued by
// tokenContracts[i], in input order.
func (s *Service) GetBalances(ctx context.Context, reserveAccount string, tokenSymbols, tokenContracts []string) ([]float64, error) {
	if len(tokenSymbols) != len(tokenContracts) {
		return nil, fmt.Errorf("%w: %d symbols, %d contracts", ErrLengthMismatch, len(tokenSymbols), len(tokenContracts))
	}

	balances := make([]float64, len(tokenSymbols))
	err := s.fanOut(ctx, len(tokenSymbols), s.concurrency, func(ctx context.Context, i int) error {
		balance, err := s.balance(ctx, reserveAccount, tokenSymbols[i], tokenContracts[i])
		if err != nil {
			return err
		}
		balances[i] = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balances, nil
}

// GetUserBalance returns account's balance of symbol issued by tokenContract.
func (s *Service) GetUserBalance(ctx context.Context, account, symbol, tokenContract string) (float64, error) {
	return s.balance(ctx, account, symbol, tokenContract)
}

func (s *Service) balance(ctx context.Context, account, symbol, tokenContract string) (float64, error) {
	res, err := s.client.GetCurrencyBalance(ctx, tokenContract, account, symbol)
	if err != nil {
		return 0, fmt.Errorf("get %s balance of %s at %s: %w", symbol, account, tokenContract, err)
	}
	if len(res) == 0 {
		s.logger.Debug("No balance row",
			zap.String("account", account),
			zap.String("symbol", symbol),
			zap.String("contract", tokenContract))
		return 0, nil
	}
	return parseBalance(res[0])
}

// GetEnabled reports the is_enabled flag of the network's state row.
func (s *Service) GetEnabled(ctx context.Context, networkAccount string) (bool, error) {
	var rows []stateRow
	err := s.client.GetTableRows(ctx, blockchain.TableQuery{
		Code:  networkAccount,
		Scope: networkAccount,
		Table: stateTable,
	}, &rows)
	if err != nil {
		return false, fmt.Errorf("read %s state: %w", networkAccount, err)
	}
	if len(rows) == 0 {
		return false, fmt.Errorf("%w: %s", ErrNetworkNotInitialized, networkAccount)
	}
	return bool(rows[0].IsEnabled), nil
}

func (s *Service) reserveRows(ctx context.Context, networkAccount string) ([]reserveRow, error) {
	var rows []reserveRow
	err := s.client.GetTableRows(ctx, blockchain.TableQuery{
		Code:  networkAccount,
		Scope: networkAccount,
		Table: reservesTable,
		Limit: reservesTableLimit,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("read %s reserves: %w", networkAccount, err)
	}
	return rows, nil
}

// fanOut runs fn for every index with at most limit calls in flight; limit <= 0
// means unbounded. The first error cancels the rest and is returned.
func (s *Service) fanOut(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// newLimiter returns the semaphore shared by every quoter call of one operation,
// so nested fan-outs never exceed s.concurrency calls in flight.
func (s *Service) newLimiter() *semaphore.Weighted {
	return semaphore.NewWeighted(int64(s.concurrency))
}
