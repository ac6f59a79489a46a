// internal/network/rates.go
package network

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// RateRequest asks for the best rate of one pair.
type RateRequest struct {
	SrcSymbol       string
	DestSymbol      string
	SrcAmount       float64
	NetworkAccount  string
	EOSTokenAccount string
}

// RatesRequest holds parallel slices; element i describes pair i.
type RatesRequest struct {
	SrcSymbols      []string
	DestSymbols     []string
	SrcAmounts      []float64
	NetworkAccount  string
	EOSTokenAccount string
}

// GetRate returns the best rate any reserve listed for the pair's token quotes,
// or 0 when the token is unlisted or nobody quotes a positive rate.
func (s *Service) GetRate(ctx context.Context, req RateRequest) (float64, error) {
	rows, err := s.reserveRows(ctx, req.NetworkAccount)
	if err != nil {
		return 0, err
	}
	return s.bestRate(ctx, rows, req, s.newLimiter())
}

// GetRates returns GetRate for every element of the parallel slices, in input order.
// The reserves table is read once for the whole batch.
func (s *Service) GetRates(ctx context.Context, req RatesRequest) ([]float64, error) {
	n := len(req.SrcSymbols)
	if len(req.DestSymbols) != n || len(req.SrcAmounts) != n {
		return nil, fmt.Errorf("%w: %d src, %d dest, %d amounts",
			ErrLengthMismatch, n, len(req.DestSymbols), len(req.SrcAmounts))
	}

	rows, err := s.reserveRows(ctx, req.NetworkAccount)
	if err != nil {
		return nil, err
	}

	// TODO: apply a slippage rate per element once product decides how it should combine with the quote.
	// Elements only wait on quotes; the shared limiter bounds the quoter calls.
	limiter := s.newLimiter()
	rates := make([]float64, n)
	err = s.fanOut(ctx, n, 0, func(ctx context.Context, i int) error {
		rate, err := s.bestRate(ctx, rows, RateRequest{
			SrcSymbol:       req.SrcSymbols[i],
			DestSymbol:      req.DestSymbols[i],
			SrcAmount:       req.SrcAmounts[i],
			NetworkAccount:  req.NetworkAccount,
			EOSTokenAccount: req.EOSTokenAccount,
		}, limiter)
		if err != nil {
			return err
		}
		rates[i] = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *Service) bestRate(ctx context.Context, rows []reserveRow, req RateRequest, limiter *semaphore.Weighted) (float64, error) {
	token := TargetToken(req.SrcSymbol, req.DestSymbol)
	row, ok := firstMatchingRow(rows, token)
	if !ok {
		s.logger.Debug("Token not listed", zap.String("token", token))
		return 0, nil
	}

	reserves := row.reserves()
	quotes := make([]float64, len(reserves))
	err := s.fanOut(ctx, len(reserves), 0, func(ctx context.Context, i int) error {
		if err := limiter.Acquire(ctx, 1); err != nil {
			return err
		}
		defer limiter.Release(1)

		rate, err := s.quoter.GetRate(ctx, RateQuery{
			ReserveAccount:  reserves[i],
			EOSTokenAccount: req.EOSTokenAccount,
			SrcSymbol:       req.SrcSymbol,
			DestSymbol:      req.DestSymbol,
			SrcAmount:       req.SrcAmount,
		})
		if err != nil {
			return fmt.Errorf("quote from reserve %s: %w", reserves[i], err)
		}
		quotes[i] = rate
		return nil
	})
	if err != nil {
		return 0, err
	}

	// Folded in table order; an equal later quote never replaces the earlier one.
	best := 0.0
	for _, q := range quotes {
		if q > best {
			best = q
		}
	}

	s.logger.Debug("Best rate",
		zap.String("src", req.SrcSymbol),
		zap.String("dest", req.DestSymbol),
		zap.Float64("amount", req.SrcAmount),
		zap.Int("reserves", len(reserves)),
		zap.Float64("rate", best))
	return best, nil
}
