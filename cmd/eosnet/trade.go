// cmd/eosnet/trade.go
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/app"
	"github.com/rovshanmuradov/eos-network/internal/network"
	"github.com/rovshanmuradov/eos-network/internal/types"
)

type tradeFlags struct {
	user             string
	amount           string
	src              string
	dest             string
	srcTokenAccount  string
	destTokenAccount string
	destPrecision    uint8
	minRate          string
}

func newTradeCmd(opts *rootOptions) *cobra.Command {
	f := &tradeFlags{}

	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade by transferring the source token to the network",
		Long: `Transfer --amount of --src from --user to the network account. The memo names the
destination token and the minimal acceptable rate. Without --min-rate the rate is quoted
first and reduced by the configured slippage.

Example:
  $ eosnet trade --user alice --amount 1.0000 --src EOS --src-contract eosio.token \
      --dest USDT --dest-contract tethertether --dest-precision 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(f.amount)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			if !amount.IsPositive() {
				return errors.New("amount must be positive")
			}

			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				accLogger := r.Logger().WithAccount(f.user, r.Config().NetworkAccount)

				if kr := r.Keyring(); kr == nil {
					accLogger.Warn("Trade rejected: keys_file is not configured")
					return errors.New("keys_file is not configured")
				} else if _, ok := kr.Account(f.user); !ok {
					accLogger.Warn("Trade rejected: no key for account")
					return fmt.Errorf("no key for account %s", f.user)
				}

				minRate, err := resolveMinRate(ctx, r, f, amount)
				if err != nil {
					return err
				}

				txID, err := r.Service().Trade(ctx, network.TradeRequest{
					NetworkAccount:    r.Config().NetworkAccount,
					UserAccount:       f.user,
					SrcAmount:         amount,
					SrcTokenAccount:   f.srcTokenAccount,
					DestTokenAccount:  f.destTokenAccount,
					SrcSymbol:         f.src,
					DestPrecision:     f.destPrecision,
					DestSymbol:        f.dest,
					MinConversionRate: minRate,
				})
				if err != nil {
					return err
				}
				accLogger.Info("Trade submitted", zap.String("tx_id", txID), zap.String("min_rate", minRate.String()))
				fmt.Fprintln(cmd.OutOrStdout(), txID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.user, "user", "", "trading account")
	cmd.Flags().StringVar(&f.amount, "amount", "", "source amount, with the token's precision")
	cmd.Flags().StringVar(&f.src, "src", "", "source token symbol")
	cmd.Flags().StringVar(&f.dest, "dest", "", "destination token symbol")
	cmd.Flags().StringVar(&f.srcTokenAccount, "src-contract", "", "source token contract")
	cmd.Flags().StringVar(&f.destTokenAccount, "dest-contract", "", "destination token contract")
	cmd.Flags().Uint8Var(&f.destPrecision, "dest-precision", 4, "destination token precision")
	cmd.Flags().StringVar(&f.minRate, "min-rate", "", "minimal conversion rate; quoted with slippage when empty")
	for _, name := range []string{"user", "amount", "src", "dest", "src-contract", "dest-contract"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func resolveMinRate(ctx context.Context, r *app.Runner, f *tradeFlags, amount decimal.Decimal) (decimal.Decimal, error) {
	if f.minRate != "" {
		rate, err := decimal.NewFromString(f.minRate)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid min-rate: %w", err)
		}
		return rate, nil
	}

	cfg := r.Config()
	quoted, err := r.Service().GetRate(ctx, network.RateRequest{
		SrcSymbol:       f.src,
		DestSymbol:      f.dest,
		SrcAmount:       amount.InexactFloat64(),
		NetworkAccount:  cfg.NetworkAccount,
		EOSTokenAccount: cfg.EOSTokenAccount,
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote rate: %w", err)
	}
	if quoted <= 0 {
		return decimal.Zero, fmt.Errorf("no reserve quotes %s", pairLabel(f.src, f.dest))
	}

	minRate := types.CalculateMinConversionRate(decimal.NewFromFloat(quoted), cfg.Slippage)
	r.Logger().Info("Min conversion rate derived from quote",
		zap.Float64("quoted", quoted),
		zap.String("slippage_type", string(cfg.Slippage.Type)),
		zap.Float64("slippage_value", cfg.Slippage.Value),
		zap.String("min_rate", minRate.String()))
	return minRate, nil
}
