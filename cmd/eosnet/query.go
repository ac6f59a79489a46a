// cmd/eosnet/query.go
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/eos-network/internal/app"
	"github.com/rovshanmuradov/eos-network/internal/export"
	"github.com/rovshanmuradov/eos-network/internal/network"
)

func newBalancesCmd(opts *rootOptions) *cobra.Command {
	var symbols, contracts []string

	cmd := &cobra.Command{
		Use:   "balances [reserve-account]",
		Short: "Query a reserve's balances of several tokens",
		Long: `Query the balance of each --symbol issued by the matching --contract.

Example:
  $ eosnet balances reserve1 --symbol EOS --contract eosio.token --symbol USDT --contract tethertether`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				balances, err := r.Service().GetBalances(ctx, args[0], symbols, contracts)
				if err != nil {
					return err
				}
				rows := make([]export.Row, len(balances))
				for i, b := range balances {
					rows[i] = export.Row{Label: symbols[i] + "@" + contracts[i], Value: b}
				}
				return emit(cmd, opts, r, "balances", rows)
			})
		},
	}
	cmd.Flags().StringArrayVar(&symbols, "symbol", nil, "token symbol, repeatable")
	cmd.Flags().StringArrayVar(&contracts, "contract", nil, "token contract, repeatable, parallel to --symbol")
	return cmd
}

func newUserBalanceCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user-balance [account] [symbol] [token-contract]",
		Short: "Query an account's balance of one token",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				balance, err := r.Service().GetUserBalance(ctx, args[0], args[1], args[2])
				if err != nil {
					return err
				}
				return emit(cmd, opts, r, "user-balance", []export.Row{{Label: args[1] + "@" + args[2], Value: balance}})
			})
		},
	}
	return cmd
}

func newEnabledCmd(opts *rootOptions) *cobra.Command {
	var networkAccount string

	cmd := &cobra.Command{
		Use:   "enabled",
		Short: "Report whether the network contract is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				account := networkAccount
				if account == "" {
					account = r.Config().NetworkAccount
				}
				enabled, err := r.Service().GetEnabled(ctx, account)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(enabled))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&networkAccount, "network", "", "network account, defaults to config")
	return cmd
}

func newRateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate [src] [dest] [amount]",
		Short: "Query the best rate for one pair",
		Long: `Query the best rate any listed reserve quotes for converting amount of src to dest.

Example:
  $ eosnet rate EOS USDT 10`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}
			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				rate, err := r.Service().GetRate(ctx, network.RateRequest{
					SrcSymbol:       args[0],
					DestSymbol:      args[1],
					SrcAmount:       amount,
					NetworkAccount:  r.Config().NetworkAccount,
					EOSTokenAccount: r.Config().EOSTokenAccount,
				})
				if err != nil {
					return err
				}
				return emit(cmd, opts, r, "rate", []export.Row{{Label: pairLabel(args[0], args[1]), Value: rate}})
			})
		},
	}
	return cmd
}

func newRatesCmd(opts *rootOptions) *cobra.Command {
	var pairs []string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Query best rates for several pairs",
		Long: `Query best rates for every --pair given as SRC:DEST:AMOUNT.

Example:
  $ eosnet rates --pair EOS:USDT:10 --pair USDT:EOS:25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := network.RatesRequest{}
			for _, p := range pairs {
				src, dest, amount, err := parsePair(p)
				if err != nil {
					return err
				}
				req.SrcSymbols = append(req.SrcSymbols, src)
				req.DestSymbols = append(req.DestSymbols, dest)
				req.SrcAmounts = append(req.SrcAmounts, amount)
			}
			return withRunner(cmd, opts, func(ctx context.Context, r *app.Runner) error {
				req.NetworkAccount = r.Config().NetworkAccount
				req.EOSTokenAccount = r.Config().EOSTokenAccount
				rates, err := r.Service().GetRates(ctx, req)
				if err != nil {
					return err
				}
				rows := make([]export.Row, len(rates))
				for i, rate := range rates {
					rows[i] = export.Row{Label: pairLabel(req.SrcSymbols[i], req.DestSymbols[i]), Value: rate}
				}
				return emit(cmd, opts, r, "rates", rows)
			})
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "pair", nil, "SRC:DEST:AMOUNT, repeatable")
	return cmd
}
