// cmd/eosnet/root.go
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/eos-network/internal/app"
	"github.com/rovshanmuradov/eos-network/internal/config"
	"github.com/rovshanmuradov/eos-network/internal/export"
)

const defaultConfigPath = "configs/config.yaml"

type rootOptions struct {
	configPath string
	outPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "eosnet",
		Short:         "Query and trade against an EOS AMM network contract",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&opts.outPath, "out", "o", "", "also write results to a .csv or .json file")

	rootCmd.AddCommand(
		newBalancesCmd(opts),
		newUserBalanceCmd(opts),
		newEnabledCmd(opts),
		newRateCmd(opts),
		newRatesCmd(opts),
		newTradeCmd(opts),
		newMonitorCmd(opts),
	)
	return rootCmd
}

// withRunner loads the config, initializes the runner and calls fn under a signal-aware context.
func withRunner(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, r *app.Runner) error) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runner := app.NewRunner(cfg, log)
	defer runner.Shutdown()

	ctx, cancel := app.SignalContext(cmd.Context(), log.Logger)
	defer cancel()

	opLogger := log.WithOperation(cmd.Name())
	opLogger.Debug("Command started", zap.String("config", opts.configPath))

	if err := runner.Initialize(ctx); err != nil {
		log.LogError("Initialization failed", err)
		return err
	}
	done := log.TrackPerformance(cmd.Name())
	defer done()

	if err := fn(ctx, runner); err != nil {
		log.LogError("Command failed", err, zap.String("command", cmd.Name()))
		return err
	}
	return nil
}

// emit prints rows and writes them to --out when set.
func emit(cmd *cobra.Command, opts *rootOptions, r *app.Runner, query string, rows []export.Row) error {
	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", row.Label, strconv.FormatFloat(row.Value, 'f', -1, 64))
	}
	if opts.outPath == "" {
		return nil
	}
	return export.NewResultExporter(r.Logger().Logger).ExportFile(query, rows, opts.outPath)
}

// parsePair parses "SRC:DEST:AMOUNT".
func parsePair(s string) (src, dest string, amount float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, fmt.Errorf("invalid pair %q, want SRC:DEST:AMOUNT", s)
	}
	amount, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid amount in pair %q: %w", s, err)
	}
	return parts[0], parts[1], amount, nil
}

func pairLabel(src, dest string) string {
	return src + "->" + dest
}
