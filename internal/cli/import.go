package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"options-tracker/internal/broker"
	"options-tracker/internal/engine"
	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/logging"
	"options-tracker/internal/models"
	"options-tracker/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a broker CSV export",
		Long: `Import a brokerage transaction-history CSV export.

The broker format is auto-detected from the header row: tastytrade exports
carry an "Order #" linkage column, Robinhood exports carry the activity
date / trans code / instrument triple. Rows that are not option trades
(transfers, interest, fees, dividends) are filtered; malformed rows are
skipped with a warning and never abort the import.`,
		Example: `  optrack import transactions.csv
  optrack import activity.csv --broker robinhood --account "IRA"
  optrack import transactions.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			path := args[0]
			brokerFlag, _ := cmd.Flags().GetString("broker")
			account, _ := cmd.Flags().GetString("account")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			if account == "" {
				account = app.Config.Import.DefaultAccount
			}
			if brokerFlag == "" {
				brokerFlag = app.Config.Import.DefaultBroker
			}

			batch, err := ingest.ReadFile(path)
			if err != nil {
				output.Error("Failed to read %s: %v", path, err)
				return err
			}

			kind := models.BrokerKind(brokerFlag)
			if brokerFlag == "" {
				kind, err = broker.DetectKind(batch)
				if err != nil {
					output.Error("Could not detect broker format from headers. Use --broker.")
					return err
				}
			}

			loc, err := time.LoadLocation(app.Config.Import.Timezone)
			if err != nil {
				return apperrors.Wrapf(err, "invalid timezone %q", app.Config.Import.Timezone)
			}

			ctx = logging.WithLogger(ctx, logging.WithFile(app.Logger, path))
			result, err := runImport(ctx, batch, kind, broker.Options{Account: account, Location: loc})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"broker":     kind,
					"rows":       len(batch.Records),
					"non_trade":  result.NonTrade,
					"skipped":    result.Skipped,
					"legs":       result.Legs,
					"trades":     len(result.Trades),
					"open":       result.Open,
					"incomplete": result.Incomplete,
					"dry_run":    dryRun,
				})
			}

			output.Bold("Import: %s", path)
			output.Printf("  Broker:       %s\n", kind)
			output.Printf("  Rows:         %d\n", len(batch.Records))
			output.Printf("  Non-trade:    %d\n", result.NonTrade)
			if result.Skipped > 0 {
				output.Warning("  Skipped:      %d (malformed rows, see log)", result.Skipped)
			}
			output.Printf("  Option legs:  %d\n", result.Legs)
			output.Printf("  Trades:       %d\n", len(result.Trades))
			output.Printf("  Still open:   %d\n", result.Open)
			if result.Incomplete > 0 {
				output.Warning("  Incomplete:   %d (missing opens; P/L figures are partial)", result.Incomplete)
			}

			if dryRun {
				output.Dim("Dry run: nothing persisted.")
				return nil
			}

			dataStore, err := app.OpenStore()
			if err != nil {
				output.Error("Failed to open store: %v", err)
				return err
			}
			defer dataStore.Close()

			if err := dataStore.SaveTrades(ctx, result.Trades); err != nil {
				return err
			}
			if err := dataStore.LogImport(ctx, store.ImportRecord{
				File:       path,
				Broker:     kind,
				Rows:       len(batch.Records),
				Skipped:    result.Skipped,
				Trades:     len(result.Trades),
				Incomplete: result.Incomplete,
			}); err != nil {
				return err
			}

			output.Success("Saved %d trades.", len(result.Trades))
			return nil
		},
	}

	cmd.Flags().String("broker", "", "broker format: tastytrade or robinhood (default: auto-detect)")
	cmd.Flags().String("account", "", "account label for imported trades")
	cmd.Flags().Bool("dry-run", false, "reconstruct without persisting")

	return cmd
}

// importResult combines normalization counters with the engine's output.
type importResult struct {
	Trades     []models.Trade
	Legs       int
	Skipped    int
	NonTrade   int
	Open       int
	Incomplete int
}

func runImport(ctx context.Context, batch *ingest.Batch, kind models.BrokerKind, opts broker.Options) (*importResult, error) {
	normalizer, err := broker.ForKind(kind, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	normResult := broker.NormalizeBatch(normalizer, batch, logger)
	engineResult := engine.Reconstruct(normResult.Legs)

	logging.LogImport(logger, string(kind), len(batch.Records), normResult.Skipped, len(engineResult.Trades))

	return &importResult{
		Trades:     engineResult.Trades,
		Legs:       len(normResult.Legs),
		Skipped:    normResult.Skipped,
		NonTrade:   normResult.NonTrade,
		Open:       engineResult.Open,
		Incomplete: engineResult.Incomplete,
	}, nil
}
