package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"options-tracker/internal/models"
	"options-tracker/internal/store"
)

func newTradesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trades",
		Short: "List reconstructed trades",
		Long:  "List stored trades with optional filters.",
		Example: `  optrack trades
  optrack trades --symbol SPY --limit 20
  optrack trades --strategy "Iron Condor"
  optrack trades --open
  optrack trades --incomplete`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			symbol, _ := cmd.Flags().GetString("symbol")
			strategy, _ := cmd.Flags().GetString("strategy")
			openOnly, _ := cmd.Flags().GetBool("open")
			incompleteOnly, _ := cmd.Flags().GetBool("incomplete")
			limit, _ := cmd.Flags().GetInt("limit")

			filter := store.TradeFilter{
				Symbol:   symbol,
				Strategy: models.Strategy(strategy),
				OpenOnly: openOnly,
				Limit:    limit,
			}
			if incompleteOnly {
				yes := true
				filter.Incomplete = &yes
			}

			dataStore, err := app.OpenStore()
			if err != nil {
				output.Error("Failed to open store: %v", err)
				return err
			}
			defer dataStore.Close()

			trades, err := dataStore.GetTrades(ctx, filter)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades found.")
				return nil
			}

			table := NewTable(output, "Symbol", "Type", "Strike", "Expiry", "Qty", "Strategy", "Entry", "Exit", "Credit", "Debit", "P/L")
			for _, t := range trades {
				pnl := "-"
				if !t.IsOpen() {
					pnl = output.FormatPnL(t.NetPnL())
				}
				symbolCell := t.Symbol
				if t.Incomplete {
					symbolCell = output.Yellow(t.Symbol + " *")
				}
				table.AddRow(
					symbolCell,
					string(t.OptionType),
					FormatStrike(t.Strike),
					FormatDate(t.Expiry),
					fmt.Sprintf("%d", t.Volume),
					TruncateString(string(t.Strategy), 18),
					FormatDate(t.EntryDate),
					FormatOptionalDate(t.ExitDate),
					FormatUSD(t.Credit),
					FormatUSD(t.Debit),
					pnl,
				)
			}
			table.Render()

			output.Println()
			output.Dim("%d trades. * = incomplete (opening leg missing from the export).", len(trades))
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by underlying symbol")
	cmd.Flags().String("strategy", "", "filter by strategy name")
	cmd.Flags().Bool("open", false, "only positions still open")
	cmd.Flags().Bool("incomplete", false, "only incomplete trades")
	cmd.Flags().Int("limit", 50, "maximum trades to list")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show import history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			dataStore, err := app.OpenStore()
			if err != nil {
				output.Error("Failed to open store: %v", err)
				return err
			}
			defer dataStore.Close()

			imports, err := dataStore.GetImports(ctx, 20)
			if err != nil {
				output.Error("Failed to fetch import history: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(imports)
			}

			if len(imports) == 0 {
				output.Info("No imports recorded.")
				return nil
			}

			table := NewTable(output, "When", "File", "Broker", "Rows", "Skipped", "Trades", "Incomplete")
			for _, r := range imports {
				table.AddRow(
					r.ImportedAt.Format("2006-01-02 15:04"),
					TruncateString(r.File, 40),
					string(r.Broker),
					fmt.Sprintf("%d", r.Rows),
					fmt.Sprintf("%d", r.Skipped),
					fmt.Sprintf("%d", r.Trades),
					fmt.Sprintf("%d", r.Incomplete),
				)
			}
			table.Render()
			return nil
		},
	}
}
