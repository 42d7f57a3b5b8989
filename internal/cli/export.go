package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"options-tracker/internal/models"
	"options-tracker/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export stored trades to CSV or JSON",
		Example: `  optrack export trades.csv
  optrack export trades.json --format json
  optrack export open.csv --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			path := args[0]
			format, _ := cmd.Flags().GetString("format")
			openOnly, _ := cmd.Flags().GetBool("open")

			dataStore, err := app.OpenStore()
			if err != nil {
				output.Error("Failed to open store: %v", err)
				return err
			}
			defer dataStore.Close()

			trades, err := dataStore.GetTrades(ctx, store.TradeFilter{OpenOnly: openOnly})
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}
			if len(trades) == 0 {
				output.Info("No trades to export.")
				return nil
			}

			switch format {
			case "csv":
				err = writeTradesCSV(path, trades)
			case "json":
				err = writeTradesJSON(path, trades)
			default:
				return fmt.Errorf("unknown format %q (csv or json)", format)
			}
			if err != nil {
				output.Error("Export failed: %v", err)
				return err
			}

			output.Success("Exported %d trades to %s", len(trades), path)
			return nil
		},
	}

	cmd.Flags().String("format", "csv", "output format (csv, json)")
	cmd.Flags().Bool("open", false, "only positions still open")

	return cmd
}

func writeTradesCSV(path string, trades []models.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"symbol", "option_type", "strategy", "strike", "expiry", "volume", "entry_date", "exit_date", "credit", "debit", "account", "incomplete"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, t := range trades {
		exit := ""
		if t.ExitDate != nil {
			exit = FormatDate(*t.ExitDate)
		}
		row := []string{
			t.Symbol,
			string(t.OptionType),
			string(t.Strategy),
			t.Strike.String(),
			FormatDate(t.Expiry),
			fmt.Sprintf("%d", t.Volume),
			FormatDate(t.EntryDate),
			exit,
			t.Credit.String(),
			t.Debit.String(),
			t.Account,
			fmt.Sprintf("%v", t.Incomplete),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

func writeTradesJSON(path string, trades []models.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(trades)
}
