package cli

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"options-tracker/internal/models"
	"options-tracker/internal/store"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Performance report over closed trades",
		Long: `Aggregate P/L, win rate, and per-strategy / per-symbol breakdowns
computed over stored closed trades. Incomplete trades (missing opens) are
excluded from P/L figures and reported separately.`,
		Example: `  optrack report
  optrack report --period monthly
  optrack report --symbol SPY`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			period, _ := cmd.Flags().GetString("period")
			symbol, _ := cmd.Flags().GetString("symbol")

			filter := store.TradeFilter{Symbol: symbol, ClosedOnly: true}
			now := time.Now()
			switch period {
			case "weekly":
				filter.StartDate = now.AddDate(0, 0, -7)
			case "monthly":
				filter.StartDate = now.AddDate(0, -1, 0)
			case "yearly":
				filter.StartDate = now.AddDate(-1, 0, 0)
			case "all", "":
			default:
				output.Warning("Unknown period %q, using all.", period)
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
			if len(trades) == 0 {
				output.Info("No closed trades found for this period.")
				return nil
			}

			summary := summarize(trades)

			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Performance Report")
			if !filter.StartDate.IsZero() {
				output.Printf("  %s to %s\n", FormatDate(filter.StartDate), FormatDate(now))
			}
			output.Println()

			output.Bold("Summary")
			output.Printf("  Closed Trades:  %d\n", summary.Closed)
			output.Printf("  Wins/Losses:    %d/%d (%s win rate)\n", summary.Wins, summary.Losses, FormatPercent(summary.WinRate))
			output.Printf("  Net P/L:        %s\n", output.FormatPnL(summary.NetPnL))
			output.Printf("  Total Credit:   %s\n", FormatUSD(summary.Credit))
			output.Printf("  Total Debit:    %s\n", FormatUSD(summary.Debit))
			if summary.Incomplete > 0 {
				output.Warning("  Excluded:       %d incomplete trades (partial economics)", summary.Incomplete)
			}
			output.Println()

			output.Bold("By Strategy")
			for _, row := range summary.ByStrategy {
				output.Printf("  %-20s %3d trades  %s\n", row.Name, row.Trades, output.FormatPnL(row.PnL))
			}
			output.Println()

			output.Bold("By Symbol")
			for _, row := range summary.BySymbol {
				output.Printf("  %-10s %3d trades  %s\n", row.Name, row.Trades, output.FormatPnL(row.PnL))
			}

			return nil
		},
	}

	cmd.Flags().String("period", "all", "report period (weekly, monthly, yearly, all)")
	cmd.Flags().String("symbol", "", "filter by underlying symbol")

	return cmd
}

// reportSummary aggregates closed-trade economics for the report command.
type reportSummary struct {
	Closed     int             `json:"closed"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	WinRate    float64         `json:"win_rate"`
	NetPnL     decimal.Decimal `json:"net_pnl"`
	Credit     decimal.Decimal `json:"credit"`
	Debit      decimal.Decimal `json:"debit"`
	Incomplete int             `json:"incomplete"`
	ByStrategy []breakdownRow  `json:"by_strategy"`
	BySymbol   []breakdownRow  `json:"by_symbol"`
}

type breakdownRow struct {
	Name   string          `json:"name"`
	Trades int             `json:"trades"`
	PnL    decimal.Decimal `json:"pnl"`
}

func summarize(trades []models.Trade) reportSummary {
	summary := reportSummary{
		NetPnL: decimal.Zero,
		Credit: decimal.Zero,
		Debit:  decimal.Zero,
	}

	byStrategy := make(map[string]*breakdownRow)
	bySymbol := make(map[string]*breakdownRow)

	for _, t := range trades {
		if t.Incomplete {
			summary.Incomplete++
			continue
		}
		summary.Closed++
		pnl := t.NetPnL()
		summary.NetPnL = summary.NetPnL.Add(pnl)
		summary.Credit = summary.Credit.Add(t.Credit)
		summary.Debit = summary.Debit.Add(t.Debit)
		if pnl.IsPositive() {
			summary.Wins++
		} else {
			summary.Losses++
		}

		addBreakdown(byStrategy, string(t.Strategy), pnl)
		addBreakdown(bySymbol, t.Symbol, pnl)
	}

	if summary.Closed > 0 {
		summary.WinRate = float64(summary.Wins) / float64(summary.Closed) * 100
	}
	summary.ByStrategy = sortedRows(byStrategy)
	summary.BySymbol = sortedRows(bySymbol)
	return summary
}

func addBreakdown(m map[string]*breakdownRow, name string, pnl decimal.Decimal) {
	row, ok := m[name]
	if !ok {
		row = &breakdownRow{Name: name, PnL: decimal.Zero}
		m[name] = row
	}
	row.Trades++
	row.PnL = row.PnL.Add(pnl)
}

func sortedRows(m map[string]*breakdownRow) []breakdownRow {
	rows := make([]breakdownRow, 0, len(m))
	for _, r := range m {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PnL.GreaterThan(rows[j].PnL)
	})
	return rows
}
