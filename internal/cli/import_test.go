package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"options-tracker/internal/broker"
	"options-tracker/internal/ingest"
	"options-tracker/internal/logging"
	"options-tracker/internal/models"
)

func TestRunImport(t *testing.T) {
	batch := &ingest.Batch{
		Records: []ingest.Record{
			{"Activity Date": "7/1/2024", "Instrument": "AAPL", "Description": "AAPL 9/20/2024 Call $190.00", "Trans Code": "BTO", "Quantity": "2", "Amount": "($200.00)"},
			{"Activity Date": "7/5/2024", "Instrument": "AAPL", "Description": "AAPL 9/20/2024 Call $190.00", "Trans Code": "STC", "Quantity": "1", "Amount": "$130.00"},
			{"Activity Date": "7/8/2024", "Instrument": "", "Description": "ACH Deposit", "Trans Code": "ACH", "Quantity": "", "Amount": "$500.00"},
		},
	}

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(),
		logging.WithFile(zerolog.New(&buf), "activity.csv"))

	result, err := runImport(ctx, batch, models.BrokerRobinhood, broker.Options{Account: "ira"})
	if err != nil {
		t.Fatalf("runImport: %v", err)
	}

	if result.Legs != 2 || result.NonTrade != 1 || result.Skipped != 0 {
		t.Errorf("legs/nontrade/skipped = %d/%d/%d, want 2/1/0", result.Legs, result.NonTrade, result.Skipped)
	}
	if len(result.Trades) != 2 || result.Open != 1 {
		t.Fatalf("trades/open = %d/%d, want 2/1", len(result.Trades), result.Open)
	}

	var closed models.Trade
	for _, tr := range result.Trades {
		if !tr.IsOpen() {
			closed = tr
		}
	}
	if !closed.Debit.Equal(decimal.RequireFromString("100")) || !closed.Credit.Equal(decimal.RequireFromString("130")) {
		t.Errorf("closed debit/credit = %s/%s, want 100/130", closed.Debit, closed.Credit)
	}

	// The import event goes through the context logger, carrying the file field.
	out := buf.String()
	if !strings.Contains(out, `"file":"activity.csv"`) {
		t.Errorf("log output missing file field: %q", out)
	}
	if !strings.Contains(out, "Import completed") {
		t.Errorf("log output missing import event: %q", out)
	}
}

func TestRunImport_UnknownBroker(t *testing.T) {
	_, err := runImport(context.Background(), &ingest.Batch{}, "etrade", broker.Options{})
	if err == nil {
		t.Fatal("want error for unknown broker kind")
	}
}
