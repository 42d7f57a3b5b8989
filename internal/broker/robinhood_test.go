package broker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/models"
)

func rhRecord(overrides map[string]string) ingest.Record {
	rec := ingest.Record{
		"Activity Date": "6/3/2024",
		"Instrument":    "SPY",
		"Description":   "SPY 6/21/2024 Call $550.00",
		"Trans Code":    "BTO",
		"Quantity":      "1",
		"Amount":        "($435.00)",
	}
	for k, v := range overrides {
		rec[k] = v
	}
	return rec
}

func newRobinhood(t *testing.T) Normalizer {
	t.Helper()
	n, err := ForKind(models.BrokerRobinhood, Options{Account: "rh-main"})
	if err != nil {
		t.Fatalf("ForKind: %v", err)
	}
	return n
}

func TestRobinhood_NormalizeTrade(t *testing.T) {
	leg, err := newRobinhood(t).Normalize(rhRecord(nil))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if leg.Underlying != "SPY" {
		t.Errorf("underlying = %q, want SPY", leg.Underlying)
	}
	if leg.OptionType != models.OptionCall {
		t.Errorf("option type = %v, want call", leg.OptionType)
	}
	if !leg.Strike.Equal(decimal.NewFromInt(550)) {
		t.Errorf("strike = %s, want 550", leg.Strike)
	}
	wantExpiry := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	if !leg.Expiry.Equal(wantExpiry) {
		t.Errorf("expiry = %s, want %s", leg.Expiry, wantExpiry)
	}
	if leg.Direction != models.DirectionOpen || leg.Side != models.OrderSideBuy {
		t.Errorf("direction/side = %v/%v, want open/buy", leg.Direction, leg.Side)
	}
	// Parenthesized amounts are negative.
	if !leg.Amount.Equal(decimal.RequireFromString("-435")) {
		t.Errorf("amount = %s, want -435", leg.Amount)
	}
	if leg.OrderKey != "" {
		t.Errorf("order key = %q, want empty: the export carries no linkage", leg.OrderKey)
	}
	if leg.Account != "rh-main" {
		t.Errorf("account = %q, want rh-main", leg.Account)
	}
}

func TestRobinhood_TransCodes(t *testing.T) {
	tests := []struct {
		code      string
		direction models.Direction
		side      models.OrderSide
	}{
		{"BTO", models.DirectionOpen, models.OrderSideBuy},
		{"STO", models.DirectionOpen, models.OrderSideSell},
		{"BTC", models.DirectionClose, models.OrderSideBuy},
		{"STC", models.DirectionClose, models.OrderSideSell},
	}

	n := newRobinhood(t)
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			leg, err := n.Normalize(rhRecord(map[string]string{"Trans Code": tt.code, "Amount": "$120.00"}))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if leg.Direction != tt.direction || leg.Side != tt.side {
				t.Errorf("got %v/%v, want %v/%v", leg.Direction, leg.Side, tt.direction, tt.side)
			}
		})
	}
}

func TestRobinhood_Expiration(t *testing.T) {
	rec := rhRecord(map[string]string{
		"Trans Code":  "OEXP",
		"Description": "Option Expiration for SPY 6/21/2024 Put $540.00",
		"Amount":      "",
	})

	leg, err := newRobinhood(t).Normalize(rec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !leg.Expiration {
		t.Error("OEXP row not flagged as expiration")
	}
	if leg.Direction != models.DirectionClose {
		t.Errorf("direction = %v, want close", leg.Direction)
	}
	if !leg.Amount.IsZero() {
		t.Errorf("amount = %s, want 0", leg.Amount)
	}
	// The contract description is embedded mid-field on expiration rows.
	if leg.Underlying != "SPY" || leg.OptionType != models.OptionPut || !leg.Strike.Equal(decimal.NewFromInt(540)) {
		t.Errorf("contract = %s %v %s, want SPY put 540", leg.Underlying, leg.OptionType, leg.Strike)
	}
}

func TestRobinhood_NonTradeRows(t *testing.T) {
	tests := []struct {
		name string
		rec  ingest.Record
	}{
		{"ach deposit", rhRecord(map[string]string{"Trans Code": "ACH", "Description": "ACH Deposit", "Instrument": ""})},
		{"dividend", rhRecord(map[string]string{"Trans Code": "CDIV", "Description": "Cash Div: R/D 2024-05-15"})},
		{"interest", rhRecord(map[string]string{"Trans Code": "INT", "Description": "Gold interest"})},
		{"stock buy", rhRecord(map[string]string{"Trans Code": "Buy", "Description": "SPY"})},
		{"gold fee", rhRecord(map[string]string{"Trans Code": "GOLD", "Description": "Gold subscription"})},
	}

	n := newRobinhood(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.rec)
			if !apperrors.Is(err, apperrors.ErrNotOptionTrade) {
				t.Errorf("got %v, want ErrNotOptionTrade", err)
			}
		})
	}
}

func TestRobinhood_MalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		rec   ingest.Record
		field string
	}{
		{"bad description", rhRecord(map[string]string{"Description": "not a contract"}), "Description"},
		{"bad date", rhRecord(map[string]string{"Activity Date": "someday"}), "Activity Date"},
		{"empty quantity", rhRecord(map[string]string{"Quantity": ""}), "Quantity"},
		{"bad amount", rhRecord(map[string]string{"Amount": "??"}), "Amount"},
	}

	n := newRobinhood(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.rec)
			if err == nil {
				t.Fatal("want error, got nil")
			}
			var parseErr *apperrors.ParseError
			if !apperrors.As(err, &parseErr) {
				t.Fatalf("got %T, want *ParseError", err)
			}
			if parseErr.Field != tt.field {
				t.Errorf("field = %q, want %q", parseErr.Field, tt.field)
			}
		})
	}
}

func TestParseOptionDescription(t *testing.T) {
	tests := []struct {
		desc       string
		underlying string
		optionType models.OptionType
		strike     string
		expiry     string
	}{
		{"SPY 6/21/2024 Call $550.00", "SPY", models.OptionCall, "550", "2024-06-21"},
		{"BRK.B 12/20/2024 Put $400", "BRK.B", models.OptionPut, "400", "2024-12-20"},
		{"TSLA 1/17/2025 Put $1,050.50", "TSLA", models.OptionPut, "1050.5", "2025-01-17"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			underlying, optionType, strike, expiry, err := parseOptionDescription(tt.desc)
			if err != nil {
				t.Fatalf("parseOptionDescription: %v", err)
			}
			if underlying != tt.underlying || optionType != tt.optionType {
				t.Errorf("contract = %s %v, want %s %v", underlying, optionType, tt.underlying, tt.optionType)
			}
			if !strike.Equal(decimal.RequireFromString(tt.strike)) {
				t.Errorf("strike = %s, want %s", strike, tt.strike)
			}
			if expiry.Format("2006-01-02") != tt.expiry {
				t.Errorf("expiry = %s, want %s", expiry.Format("2006-01-02"), tt.expiry)
			}
		})
	}
}
