package broker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/models"
)

// TastytradeNormalizer adapts tastytrade transaction-history exports.
//
// Option contracts are identified by an OCC-style fixed-width symbol
// ("SPY   240621C00550000"), multi-leg orders are linked through the
// "Order #" column, and actions use the BUY_TO_OPEN / SELL_TO_CLOSE
// vocabulary. Expirations arrive as Receive Deliver rows with no cash flow.
type TastytradeNormalizer struct {
	opts Options
}

// occSymbolRe matches root, yymmdd expiry, C/P flag and strike*1000.
var occSymbolRe = regexp.MustCompile(`^([A-Z][A-Z0-9./]{0,5})\s*(\d{6})([CP])(\d{8})$`)

const (
	ttHeaderDate       = "Date"
	ttHeaderType       = "Type"
	ttHeaderSubType    = "Sub Type"
	ttHeaderAction     = "Action"
	ttHeaderSymbol     = "Symbol"
	ttHeaderInstrument = "Instrument Type"
	ttHeaderValue      = "Value"
	ttHeaderQuantity   = "Quantity"
	ttHeaderOrder      = "Order #"
)

// Kind returns the broker kind.
func (n *TastytradeNormalizer) Kind() models.BrokerKind {
	return models.BrokerTastytrade
}

// Normalize converts one tastytrade record into a canonical leg.
func (n *TastytradeNormalizer) Normalize(rec ingest.Record) (models.Leg, error) {
	if instr := rec[ttHeaderInstrument]; instr != "" && instr != "Equity Option" {
		return models.Leg{}, apperrors.ErrNotOptionTrade
	}

	rowType := rec[ttHeaderType]
	subType := rec[ttHeaderSubType]
	expiration := rowType == "Receive Deliver" && strings.EqualFold(subType, "Expiration")
	if rowType != "Trade" && !expiration {
		// Money movement, fees, dividends, assignments we cannot price.
		return models.Leg{}, apperrors.ErrNotOptionTrade
	}

	underlying, optionType, strike, expiry, err := parseOCCSymbol(rec[ttHeaderSymbol])
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Symbol", rec[ttHeaderSymbol], err)
	}

	direction, side, err := parseTastyAction(rec[ttHeaderAction], expiration)
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Action", rec[ttHeaderAction], err)
	}

	ts, err := parseTastyDate(rec[ttHeaderDate], n.opts.Location)
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Date", rec[ttHeaderDate], err)
	}

	qty, err := parsePositiveInt(rec[ttHeaderQuantity])
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Quantity", rec[ttHeaderQuantity], err)
	}

	amount, err := ParseMoney(rec[ttHeaderValue])
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Value", rec[ttHeaderValue], err)
	}
	if expiration {
		amount = decimal.Zero
	}

	return models.Leg{
		Underlying: underlying,
		OptionType: optionType,
		Strike:     strike,
		Expiry:     expiry,
		Direction:  direction,
		Side:       side,
		Quantity:   qty,
		Amount:     amount,
		Timestamp:  ts,
		OrderKey:   rec[ttHeaderOrder],
		Account:    n.opts.Account,
		Expiration: expiration,
	}, nil
}

// parseOCCSymbol decodes a fixed-width OCC option symbol: padded root,
// yymmdd expiry, C/P flag, strike price times 1000 in eight digits.
func parseOCCSymbol(symbol string) (string, models.OptionType, decimal.Decimal, time.Time, error) {
	s := strings.TrimSpace(symbol)
	m := occSymbolRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", decimal.Zero, time.Time{}, fmt.Errorf("not an OCC option symbol: %q", symbol)
	}

	expiry, err := time.Parse("060102", m[2])
	if err != nil {
		return "", "", decimal.Zero, time.Time{}, fmt.Errorf("invalid expiry in symbol %q: %w", symbol, err)
	}

	optionType := models.OptionCall
	if m[3] == "P" {
		optionType = models.OptionPut
	}

	thousandths, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil || thousandths <= 0 {
		return "", "", decimal.Zero, time.Time{}, fmt.Errorf("invalid strike in symbol %q", symbol)
	}
	strike := decimal.New(thousandths, -3)

	return m[1], optionType, strike, expiry, nil
}

func parseTastyAction(action string, expiration bool) (models.Direction, models.OrderSide, error) {
	if expiration {
		// Side is immaterial for a cashless expiration; the open lot
		// carries the economics.
		return models.DirectionClose, models.OrderSideBuy, nil
	}
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "BUY_TO_OPEN":
		return models.DirectionOpen, models.OrderSideBuy, nil
	case "SELL_TO_OPEN":
		return models.DirectionOpen, models.OrderSideSell, nil
	case "BUY_TO_CLOSE":
		return models.DirectionClose, models.OrderSideBuy, nil
	case "SELL_TO_CLOSE":
		return models.DirectionClose, models.OrderSideSell, nil
	default:
		return "", "", fmt.Errorf("unknown action %q", action)
	}
}

func parseTastyDate(value string, loc *time.Location) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parsePositiveInt(s string) (int, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if raw == "" {
		return 0, fmt.Errorf("empty quantity")
	}
	// Some exports render whole-contract quantities as "1.0".
	raw = strings.TrimSuffix(raw, ".0")
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	if v < 0 {
		v = -v
	}
	if v == 0 {
		return 0, fmt.Errorf("zero quantity")
	}
	return v, nil
}
