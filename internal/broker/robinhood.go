package broker

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "options-tracker/internal/errors"
	"options-tracker/internal/ingest"
	"options-tracker/internal/models"
)

// RobinhoodNormalizer adapts Robinhood activity-report exports.
//
// Option contracts are described in free text ("SPY 6/21/2024 Call $550.00"),
// actions use the BTO/STO/BTC/STC/OEXP trans codes, amounts render
// negatives in parentheses, and closes carry no linkage to their opening
// order. Non-trade rows (transfers, interest, fees, dividends) share the
// same file and are filtered by trans code.
type RobinhoodNormalizer struct {
	opts Options
}

const (
	rhHeaderDate        = "Activity Date"
	rhHeaderInstrument  = "Instrument"
	rhHeaderDescription = "Description"
	rhHeaderTransCode   = "Trans Code"
	rhHeaderQuantity    = "Quantity"
	rhHeaderAmount      = "Amount"
)

// rhDescriptionRe matches "SYMBOL M/D/YYYY Call|Put $STRIKE".
var rhDescriptionRe = regexp.MustCompile(`([A-Z][A-Z0-9.]*) (\d{1,2}/\d{1,2}/\d{4}) (Call|Put) \$([\d,]+(?:\.\d+)?)`)

// rhOptionCodes maps Robinhood option trans codes to direction and side.
var rhOptionCodes = map[string]struct {
	direction models.Direction
	side      models.OrderSide
}{
	"BTO": {models.DirectionOpen, models.OrderSideBuy},
	"STO": {models.DirectionOpen, models.OrderSideSell},
	"BTC": {models.DirectionClose, models.OrderSideBuy},
	"STC": {models.DirectionClose, models.OrderSideSell},
}

// Kind returns the broker kind.
func (n *RobinhoodNormalizer) Kind() models.BrokerKind {
	return models.BrokerRobinhood
}

// Normalize converts one Robinhood record into a canonical leg.
func (n *RobinhoodNormalizer) Normalize(rec ingest.Record) (models.Leg, error) {
	code := strings.ToUpper(strings.TrimSpace(rec[rhHeaderTransCode]))
	expiration := code == "OEXP"

	mapping, isTrade := rhOptionCodes[code]
	if !isTrade && !expiration {
		// ACH, CDIV, INT, GOLD, DFEE, stock Buy/Sell, and friends.
		return models.Leg{}, apperrors.ErrNotOptionTrade
	}

	underlying, optionType, strike, expiry, err := parseOptionDescription(rec[rhHeaderDescription])
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Description", rec[rhHeaderDescription], err)
	}

	ts, err := parseRobinhoodDate(rec[rhHeaderDate], n.opts.Location)
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Activity Date", rec[rhHeaderDate], err)
	}

	direction := models.DirectionClose
	side := models.OrderSideBuy // immaterial for expirations
	if !expiration {
		direction = mapping.direction
		side = mapping.side
	}

	qty, err := parsePositiveInt(rec[rhHeaderQuantity])
	if err != nil {
		return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Quantity", rec[rhHeaderQuantity], err)
	}

	amount := decimal.Zero
	if !expiration {
		amount, err = ParseMoney(rec[rhHeaderAmount])
		if err != nil {
			return models.Leg{}, apperrors.NewParseError(string(n.Kind()), "Amount", rec[rhHeaderAmount], err)
		}
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
		Account:    n.opts.Account,
		Expiration: expiration,
	}, nil
}

// parseOptionDescription decodes a free-text contract description of the
// form "SYMBOL M/D/YYYY Call|Put $STRIKE". Expiration rows prefix the same
// description with explanatory text, so the contract is matched anywhere
// in the field.
func parseOptionDescription(desc string) (string, models.OptionType, decimal.Decimal, time.Time, error) {
	m := rhDescriptionRe.FindStringSubmatch(desc)
	if m == nil {
		return "", "", decimal.Zero, time.Time{}, fmt.Errorf("not an option description: %q", desc)
	}

	expiry, err := time.Parse("1/2/2006", m[2])
	if err != nil {
		return "", "", decimal.Zero, time.Time{}, fmt.Errorf("invalid expiry in description %q: %w", desc, err)
	}

	optionType := models.OptionCall
	if m[3] == "Put" {
		optionType = models.OptionPut
	}

	strike, err := ParseStrike(m[4])
	if err != nil {
		return "", "", decimal.Zero, time.Time{}, err
	}

	return m[1], optionType, strike, expiry, nil
}

func parseRobinhoodDate(value string, loc *time.Location) (time.Time, error) {
	for _, f := range []string{"1/2/2006", "2006-01-02"} {
		if t, err := time.ParseInLocation(f, strings.TrimSpace(value), loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}
