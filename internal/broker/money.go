package broker

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "options-tracker/internal/errors"
)

// ParseMoney parses a broker-formatted currency amount into a signed decimal.
//
// Accepted forms: "1,234.56", "$130.00", "-142.00", "(200.00)"
// (parentheses = negative), and explicit "142.00 CR" / "142.00 DR" suffixes.
// An empty string parses as zero (expiration rows carry no cash flow).
func ParseMoney(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, nil
	}

	negative := false
	upper := strings.ToUpper(raw)
	switch {
	case strings.HasSuffix(upper, "CR"):
		raw = strings.TrimSpace(raw[:len(raw)-2])
	case strings.HasSuffix(upper, "DR"), strings.HasSuffix(upper, "DB"):
		negative = true
		raw = strings.TrimSpace(raw[:len(raw)-2])
	}

	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = raw[1 : len(raw)-1]
	}

	raw = strings.ReplaceAll(raw, "$", "")
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimSpace(raw)

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.Wrapf(err, "parsing amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseStrike parses a strike price like "550", "$550.00" or "1,050.50".
func ParseStrike(s string) (decimal.Decimal, error) {
	d, err := ParseMoney(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.IsZero() {
		return decimal.Zero, fmt.Errorf("invalid strike %q", s)
	}
	return d, nil
}
