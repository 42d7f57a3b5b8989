package broker

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"0.00", "0"},
		{"130.00", "130"},
		{"-142.00", "-142"},
		{"$1,234.56", "1234.56"},
		{"(200.00)", "-200"},
		{"($1,500.00)", "-1500"},
		{"142.00 CR", "142"},
		{"142.00 DR", "-142"},
		{"142.00 DB", "-142"},
		{"  55.50  ", "55.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if err != nil {
				t.Fatalf("ParseMoney(%q): %v", tt.in, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseMoney(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"abc", "12a.50", "--5", "()"} {
		if _, err := ParseMoney(bad); err == nil {
			t.Errorf("ParseMoney(%q): want error, got nil", bad)
		}
	}
}

func TestParseStrike(t *testing.T) {
	got, err := ParseStrike("$1,050.50")
	if err != nil {
		t.Fatalf("ParseStrike: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("1050.5")) {
		t.Errorf("ParseStrike = %s, want 1050.5", got)
	}

	for _, bad := range []string{"", "0", "-10", "abc"} {
		if _, err := ParseStrike(bad); err == nil {
			t.Errorf("ParseStrike(%q): want error, got nil", bad)
		}
	}
}

func TestProperty_ParseMoneyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genCents := gen.Int64Range(1, 10_000_000)

	properties.Property("plain decimal strings round-trip exactly", prop.ForAll(
		func(cents int64) bool {
			want := decimal.New(cents, -2)
			got, err := ParseMoney(want.StringFixed(2))
			return err == nil && got.Equal(want)
		},
		genCents,
	))

	properties.Property("parentheses and minus sign agree", prop.ForAll(
		func(cents int64) bool {
			d := decimal.New(cents, -2)
			wrapped, err1 := ParseMoney("(" + d.StringFixed(2) + ")")
			signed, err2 := ParseMoney("-" + d.StringFixed(2))
			return err1 == nil && err2 == nil && wrapped.Equal(signed)
		},
		genCents,
	))

	properties.Property("CR and DR suffixes are exact negations", prop.ForAll(
		func(cents int64) bool {
			d := decimal.New(cents, -2)
			credit, err1 := ParseMoney(d.StringFixed(2) + " CR")
			debit, err2 := ParseMoney(d.StringFixed(2) + " DR")
			return err1 == nil && err2 == nil && credit.Equal(debit.Neg())
		},
		genCents,
	))

	properties.TestingRun(t)
}
