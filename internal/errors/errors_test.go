package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestParseError(t *testing.T) {
	cause := errors.New("unknown action")
	err := NewParseError("tastytrade", "Action", "HOLD", cause)

	msg := err.Error()
	for _, want := range []string{"tastytrade", "Action", "HOLD", "unknown action"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	if !Is(err, cause) {
		t.Error("ParseError must unwrap to its cause")
	}

	var parseErr *ParseError
	if !As(err, &parseErr) || parseErr.Field != "Action" {
		t.Errorf("As failed: %+v", parseErr)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) must be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) must be nil")
	}

	wrapped := Wrapf(ErrNoRecords, "reading %s", "export.csv")
	if !Is(wrapped, ErrNoRecords) {
		t.Error("wrapped error lost its sentinel")
	}
	if !strings.Contains(wrapped.Error(), "export.csv") {
		t.Errorf("message %q missing context", wrapped.Error())
	}
}

func TestWrappedChains(t *testing.T) {
	inner := NewParseError("robinhood", "Amount", "??", ErrNotOptionTrade)
	outer := NewIngestError("export.csv", "normalizing", inner)

	if !Is(outer, ErrNotOptionTrade) {
		t.Error("sentinel not found through two wrappers")
	}
	var parseErr *ParseError
	if !As(outer, &parseErr) {
		t.Error("ParseError not found through IngestError")
	}
}
