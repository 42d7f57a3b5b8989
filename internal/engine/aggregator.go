package engine

import (
	"github.com/shopspring/decimal"

	"options-tracker/internal/models"
)

// Aggregate merges one matched event into a final trade record.
//
// Money received across the event's legs sums into credit, money paid into
// debit; a trade may carry both when it opened for a debit and closed for a
// credit. The reported volume is the contracts actually matched in the
// event, not the originating legs' full quantities.
func Aggregate(ev MatchedEvent) models.Trade {
	trade := models.Trade{
		Symbol:     ev.Underlying,
		OptionType: ev.OptionType,
		Strategy:   ev.Strategy,
		Strike:     ev.Strike,
		Expiry:     ev.Expiry,
		Volume:     ev.Quantity,
		Account:    ev.Account,
		Credit:     decimal.Zero,
		Debit:      decimal.Zero,
	}

	switch ev.Kind {
	case EventMatched:
		trade.EntryDate = ev.Open.Timestamp
		exit := ev.Close.Timestamp
		trade.ExitDate = &exit
		addAmount(&trade, ev.Open.Amount)
		addAmount(&trade, ev.Close.Amount)

	case EventLeftoverOpen:
		trade.EntryDate = ev.Open.Timestamp
		addAmount(&trade, ev.Open.Amount)

	case EventUnmatchedClose:
		// The true entry is unknown; the close date stands in for it and
		// the economics are flagged as partial rather than silently
		// absorbed into a normal trade.
		trade.EntryDate = ev.Close.Timestamp
		exit := ev.Close.Timestamp
		trade.ExitDate = &exit
		trade.Incomplete = true
		addAmount(&trade, ev.Close.Amount)
	}

	return trade
}

func addAmount(t *models.Trade, amount decimal.Decimal) {
	if amount.IsPositive() {
		t.Credit = t.Credit.Add(amount)
	} else if amount.IsNegative() {
		t.Debit = t.Debit.Add(amount.Neg())
	}
}
