package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"options-tracker/internal/models"
)

// EventKind discriminates the outcomes of close matching.
type EventKind string

const (
	// EventMatched pairs an open portion with a close portion.
	EventMatched EventKind = "MATCHED"
	// EventLeftoverOpen is a lot (or lot remainder) never closed in the batch.
	EventLeftoverOpen EventKind = "LEFTOVER_OPEN"
	// EventUnmatchedClose is a close with no known open lot to consume.
	EventUnmatchedClose EventKind = "UNMATCHED_CLOSE"
)

// LegPortion is the slice of a leg consumed by one matching event. Amounts
// are split proportionally by the fraction of contracts consumed.
type LegPortion struct {
	Timestamp time.Time
	Side      models.OrderSide
	Quantity  int
	Amount    decimal.Decimal
}

// MatchedEvent is one output of the position ledger: a matched open+close
// pair, a leftover open, or an unmatched close.
type MatchedEvent struct {
	Kind       EventKind
	Underlying string
	OptionType models.OptionType
	Strike     decimal.Decimal
	Expiry     time.Time
	Account    string
	Strategy   models.Strategy
	Quantity   int
	Open       *LegPortion
	Close      *LegPortion
}

// positionLot is a ledger entry: remaining open quantity for one contract
// line, owned exclusively by the ledger during Process.
type positionLot struct {
	leg         models.Leg
	perContract decimal.Decimal
	remaining   int
	strategy    models.Strategy
}

// Ledger matches closing legs to open lots first-in-first-out per position
// key. FIFO is the standard lot-matching convention and gives deterministic
// results over time-sorted input.
type Ledger struct {
	queues   map[string][]*positionLot
	keyOrder []string
}

// NewLedger creates an empty ledger. A ledger serves one Process call;
// callers wanting independence across batches supply a fresh one.
func NewLedger() *Ledger {
	return &Ledger{queues: make(map[string][]*positionLot)}
}

// Process consumes legs in order, matching closes against open lots. The
// input must be sorted by ascending timestamp; Reconstruct guarantees this.
// After all legs are processed, every lot still in a queue becomes a
// leftover-open event.
func (l *Ledger) Process(legs []models.Leg, strategies map[string]models.Strategy) []MatchedEvent {
	var events []MatchedEvent

	for _, leg := range legs {
		switch leg.Direction {
		case models.DirectionOpen:
			l.push(leg, strategies)
		case models.DirectionClose:
			events = append(events, l.consume(leg)...)
		}
	}

	// Whatever remains open stays open.
	for _, key := range l.keyOrder {
		for _, lot := range l.queues[key] {
			if lot.remaining <= 0 {
				continue
			}
			events = append(events, leftoverEvent(lot))
		}
	}

	return events
}

func (l *Ledger) push(leg models.Leg, strategies map[string]models.Strategy) {
	key := leg.PositionKey()
	strategy, ok := strategies[key]
	if !ok {
		strategy = Classify([]models.Leg{leg})
	}

	lot := &positionLot{
		leg:         leg,
		perContract: leg.Amount.Div(decimal.NewFromInt(int64(leg.Quantity))),
		remaining:   leg.Quantity,
		strategy:    strategy,
	}

	if _, seen := l.queues[key]; !seen {
		l.keyOrder = append(l.keyOrder, key)
	}
	l.queues[key] = append(l.queues[key], lot)
}

func (l *Ledger) consume(leg models.Leg) []MatchedEvent {
	key := leg.PositionKey()
	perContract := leg.Amount.Div(decimal.NewFromInt(int64(leg.Quantity)))

	var events []MatchedEvent
	q := leg.Quantity

	for q > 0 && len(l.queues[key]) > 0 {
		lot := l.queues[key][0] // oldest first
		consumed := q
		if lot.remaining < consumed {
			consumed = lot.remaining
		}

		events = append(events, MatchedEvent{
			Kind:       EventMatched,
			Underlying: lot.leg.Underlying,
			OptionType: lot.leg.OptionType,
			Strike:     lot.leg.Strike,
			Expiry:     lot.leg.Expiry,
			Account:    lot.leg.Account,
			Strategy:   lot.strategy,
			Quantity:   consumed,
			Open: &LegPortion{
				Timestamp: lot.leg.Timestamp,
				Side:      lot.leg.Side,
				Quantity:  consumed,
				Amount:    lot.perContract.Mul(decimal.NewFromInt(int64(consumed))),
			},
			Close: &LegPortion{
				Timestamp: leg.Timestamp,
				Side:      leg.Side,
				Quantity:  consumed,
				Amount:    perContract.Mul(decimal.NewFromInt(int64(consumed))),
			},
		})

		q -= consumed
		lot.remaining -= consumed
		if lot.remaining == 0 {
			l.queues[key] = l.queues[key][1:]
		}
	}

	if q > 0 {
		// An expiration with no open lot carries no cash flow and no new
		// information; drop the remainder.
		if !leg.Expiration {
			events = append(events, unmatchedCloseEvent(leg, q, perContract))
		}
	}

	return events
}

func leftoverEvent(lot *positionLot) MatchedEvent {
	return MatchedEvent{
		Kind:       EventLeftoverOpen,
		Underlying: lot.leg.Underlying,
		OptionType: lot.leg.OptionType,
		Strike:     lot.leg.Strike,
		Expiry:     lot.leg.Expiry,
		Account:    lot.leg.Account,
		Strategy:   lot.strategy,
		Quantity:   lot.remaining,
		Open: &LegPortion{
			Timestamp: lot.leg.Timestamp,
			Side:      lot.leg.Side,
			Quantity:  lot.remaining,
			Amount:    lot.perContract.Mul(decimal.NewFromInt(int64(lot.remaining))),
		},
	}
}

func unmatchedCloseEvent(leg models.Leg, qty int, perContract decimal.Decimal) MatchedEvent {
	return MatchedEvent{
		Kind:       EventUnmatchedClose,
		Underlying: leg.Underlying,
		OptionType: leg.OptionType,
		Strike:     leg.Strike,
		Expiry:     leg.Expiry,
		Account:    leg.Account,
		Strategy:   inferFromClose(leg),
		Quantity:   qty,
		Close: &LegPortion{
			Timestamp: leg.Timestamp,
			Side:      leg.Side,
			Quantity:  qty,
			Amount:    perContract.Mul(decimal.NewFromInt(int64(qty))),
		},
	}
}
