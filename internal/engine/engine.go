package engine

import (
	"sort"

	"options-tracker/internal/models"
)

// Result is the outcome of reconstructing one batch of legs.
type Result struct {
	Trades     []models.Trade
	Groups     []models.OrderGroup
	Open       int // trades with no exit (positions still open)
	Incomplete int // trades whose cost basis is partly unknown
}

// Reconstruct turns canonical legs into logical trades: sort, group opening
// legs, classify each group, match closes through the FIFO ledger, and
// aggregate the matched events.
//
// FIFO correctness depends on processing order, so the legs are sorted here
// rather than trusting the caller's ordering. The sort is stable, with
// opens ordered before closes on equal timestamps: date-granular exports
// would otherwise make a same-day round trip ambiguous.
func Reconstruct(legs []models.Leg) Result {
	sorted := make([]models.Leg, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Direction == models.DirectionOpen && sorted[j].Direction == models.DirectionClose
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	groups := Group(sorted)
	for i := range groups {
		groups[i].Strategy = Classify(groups[i].Legs)
	}

	events := NewLedger().Process(sorted, StrategiesByPosition(groups))

	result := Result{Groups: groups}
	for _, ev := range events {
		trade := Aggregate(ev)
		if trade.IsOpen() {
			result.Open++
		}
		if trade.Incomplete {
			result.Incomplete++
		}
		result.Trades = append(result.Trades, trade)
	}
	return result
}
