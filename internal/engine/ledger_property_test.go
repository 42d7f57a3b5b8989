package engine

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"options-tracker/internal/models"
)

// legSequence builds a time-ordered stream of opens then closes for a single
// position, with one contract priced at $1 so amounts stay easy to check.
func legSequence(openQtys, closeQtys []int) []models.Leg {
	var legs []models.Leg
	ts := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

	for _, q := range openQtys {
		legs = append(legs, models.Leg{
			Underlying: "MSFT",
			OptionType: models.OptionPut,
			Strike:     decimal.NewFromInt(400),
			Expiry:     time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC),
			Direction:  models.DirectionOpen,
			Side:       models.OrderSideBuy,
			Quantity:   q,
			Amount:     decimal.NewFromInt(int64(-q)),
			Timestamp:  ts,
		})
		ts = ts.Add(time.Minute)
	}
	for _, q := range closeQtys {
		legs = append(legs, models.Leg{
			Underlying: "MSFT",
			OptionType: models.OptionPut,
			Strike:     decimal.NewFromInt(400),
			Expiry:     time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC),
			Direction:  models.DirectionClose,
			Side:       models.OrderSideSell,
			Quantity:   q,
			Amount:     decimal.NewFromInt(int64(q)),
			Timestamp:  ts,
		})
		ts = ts.Add(time.Minute)
	}
	return legs
}

func sum(qtys []int) int {
	total := 0
	for _, q := range qtys {
		total += q
	}
	return total
}

func TestProperty_LedgerConservesQuantity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genQtys := gen.SliceOfN(4, gen.IntRange(1, 10)).SuchThat(func(qs []int) bool {
		return len(qs) > 0
	})

	properties.Property("every opened and closed contract is accounted for", prop.ForAll(
		func(openQtys, closeQtys []int) bool {
			events := NewLedger().Process(legSequence(openQtys, closeQtys), nil)

			var matched, leftover, unmatched int
			for _, ev := range events {
				switch ev.Kind {
				case EventMatched:
					matched += ev.Quantity
				case EventLeftoverOpen:
					leftover += ev.Quantity
				case EventUnmatchedClose:
					unmatched += ev.Quantity
				}
			}

			return matched+leftover == sum(openQtys) &&
				matched+unmatched == sum(closeQtys)
		},
		genQtys,
		genQtys,
	))

	properties.Property("fully covered closes leave nothing unmatched", prop.ForAll(
		func(openQtys []int) bool {
			total := sum(openQtys)
			events := NewLedger().Process(legSequence(openQtys, []int{total}), nil)
			for _, ev := range events {
				if ev.Kind != EventMatched {
					return false
				}
			}
			return true
		},
		genQtys,
	))

	properties.TestingRun(t)
}

func TestProperty_LedgerMatchesOldestFirst(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("matched open timestamps never decrease", prop.ForAll(
		func(openQtys, closeQtys []int) bool {
			events := NewLedger().Process(legSequence(openQtys, closeQtys), nil)

			var prev time.Time
			for _, ev := range events {
				if ev.Kind != EventMatched {
					continue
				}
				if ev.Open.Timestamp.Before(prev) {
					return false
				}
				prev = ev.Open.Timestamp
			}
			return true
		},
		gen.SliceOfN(5, gen.IntRange(1, 8)),
		gen.SliceOfN(5, gen.IntRange(1, 8)),
	))

	properties.Property("per-contract cost is preserved across splits", prop.ForAll(
		func(openQty, closeQty int) bool {
			events := NewLedger().Process(legSequence([]int{openQty}, []int{closeQty}), nil)

			// Every portion of the $1-per-contract lot must keep that rate.
			one := decimal.NewFromInt(1)
			for _, ev := range events {
				if ev.Open == nil {
					continue
				}
				rate := ev.Open.Amount.Div(decimal.NewFromInt(int64(ev.Open.Quantity))).Abs()
				if !rate.Equal(one) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
