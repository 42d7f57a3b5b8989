// Package engine reconstructs logical option trades from canonical legs.
//
// The pipeline is: group opening legs into logical orders, classify each
// order's strategy, match closes to opens through a FIFO position ledger,
// and aggregate matched events into trades. It is a pure, single-pass batch
// transformation with no I/O.
package engine

import (
	"options-tracker/internal/models"
)

// legShape is a structural descriptor of an order group: leg count, option
// type counts, long/short counts per type, and the strike relation. The
// classifier is an exhaustive match over this shape rather than nested
// conditionals, so new strategy shapes are localized additions.
type legShape struct {
	count      int
	calls      int
	puts       int
	longCalls  int
	shortCalls int
	longPuts   int
	shortPuts  int
}

func shapeOf(legs []models.Leg) legShape {
	s := legShape{count: len(legs)}
	for _, l := range legs {
		switch l.OptionType {
		case models.OptionCall:
			s.calls++
			if l.Side == models.OrderSideBuy {
				s.longCalls++
			} else {
				s.shortCalls++
			}
		case models.OptionPut:
			s.puts++
			if l.Side == models.OrderSideBuy {
				s.longPuts++
			} else {
				s.shortPuts++
			}
		}
	}
	return s
}

// Classify returns the strategy for one order's grouped opening legs.
// It is total over all inputs: unrecognized shapes yield StrategyCustom,
// never an error.
func Classify(legs []models.Leg) models.Strategy {
	shape := shapeOf(legs)

	switch shape.count {
	case 1:
		return classifySingle(legs[0])
	case 2:
		if shape.calls == 2 || shape.puts == 2 {
			return classifyVertical(legs)
		}
		if shape.calls == 1 && shape.puts == 1 {
			// Direction need not match between the two legs.
			if legs[0].Strike.Equal(legs[1].Strike) {
				return models.StrategyStraddle
			}
			return models.StrategyStrangle
		}
	case 4:
		if shape.calls == 2 && shape.puts == 2 &&
			shape.longCalls == 1 && shape.shortCalls == 1 &&
			shape.longPuts == 1 && shape.shortPuts == 1 {
			return models.StrategyIronCondor
		}
	}

	return models.StrategyCustom
}

func classifySingle(leg models.Leg) models.Strategy {
	switch {
	case leg.OptionType == models.OptionCall && leg.Side == models.OrderSideBuy:
		return models.StrategyLongCall
	case leg.OptionType == models.OptionCall && leg.Side == models.OrderSideSell:
		return models.StrategyShortCall
	case leg.OptionType == models.OptionPut && leg.Side == models.OrderSideBuy:
		return models.StrategyLongPut
	default:
		return models.StrategyShortPut
	}
}

// classifyVertical names a two-leg same-type spread. A spread is bullish
// when it profits from the underlying rising.
func classifyVertical(legs []models.Leg) models.Strategy {
	a, b := legs[0], legs[1]
	if a.Side == b.Side {
		// Two longs or two shorts at different strikes is not a vertical.
		return models.StrategyCustom
	}

	long, short := a, b
	if a.Side == models.OrderSideSell {
		long, short = b, a
	}
	if long.Strike.Equal(short.Strike) {
		return models.StrategyCustom
	}

	longIsLower := long.Strike.LessThan(short.Strike)
	if a.OptionType == models.OptionCall {
		if longIsLower {
			return models.StrategyBullCallSpread
		}
		return models.StrategyBearCallSpread
	}
	if longIsLower {
		return models.StrategyBullPutSpread
	}
	return models.StrategyBearPutSpread
}

// inferFromClose infers a single-leg strategy for a close with no known
// open. The side is inverted: buying to close implies the missing open was
// a short, and vice versa.
func inferFromClose(leg models.Leg) models.Strategy {
	inverted := leg
	if leg.Side == models.OrderSideBuy {
		inverted.Side = models.OrderSideSell
	} else {
		inverted.Side = models.OrderSideBuy
	}
	return classifySingle(inverted)
}
