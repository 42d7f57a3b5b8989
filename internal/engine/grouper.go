package engine

import (
	"fmt"

	"options-tracker/internal/models"
)

// Group clusters opening legs into logical multi-leg orders.
//
// When every opening leg carries an explicit order key the grouping is
// exact. Otherwise legs are grouped by (underlying, calendar day): all
// opens for the same underlying on the same day are assumed to belong to
// one strategy. The day heuristic is a known imprecision; it lives behind
// the same OrderGroup-producing interface as the exact path so it can be
// replaced without touching the classifier or ledger.
func Group(legs []models.Leg) []models.OrderGroup {
	var opens []models.Leg
	for _, l := range legs {
		if l.Direction == models.DirectionOpen {
			opens = append(opens, l)
		}
	}
	if len(opens) == 0 {
		return nil
	}

	exact := true
	for _, l := range opens {
		if l.OrderKey == "" {
			exact = false
			break
		}
	}

	byKey := make(map[string]int)
	var groups []models.OrderGroup
	for _, l := range opens {
		key := groupKey(l, exact)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, models.OrderGroup{Key: key})
		}
		groups[idx].Legs = append(groups[idx].Legs, l)
	}
	return groups
}

func groupKey(l models.Leg, exact bool) string {
	if exact {
		return l.OrderKey
	}
	return fmt.Sprintf("%s|%s", l.Underlying, l.Timestamp.Format("2006-01-02"))
}

// StrategiesByPosition attaches each classified group's strategy to the
// position keys of its legs, so close matching can recover the strategy
// without re-classifying. When two groups touch the same contract line the
// later group wins.
func StrategiesByPosition(groups []models.OrderGroup) map[string]models.Strategy {
	out := make(map[string]models.Strategy)
	for _, g := range groups {
		for _, l := range g.Legs {
			out[l.PositionKey()] = g.Strategy
		}
	}
	return out
}
