package models

// Strategy is the classified shape of an order group. StrategyCustom is the
// explicit "could not classify" value, never an error.
type Strategy string

const (
	StrategyLongCall       Strategy = "Long Call"
	StrategyShortCall      Strategy = "Short Call"
	StrategyLongPut        Strategy = "Long Put"
	StrategyShortPut       Strategy = "Short Put"
	StrategyBullCallSpread Strategy = "Bull Call Spread"
	StrategyBearCallSpread Strategy = "Bear Call Spread"
	StrategyBullPutSpread  Strategy = "Bull Put Spread"
	StrategyBearPutSpread  Strategy = "Bear Put Spread"
	StrategyStraddle       Strategy = "Straddle"
	StrategyStrangle       Strategy = "Strangle"
	StrategyIronCondor     Strategy = "Iron Condor"
	StrategyCustom         Strategy = "Custom"
)

// Strategies lists every strategy the classifier can produce.
var Strategies = []Strategy{
	StrategyLongCall,
	StrategyShortCall,
	StrategyLongPut,
	StrategyShortPut,
	StrategyBullCallSpread,
	StrategyBearCallSpread,
	StrategyBullPutSpread,
	StrategyBearPutSpread,
	StrategyStraddle,
	StrategyStrangle,
	StrategyIronCondor,
	StrategyCustom,
}

// Valid reports whether s is a member of the closed enumeration.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}
