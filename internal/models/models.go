// Package models provides domain models for trade reconstruction.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	OptionCall OptionType = "CALL"
	OptionPut  OptionType = "PUT"
)

// Direction represents whether a transaction opens or closes a position.
type Direction string

const (
	DirectionOpen  Direction = "OPEN"
	DirectionClose Direction = "CLOSE"
)

// OrderSide represents who initiated the transaction.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// BrokerKind identifies a supported brokerage export format.
type BrokerKind string

const (
	BrokerTastytrade BrokerKind = "tastytrade"
	BrokerRobinhood  BrokerKind = "robinhood"
)

// Leg is one normalized option transaction. Both broker normalizers emit
// this canonical type; everything downstream of normalization is
// broker-agnostic.
type Leg struct {
	Underlying string          `json:"underlying"`
	OptionType OptionType      `json:"option_type"`
	Strike     decimal.Decimal `json:"strike"`
	Expiry     time.Time       `json:"expiry"`
	Direction  Direction       `json:"direction"`
	Side       OrderSide       `json:"side"`
	Quantity   int             `json:"quantity"` // contracts, always > 0
	Amount     decimal.Decimal `json:"amount"`   // signed: positive = money received
	Timestamp  time.Time       `json:"timestamp"`
	OrderKey   string          `json:"order_key,omitempty"` // multi-leg order linkage, when the export provides it
	Account    string          `json:"account,omitempty"`
	Expiration bool            `json:"expiration,omitempty"` // leg synthesized from an expiration event
}

// PositionKey identifies a fungible option contract line regardless of
// which order opened it.
func (l Leg) PositionKey() string {
	return fmt.Sprintf("%s|%s|%s|%s", l.Underlying, l.Strike.String(), l.OptionType, l.Expiry.Format("2006-01-02"))
}

// OrderGroup is the set of opening legs sharing one grouping key, plus the
// strategy classified for the group. Immutable after classification.
type OrderGroup struct {
	Key      string
	Legs     []Leg
	Strategy Strategy
}

// Trade is the engine's output: one reconstructed logical trade.
type Trade struct {
	Symbol     string          `json:"symbol"`
	OptionType OptionType      `json:"option_type"`
	Strategy   Strategy        `json:"strategy"`
	Strike     decimal.Decimal `json:"strike"`
	Expiry     time.Time       `json:"expiry"`
	Volume     int             `json:"volume"` // contracts matched in this event
	EntryDate  time.Time       `json:"entry_date"`
	ExitDate   *time.Time      `json:"exit_date,omitempty"` // nil = still open
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Account    string          `json:"account,omitempty"`
	Incomplete bool            `json:"incomplete"` // close could not be matched to a known open
}

// IsOpen reports whether the trade represents a position still open.
func (t Trade) IsOpen() bool {
	return t.ExitDate == nil
}

// NetPnL returns credit minus debit.
func (t Trade) NetPnL() decimal.Decimal {
	return t.Credit.Sub(t.Debit)
}
