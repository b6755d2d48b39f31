package match

import (
	"fmt"
	"math"
	"strconv"

	"github.com/0x5487/heap-market/protocol"
	"github.com/shopspring/decimal"
)

type Side = protocol.Side

const (
	Buy  Side = protocol.SideBuy
	Sell Side = protocol.SideSell
)

// Key orders resting orders: price ascending, then timestamp ascending.
// Buy orders store the negated price so the best bid is the smallest key.
type Key struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// Less reports whether k has priority over other.
func (k Key) Less(other Key) bool {
	return k.Price < other.Price || (k.Price == other.Price && k.Timestamp < other.Timestamp)
}

// Value is the payload of a resting order.
type Value struct {
	Quantity int64 `json:"quantity"`
	TraderID int   `json:"trader_id"`
}

// Order is the unit held by a book. It is never mutated in place: fills and
// remainders are new Orders sharing the original Key.
type Order struct {
	Key   Key   `json:"key"`
	Value Value `json:"value"`
	Side  Side  `json:"side"`
}

// newOrder builds an order with the side's key convention applied to price.
func newOrder(side Side, price float64, timestamp int64, quantity int64, traderID int) Order {
	keyPrice := price
	if side == Buy {
		keyPrice = -price
	}
	return Order{
		Key:   Key{Price: keyPrice, Timestamp: timestamp},
		Value: Value{Quantity: quantity, TraderID: traderID},
		Side:  side,
	}
}

// Price returns the real, un-negated limit price.
func (o Order) Price() float64 {
	if o.Side == Buy {
		return -o.Key.Price
	}
	return o.Key.Price
}

// Quantity returns the number of shares.
func (o Order) Quantity() int64 {
	return o.Value.Quantity
}

// TraderID returns the owner of the order.
func (o Order) TraderID() int {
	return o.Value.TraderID
}

// withQuantity returns a copy of o for a different number of shares, keeping its Key.
func (o Order) withQuantity(quantity int64) Order {
	o.Value.Quantity = quantity
	return o
}

// String formats the order as (price,timestamp):(quantity,trader).
func (o Order) String() string {
	return fmt.Sprintf("(%s,%d):(%d,%d)", formatAmount(o.Price()), o.Key.Timestamp, o.Value.Quantity, o.Value.TraderID)
}

func orderLess(a, b Order) bool {
	return a.Key.Less(b.Key)
}

// BookEntry is a resting order as exposed by book snapshots.
type BookEntry struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Quantity  int64   `json:"quantity"`
	TraderID  int     `json:"trader_id"`
}

func toBookEntry(o Order) BookEntry {
	return BookEntry{
		Price:     o.Price(),
		Timestamp: o.Key.Timestamp,
		Quantity:  o.Value.Quantity,
		TraderID:  o.Value.TraderID,
	}
}

// LedgerRecord is the running account of one trader.
type LedgerRecord struct {
	TraderID int     `json:"trader_id"`
	Balance  float64 `json:"balance"`
	Holdings int64   `json:"holdings"`
	Buys     []Order `json:"buys"`
	Sells    []Order `json:"sells"`
}

// DepthItem is one aggregated price level.
type DepthItem struct {
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
	Count    int64   `json:"count"`
}

// formatAmount renders a price or money amount with two decimals.
func formatAmount(v float64) string {
	// decimal panics on NaN and infinities.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}
