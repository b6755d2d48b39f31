package match

import (
	"slices"

	"github.com/huandu/skiplist"
)

// Ledger keeps one record per trader, created on the trader's first fill.
// Records are indexed by trader id in a skip list so reports come out in id order.
type Ledger struct {
	records *skiplist.SkipList
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		records: skiplist.New(skiplist.Int),
	}
}

// record returns the live record for traderID, creating a zeroed one if needed.
func (l *Ledger) record(traderID int) *LedgerRecord {
	if el := l.records.Get(traderID); el != nil {
		rec, _ := el.Value.(*LedgerRecord)
		return rec
	}
	rec := &LedgerRecord{TraderID: traderID}
	l.records.Set(traderID, rec)
	return rec
}

// Post appends a fill to the trader's history and updates the running account.
// A buy adds shares and pays price × quantity; a sell removes shares and receives it.
// Every call is a new, permanent entry.
func (l *Ledger) Post(order Order, isBuy bool) {
	rec := l.record(order.TraderID())
	qty := order.Quantity()
	amount := float64(qty) * order.Price()

	if isBuy {
		rec.Holdings += qty
		rec.Balance -= amount
		rec.Buys = append(rec.Buys, order)
		return
	}

	rec.Holdings -= qty
	rec.Balance += amount
	rec.Sells = append(rec.Sells, order)
}

// Buy posts a buy fill.
func (l *Ledger) Buy(order Order) {
	l.Post(order, true)
}

// Sell posts a sell fill.
func (l *Ledger) Sell(order Order) {
	l.Post(order, false)
}

// Record returns a copy of the trader's record.
func (l *Ledger) Record(traderID int) (LedgerRecord, bool) {
	el := l.records.Get(traderID)
	if el == nil {
		return LedgerRecord{}, false
	}
	rec, _ := el.Value.(*LedgerRecord)
	return cloneRecord(rec), true
}

// Len returns the number of traders with a record.
func (l *Ledger) Len() int {
	return l.records.Len()
}

// Records returns copies of all records in ascending trader id.
func (l *Ledger) Records() []LedgerRecord {
	result := make([]LedgerRecord, 0, l.records.Len())
	for el := l.records.Front(); el != nil; el = el.Next() {
		rec, _ := el.Value.(*LedgerRecord)
		result = append(result, cloneRecord(rec))
	}
	return result
}

// Snapshot returns copies of all records keyed by trader id.
func (l *Ledger) Snapshot() map[int]LedgerRecord {
	result := make(map[int]LedgerRecord, l.records.Len())
	for el := l.records.Front(); el != nil; el = el.Next() {
		rec, _ := el.Value.(*LedgerRecord)
		result[rec.TraderID] = cloneRecord(rec)
	}
	return result
}

func cloneRecord(rec *LedgerRecord) LedgerRecord {
	cpy := *rec
	cpy.Buys = slices.Clone(rec.Buys)
	cpy.Sells = slices.Clone(rec.Sells)
	return cpy
}
