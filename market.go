package match

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/0x5487/heap-market/structure"
)

// Market matches buy and sell limit orders in price-time priority.
//
// Both books are min-heaps over Key: the sell book on price, the buy book on
// negated price. Each submission inserts one order and then crosses the books
// until the best bid is below the best ask. Fills are posted to the ledger and
// the spread between bid and ask on the filled quantity goes to the bank.
type Market struct {
	mu        sync.Mutex
	buyBook   *structure.Heap[Order]
	sellBook  *structure.Heap[Order]
	ledger    *Ledger
	counter   int64   // Event counter, used as order timestamp
	bank      float64 // Accumulated spread profit
	tradeSeq  uint64
	publisher PublishLog
}

// NewMarket creates an empty market. A nil publisher discards trade logs.
func NewMarket(publisher PublishLog) *Market {
	if publisher == nil {
		publisher = NewDiscardPublishLog()
	}
	return &Market{
		buyBook:   structure.NewHeap[Order](defaultBookCapacity, orderLess),
		sellBook:  structure.NewHeap[Order](defaultBookCapacity, orderLess),
		ledger:    NewLedger(),
		publisher: publisher,
	}
}

// SubmitBuy places a buy limit order and runs matching to completion.
func (m *Market) SubmitBuy(price float64, quantity int64, traderID int) error {
	return m.submit(Buy, price, quantity, traderID)
}

// SubmitSell places a sell limit order and runs matching to completion.
func (m *Market) SubmitSell(price float64, quantity int64, traderID int) error {
	return m.submit(Sell, price, quantity, traderID)
}

func (m *Market) submit(side Side, price float64, quantity int64, traderID int) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		logger.Warn("order rejected", slog.String("side", side.String()), slog.Float64("price", price), slog.Int("trader_id", traderID))
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	if quantity < 0 {
		logger.Warn("order rejected", slog.String("side", side.String()), slog.Int64("quantity", quantity), slog.Int("trader_id", traderID))
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	if quantity == 0 {
		// Nothing to rest or fill.
		logger.Debug("empty order ignored", slog.String("side", side.String()), slog.Int("trader_id", traderID))
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	order := newOrder(side, price, m.counter, quantity, traderID)
	m.book(side).Insert(order)
	m.counter++

	logs := m.match()
	if len(logs) > 0 {
		m.publisher.Publish(logs...)
		for _, log := range logs {
			releaseTradeLog(log)
		}
	}
	return nil
}

func (m *Market) book(side Side) *structure.Heap[Order] {
	if side == Buy {
		return m.buyBook
	}
	return m.sellBook
}

// match crosses the books while the best bid is at or above the best ask.
func (m *Market) match() []*TradeLog {
	var logs []*TradeLog

	for !m.buyBook.Empty() && !m.sellBook.Empty() {
		bestBuy, _ := m.buyBook.Min()
		bestSell, _ := m.sellBook.Min()

		spread := bestSell.Price() - bestBuy.Price()
		if spread > 0 {
			break
		}

		m.buyBook.ExtractMin()
		m.sellBook.ExtractMin()
		logs = append(logs, m.fill(bestBuy, bestSell))
	}

	return logs
}

// fill executes the smaller of the two quantities. The larger side goes back
// on its book with the remainder and its original Key, so it keeps its place in time.
func (m *Market) fill(buy Order, sell Order) *TradeLog {
	buyQty, sellQty := buy.Quantity(), sell.Quantity()
	tradeQty := min(buyQty, sellQty)

	switch {
	case buyQty > sellQty:
		m.buyBook.Insert(buy.withQuantity(buyQty - sellQty))
	case sellQty > buyQty:
		m.sellBook.Insert(sell.withQuantity(sellQty - buyQty))
	}

	buyFill := buy.withQuantity(tradeQty)
	sellFill := sell.withQuantity(tradeQty)
	m.ledger.Buy(buyFill)
	m.ledger.Sell(sellFill)

	profit := (buy.Price() - sell.Price()) * float64(tradeQty)
	m.bank += profit
	m.tradeSeq++

	logger.Debug("orders matched",
		slog.Uint64("seq_id", m.tradeSeq),
		slog.Int64("quantity", tradeQty),
		slog.Float64("buy_price", buy.Price()),
		slog.Float64("sell_price", sell.Price()),
		slog.Int("buy_trader_id", buy.TraderID()),
		slog.Int("sell_trader_id", sell.TraderID()),
		slog.Float64("profit", profit),
	)

	return NewTradeLog(m.tradeSeq, buyFill, sellFill, profit)
}

// SnapshotBuyBook returns resting buy orders in heap-shape order with real prices.
func (m *Market) SnapshotBuyBook() []BookEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotBook(m.buyBook)
}

// SnapshotSellBook returns resting sell orders in heap-shape order.
func (m *Market) SnapshotSellBook() []BookEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshotBook(m.sellBook)
}

func snapshotBook(book *structure.Heap[Order]) []BookEntry {
	orders := book.Elements()
	entries := make([]BookEntry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, toBookEntry(o))
	}
	return entries
}

// SnapshotLedger returns a copy of every trader record.
func (m *Market) SnapshotLedger() map[int]LedgerRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Snapshot()
}

// BankBalance returns the accumulated spread profit.
func (m *Market) BankBalance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bank
}

// TradeCount returns the number of fills executed so far.
func (m *Market) TradeCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tradeSeq
}

// BestBid returns the highest resting buy order.
func (m *Market) BestBid() (BookEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.buyBook.Min()
	if !ok {
		return BookEntry{}, false
	}
	return toBookEntry(o), true
}

// BestAsk returns the lowest resting sell order.
func (m *Market) BestAsk() (BookEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.sellBook.Min()
	if !ok {
		return BookEntry{}, false
	}
	return toBookEntry(o), true
}

// Check verifies both books' heap and shape invariants.
func (m *Market) Check() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.buyBook.Check(); err != nil {
		return fmt.Errorf("buy book: %w", err)
	}
	if err := m.sellBook.Check(); err != nil {
		return fmt.Errorf("sell book: %w", err)
	}
	return nil
}
