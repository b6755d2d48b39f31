package match

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// TradeLog is the event emitted for every fill.
// SequenceID increases by one per trade within a Market and can be used for
// ordering and gap detection downstream; ID is globally unique.
type TradeLog struct {
	ID           string    `json:"id"`
	SequenceID   uint64    `json:"seq_id"`
	Quantity     int64     `json:"quantity"`
	BuyPrice     float64   `json:"buy_price"`
	SellPrice    float64   `json:"sell_price"`
	BuyTraderID  int       `json:"buy_trader_id"`
	SellTraderID int       `json:"sell_trader_id"`
	BuyTime      int64     `json:"buy_timestamp"`  // Event counter when the buy was placed
	SellTime     int64     `json:"sell_timestamp"` // Event counter when the sell was placed
	Profit       float64   `json:"profit"`         // (BuyPrice - SellPrice) * Quantity
	CreatedAt    time.Time `json:"created_at"`
}

var tradeLogPool = sync.Pool{
	New: func() any {
		return new(TradeLog)
	},
}

func acquireTradeLog() *TradeLog {
	return tradeLogPool.Get().(*TradeLog)
}

func releaseTradeLog(log *TradeLog) {
	*log = TradeLog{}
	tradeLogPool.Put(log)
}

// NewTradeLog builds the event for a fill of buy against sell.
func NewTradeLog(seqID uint64, buy Order, sell Order, profit float64) *TradeLog {
	log := acquireTradeLog()
	log.ID = xid.New().String()
	log.SequenceID = seqID
	log.Quantity = buy.Quantity()
	log.BuyPrice = buy.Price()
	log.SellPrice = sell.Price()
	log.BuyTraderID = buy.TraderID()
	log.SellTraderID = sell.TraderID()
	log.BuyTime = buy.Key.Timestamp
	log.SellTime = sell.Key.Timestamp
	log.Profit = profit
	log.CreatedAt = time.Now().UTC()
	return log
}
