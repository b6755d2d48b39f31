package match

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
	market    *Market
	publisher *MemoryPublishLog
}

func TestMarketTestSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) SetupTest() {
	suite.publisher = NewMemoryPublishLog()
	suite.market = NewMarket(suite.publisher)
}

func (suite *MarketTestSuite) TearDownTest() {
	suite.NoError(suite.market.Check())
}

func (suite *MarketTestSuite) TestRestingOrdersDoNotCross() {
	suite.NoError(suite.market.SubmitBuy(99, 5, 1))
	suite.NoError(suite.market.SubmitSell(101, 5, 2))

	suite.Len(suite.market.SnapshotBuyBook(), 1)
	suite.Len(suite.market.SnapshotSellBook(), 1)
	suite.Empty(suite.market.SnapshotLedger())
	suite.Equal(0, suite.publisher.Count())
	suite.Equal(0.0, suite.market.BankBalance())
}

func (suite *MarketTestSuite) TestPartialFillKeepsSellRemainder() {
	suite.NoError(suite.market.SubmitSell(100, 10, 1))
	suite.NoError(suite.market.SubmitSell(101, 5, 2))
	suite.NoError(suite.market.SubmitBuy(100, 8, 3))

	suite.Empty(suite.market.SnapshotBuyBook())
	suite.Equal([]BookEntry{
		{Price: 100, Timestamp: 0, Quantity: 2, TraderID: 1},
		{Price: 101, Timestamp: 1, Quantity: 5, TraderID: 2},
	}, suite.market.SnapshotSellBook())

	suite.Require().Equal(1, suite.publisher.Count())
	trade := suite.publisher.Get(0)
	suite.Equal(int64(8), trade.Quantity)
	suite.Equal(100.0, trade.BuyPrice)
	suite.Equal(100.0, trade.SellPrice)
	suite.Equal(3, trade.BuyTraderID)
	suite.Equal(1, trade.SellTraderID)
	suite.Equal(uint64(1), trade.SequenceID)
	suite.NotEmpty(trade.ID)

	ledger := suite.market.SnapshotLedger()
	suite.Equal(int64(8), ledger[3].Holdings)
	suite.Equal(-800.0, ledger[3].Balance)
	suite.Equal([]Order{newOrder(Buy, 100, 2, 8, 3)}, ledger[3].Buys)
	suite.Equal(int64(-8), ledger[1].Holdings)
	suite.Equal(800.0, ledger[1].Balance)
	suite.Equal([]Order{newOrder(Sell, 100, 0, 8, 1)}, ledger[1].Sells)
	suite.NotContains(ledger, 2)

	suite.Equal(0.0, suite.market.BankBalance())
}

func (suite *MarketTestSuite) TestPartialFillKeepsBuyRemainderAndCapturesSpread() {
	suite.NoError(suite.market.SubmitBuy(105, 10, 7))
	suite.NoError(suite.market.SubmitSell(100, 4, 8))

	suite.Equal([]BookEntry{{Price: 105, Timestamp: 0, Quantity: 6, TraderID: 7}}, suite.market.SnapshotBuyBook())
	suite.Empty(suite.market.SnapshotSellBook())
	suite.InDelta(20.0, suite.market.BankBalance(), 1e-9)

	ledger := suite.market.SnapshotLedger()
	suite.Equal(int64(4), ledger[7].Holdings)
	suite.InDelta(-420.0, ledger[7].Balance, 1e-9)
	suite.Equal(int64(-4), ledger[8].Holdings)
	suite.InDelta(400.0, ledger[8].Balance, 1e-9)

	trade := suite.publisher.Get(0)
	suite.InDelta(20.0, trade.Profit, 1e-9)
	suite.Equal(int64(0), trade.BuyTime)
	suite.Equal(int64(1), trade.SellTime)
}

func (suite *MarketTestSuite) TestEqualSizesLeaveNoRemainder() {
	suite.NoError(suite.market.SubmitSell(50, 3, 1))
	suite.NoError(suite.market.SubmitBuy(55, 3, 2))

	suite.Empty(suite.market.SnapshotBuyBook())
	suite.Empty(suite.market.SnapshotSellBook())
	suite.Equal(uint64(1), suite.market.TradeCount())
	suite.InDelta(15.0, suite.market.BankBalance(), 1e-9)
}

func (suite *MarketTestSuite) TestIncomingOrderSweepsSeveralLevels() {
	suite.NoError(suite.market.SubmitSell(101, 2, 1))
	suite.NoError(suite.market.SubmitSell(100, 3, 2))
	suite.NoError(suite.market.SubmitSell(103, 4, 3))
	suite.NoError(suite.market.SubmitBuy(102, 10, 4))

	suite.Require().Equal(2, suite.publisher.Count())
	first, second := suite.publisher.Get(0), suite.publisher.Get(1)
	suite.Equal(2, first.SellTraderID)
	suite.Equal(int64(3), first.Quantity)
	suite.Equal(1, second.SellTraderID)
	suite.Equal(int64(2), second.Quantity)

	// 5 shares left at 102 rest below the 103 ask.
	suite.Equal([]BookEntry{{Price: 102, Timestamp: 3, Quantity: 5, TraderID: 4}}, suite.market.SnapshotBuyBook())
	suite.Equal([]BookEntry{{Price: 103, Timestamp: 2, Quantity: 4, TraderID: 3}}, suite.market.SnapshotSellBook())
	suite.InDelta(2*3+1*2, suite.market.BankBalance(), 1e-9)

	ledger := suite.market.SnapshotLedger()
	suite.Len(ledger[4].Buys, 2)
	suite.Equal(int64(5), ledger[4].Holdings)
}

func (suite *MarketTestSuite) TestPriceTimePriority() {
	suite.NoError(suite.market.SubmitSell(100, 5, 1))
	suite.NoError(suite.market.SubmitSell(100, 5, 2))
	suite.NoError(suite.market.SubmitSell(99, 1, 3))

	suite.NoError(suite.market.SubmitBuy(100, 1, 10))
	suite.NoError(suite.market.SubmitBuy(100, 7, 11))

	suite.Require().Equal(3, suite.publisher.Count())
	suite.Equal(3, suite.publisher.Get(0).SellTraderID) // better price first
	suite.Equal(1, suite.publisher.Get(1).SellTraderID) // then earliest at 100
	suite.Equal(int64(5), suite.publisher.Get(1).Quantity)
	suite.Equal(2, suite.publisher.Get(2).SellTraderID)
	suite.Equal(int64(2), suite.publisher.Get(2).Quantity)

	suite.Equal([]BookEntry{{Price: 100, Timestamp: 1, Quantity: 3, TraderID: 2}}, suite.market.SnapshotSellBook())
}

func (suite *MarketTestSuite) TestRemainderKeepsTimePriority() {
	// Trader 1's remainder must stay ahead of trader 2 at the same price.
	suite.NoError(suite.market.SubmitBuy(100, 10, 1))
	suite.NoError(suite.market.SubmitBuy(100, 10, 2))
	suite.NoError(suite.market.SubmitSell(100, 4, 3))
	suite.NoError(suite.market.SubmitSell(100, 4, 4))

	suite.Require().Equal(2, suite.publisher.Count())
	suite.Equal(1, suite.publisher.Get(0).BuyTraderID)
	suite.Equal(1, suite.publisher.Get(1).BuyTraderID)

	bid, ok := suite.market.BestBid()
	suite.True(ok)
	suite.Equal(BookEntry{Price: 100, Timestamp: 0, Quantity: 2, TraderID: 1}, bid)
}

func (suite *MarketTestSuite) TestBestBidAndAsk() {
	_, ok := suite.market.BestBid()
	suite.False(ok)
	_, ok = suite.market.BestAsk()
	suite.False(ok)

	suite.NoError(suite.market.SubmitBuy(98, 1, 1))
	suite.NoError(suite.market.SubmitBuy(99, 1, 2))
	suite.NoError(suite.market.SubmitSell(102, 1, 3))
	suite.NoError(suite.market.SubmitSell(101, 1, 4))

	bid, _ := suite.market.BestBid()
	ask, _ := suite.market.BestAsk()
	suite.Equal(99.0, bid.Price)
	suite.Equal(101.0, ask.Price)
}

func (suite *MarketTestSuite) TestZeroQuantityIsNoop() {
	suite.NoError(suite.market.SubmitBuy(100, 0, 1))
	suite.NoError(suite.market.SubmitSell(100, 0, 2))

	suite.Empty(suite.market.SnapshotBuyBook())
	suite.Empty(suite.market.SnapshotSellBook())

	// No timestamp was consumed.
	suite.NoError(suite.market.SubmitSell(100, 1, 2))
	suite.Equal(int64(0), suite.market.SnapshotSellBook()[0].Timestamp)
}

func (suite *MarketTestSuite) TestInvalidInputRejected() {
	suite.ErrorIs(suite.market.SubmitBuy(100, -1, 1), ErrInvalidQuantity)
	suite.ErrorIs(suite.market.SubmitSell(math.NaN(), 1, 1), ErrInvalidPrice)
	suite.ErrorIs(suite.market.SubmitBuy(math.Inf(1), 1, 1), ErrInvalidPrice)
	suite.ErrorIs(suite.market.SubmitSell(math.Inf(-1), 1, 1), ErrInvalidPrice)

	suite.Empty(suite.market.SnapshotBuyBook())
	suite.Empty(suite.market.SnapshotSellBook())
}

func (suite *MarketTestSuite) TestNilPublisherDiscards() {
	market := NewMarket(nil)
	suite.NoError(market.SubmitSell(10, 1, 1))
	suite.NoError(market.SubmitBuy(10, 1, 2))
	suite.Equal(uint64(1), market.TradeCount())
}

func (suite *MarketTestSuite) TestMultiPublishLog() {
	a, b := NewMemoryPublishLog(), NewMemoryPublishLog()
	market := NewMarket(MultiPublishLog{a, b})
	suite.NoError(market.SubmitSell(10, 1, 1))
	suite.NoError(market.SubmitBuy(10, 1, 2))

	suite.Equal(1, a.Count())
	suite.Equal(1, b.Count())
	suite.Equal(a.Get(0).ID, b.Get(0).ID)
	suite.Len(a.Logs(), 1)
}
