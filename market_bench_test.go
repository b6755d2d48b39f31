package match

import (
	"math/rand"
	"testing"
)

func BenchmarkMarketSubmit(b *testing.B) {
	market := NewMarket(NewDiscardPublishLog())
	rng := rand.New(rand.NewSource(1))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		price := float64(rng.Intn(100) + 950)
		qty := int64(rng.Intn(10) + 1)
		if i%2 == 0 {
			_ = market.SubmitBuy(price, qty, i%100)
		} else {
			_ = market.SubmitSell(price, qty, i%100)
		}
	}
}

func BenchmarkMarketRestingBook(b *testing.B) {
	market := NewMarket(NewDiscardPublishLog())

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Non-crossing prices grow both heaps.
		_ = market.SubmitBuy(float64(1000-i%500), 1, i)
		_ = market.SubmitSell(float64(2000+i%500), 1, i)
	}
}
