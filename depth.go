package match

import (
	"github.com/igrmk/treemap/v2"
)

// level is the aggregate of all resting orders at one price.
type level struct {
	quantity int64
	count    int64
}

// aggregate folds a book's orders into price levels, sorted by price ascending.
func aggregate(orders []Order) *treemap.TreeMap[float64, level] {
	levels := treemap.New[float64, level]()
	for _, o := range orders {
		lvl, _ := levels.Get(o.Price())
		lvl.quantity += o.Quantity()
		lvl.count++
		levels.Set(o.Price(), lvl)
	}
	return levels
}

// Depth returns up to limit aggregated price levels of one side, best price first.
// A limit of zero returns every level.
func (m *Market) Depth(side Side, limit int) []DepthItem {
	m.mu.Lock()
	levels := aggregate(m.book(side).Elements())
	m.mu.Unlock()

	size := levels.Len()
	if limit > 0 && limit < size {
		size = limit
	}
	result := make([]DepthItem, 0, size)

	push := func(price float64, lvl level) bool {
		result = append(result, DepthItem{Price: price, Quantity: lvl.quantity, Count: lvl.count})
		return len(result) < size
	}

	// Bids are best at the highest price, asks at the lowest.
	if side == Buy {
		for it := levels.Reverse(); it.Valid(); it.Next() {
			if !push(it.Key(), it.Value()) {
				break
			}
		}
		return result
	}

	for it := levels.Iterator(); it.Valid(); it.Next() {
		if !push(it.Key(), it.Value()) {
			break
		}
	}
	return result
}
