package match

import "sync"

// PublishLog is an interface for publishing trade logs.
//
// IMPORTANT: Implementations must either:
//  1. Process logs synchronously before returning, OR
//  2. Clone the TradeLog data before returning
//
// The caller recycles TradeLog objects to a sync.Pool after Publish returns,
// so any asynchronous processing must work with cloned data.
type PublishLog interface {
	Publish(...*TradeLog)
}

// MemoryPublishLog stores logs in memory, useful for testing.
type MemoryPublishLog struct {
	mu     sync.RWMutex
	Trades []*TradeLog
}

// NewMemoryPublishLog creates a new MemoryPublishLog.
func NewMemoryPublishLog() *MemoryPublishLog {
	return &MemoryPublishLog{
		Trades: make([]*TradeLog, 0),
	}
}

// Publish appends copies of the logs to the in-memory slice.
func (m *MemoryPublishLog) Publish(trades ...*TradeLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, trade := range trades {
		cpy := new(TradeLog)
		*cpy = *trade
		m.Trades = append(m.Trades, cpy)
	}
}

// Count returns the number of logs stored.
func (m *MemoryPublishLog) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Trades)
}

// Get returns the log at the specified index.
func (m *MemoryPublishLog) Get(index int) *TradeLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Trades[index]
}

// Logs returns a copy of all logs stored.
func (m *MemoryPublishLog) Logs() []*TradeLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]*TradeLog, len(m.Trades))
	copy(logs, m.Trades)
	return logs
}

// DiscardPublishLog discards all logs, useful for benchmarking.
type DiscardPublishLog struct {
}

// NewDiscardPublishLog creates a new DiscardPublishLog.
func NewDiscardPublishLog() *DiscardPublishLog {
	return &DiscardPublishLog{}
}

// Publish does nothing.
func (p *DiscardPublishLog) Publish(trades ...*TradeLog) {

}

// MultiPublishLog fans logs out to several sinks in order.
type MultiPublishLog []PublishLog

// Publish forwards logs to every sink.
func (m MultiPublishLog) Publish(trades ...*TradeLog) {
	for _, p := range m {
		p.Publish(trades...)
	}
}
