package match

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/0x5487/heap-market/protocol"
)

// ErrSnapshotChecksum is returned when a snapshot body does not match its checksum.
var ErrSnapshotChecksum = errors.New("snapshot checksum mismatch")

// MarketSnapshot contains the full state of a Market.
type MarketSnapshot struct {
	EngineVersion string         `json:"engine_version"`
	Timestamp     int64          `json:"timestamp"` // Unix Nano
	Counter       int64          `json:"counter"`   // Next order timestamp
	TradeSeqID    uint64         `json:"trade_seq_id"`
	Bank          float64        `json:"bank"`
	Bids          []BookEntry    `json:"bids"`   // Heap-shape order
	Asks          []BookEntry    `json:"asks"`   // Heap-shape order
	Ledger        []LedgerRecord `json:"ledger"` // Ascending trader id
}

// snapshotFile is the stored layout: the encoded snapshot plus a CRC32 of it.
type snapshotFile struct {
	Checksum uint32 `json:"checksum"`
	Body     []byte `json:"body"`
}

// Snapshot captures the market state in one critical section.
func (m *Market) Snapshot() *MarketSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &MarketSnapshot{
		EngineVersion: Version,
		Timestamp:     time.Now().UnixNano(),
		Counter:       m.counter,
		TradeSeqID:    m.tradeSeq,
		Bank:          m.bank,
		Bids:          snapshotBook(m.buyBook),
		Asks:          snapshotBook(m.sellBook),
		Ledger:        m.ledger.Records(),
	}
}

// WriteSnapshot encodes the current state with serializer and writes it to w.
func (m *Market) WriteSnapshot(w io.Writer, serializer protocol.Serializer) error {
	body, err := serializer.Marshal(m.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	data, err := serializer.Marshal(snapshotFile{Checksum: crc32.ChecksumIEEE(body), Body: body})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = w.Write(data)
	return err
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot and verifies its checksum.
func ReadSnapshot(r io.Reader, serializer protocol.Serializer) (*MarketSnapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file snapshotFile
	if err := serializer.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if crc32.ChecksumIEEE(file.Body) != file.Checksum {
		return nil, ErrSnapshotChecksum
	}

	snap := new(MarketSnapshot)
	if err := serializer.Unmarshal(file.Body, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
