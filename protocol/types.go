package protocol

// Side represents the order side (Buy/Sell).
type Side int8

const (
	SideBuy  Side = 1
	SideSell Side = 2
)

// String returns the lower-case side name used by the text protocol.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	}
	return "unknown"
}

// ReportType selects which part of the market a print command writes.
type ReportType uint8

const (
	ReportAll    ReportType = 0
	ReportBuy    ReportType = 1
	ReportSell   ReportType = 2
	ReportLedger ReportType = 3
	ReportBank   ReportType = 4
)
