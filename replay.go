package match

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/0x5487/heap-market/protocol"
)

// ReplayStats summarizes one pass over a command stream.
type ReplayStats struct {
	Lines     int `json:"lines"`
	Commands  int `json:"commands"`
	Malformed int `json:"malformed"`
	Rejected  int `json:"rejected"`
}

// Replay reads text protocol commands line by line from r and applies them in order.
// Reports go to w; with echo set each input line is written to w before it runs.
// Malformed lines and rejected orders are skipped and counted; only read and
// write failures stop the replay.
func (m *Market) Replay(r io.Reader, w io.Writer, echo bool) (ReplayStats, error) {
	var stats ReplayStats
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()
		stats.Lines++

		if echo {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return stats, err
			}
		}

		cmd, err := protocol.Parse(line)
		if err != nil {
			stats.Malformed++
			logger.Debug("line skipped", slog.Int("line", stats.Lines), slog.Any("error", err))
			continue
		}

		stats.Commands++
		if err := m.Execute(cmd, w); err != nil {
			if errors.Is(err, ErrInvalidPrice) || errors.Is(err, ErrInvalidQuantity) || errors.Is(err, ErrInvalidParam) {
				stats.Rejected++
				continue
			}
			return stats, fmt.Errorf("line %d: %w", stats.Lines, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read commands: %w", err)
	}
	return stats, nil
}
