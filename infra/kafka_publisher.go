package infra

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	match "github.com/0x5487/heap-market"
	"github.com/0x5487/heap-market/protocol"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublishLog sends every trade log to a Kafka topic, keyed by trade id.
// Messages are encoded before Publish returns, so pooled logs are safe to recycle.
type KafkaPublishLog struct {
	writer     messageWriter
	serializer protocol.Serializer
	timeout    time.Duration
	logger     *slog.Logger
}

var _ match.PublishLog = (*KafkaPublishLog)(nil)

// NewKafkaPublishLog creates a synchronous producer for cfg.Kafka.
func NewKafkaPublishLog(cfg *Config, logger *slog.Logger) *KafkaPublishLog {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaPublishLog(writer, cfg.KafkaWriteTimeout(), logger)
}

func newKafkaPublishLog(writer messageWriter, timeout time.Duration, logger *slog.Logger) *KafkaPublishLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublishLog{
		writer:     writer,
		serializer: protocol.DefaultJSONSerializer{},
		timeout:    timeout,
		logger:     logger,
	}
}

// Publish encodes and writes the logs as one batch. Failures are logged, not
// returned: the market has already committed the fills.
func (p *KafkaPublishLog) Publish(trades ...*match.TradeLog) {
	if len(trades) == 0 {
		return
	}

	msgs := make([]kafka.Message, 0, len(trades))
	for _, trade := range trades {
		value, err := p.serializer.Marshal(trade)
		if err != nil {
			p.logger.Error("encode trade log failed", slog.String("trade_id", trade.ID), slog.Any("error", err))
			continue
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(trade.ID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "seq_id", Value: []byte(strconv.FormatUint(trade.SequenceID, 10))},
			},
		})
	}
	if len(msgs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Error("publish trade logs failed", slog.Int("count", len(msgs)), slog.Any("error", err))
	}
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublishLog) Close() error {
	return p.writer.Close()
}
