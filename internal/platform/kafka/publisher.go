// Package kafka publishes domain events to a Kafka topic.
package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

const DefaultTopic = "agrovet.events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

var _ events.Publisher = (*Publisher)(nil)

// Publisher writes each event as one JSON message keyed by entity id, so all
// events for an entity land on the same partition.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter builds an asynchronous writer; delivery failures are logged from
// the completion callback.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *sdk.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sdk.Writer{
		Addr:         sdk.TCP(brokers...),
		Topic:        topic,
		Balancer:     &sdk.Hash{},
		RequiredAcks: sdk.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []sdk.Message, err error) {
			if err != nil {
				logger.Error("deliver events", slog.Int("count", len(messages)), slog.String("error", err.Error()))
			}
		},
	}
}

func NewPublisher(writer messageWriter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{writer: writer, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "encode event", slog.String("event.type", event.Type), slog.String("error", err.Error()))
		return
	}
	msg := sdk.Message{
		Key:   []byte(strconv.FormatUint(event.EntityID, 10)),
		Value: value,
		Headers: []sdk.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, "publish event",
			slog.String("event.type", event.Type),
			slog.Uint64("entity.id", event.EntityID),
			slog.String("error", err.Error()))
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
