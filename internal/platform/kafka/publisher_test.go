package kafka

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

type fakeWriter struct {
	messages []sdk.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...sdk.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_EncodesEventKeyedByEntity(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewPublisher(writer, nil)
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	pub.Publish(context.Background(), events.New(events.OrderPlaced, 3, at, map[string]uint64{"totalPrice": 300}))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "3", string(msg.Key))
	require.Equal(t, at, msg.Time)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, events.OrderPlaced, decoded["type"])
	require.EqualValues(t, 3, decoded["entityId"])
	require.EqualValues(t, 300, decoded["payload"].(map[string]any)["totalPrice"])

	require.NoError(t, pub.Close())
	require.True(t, writer.closed)
}

func TestPublisher_LogsWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	pub := NewPublisher(&fakeWriter{err: errors.New("broker down")}, logger)

	pub.Publish(context.Background(), events.New(events.AgrovetCreated, 1, time.Now(), nil))

	require.Contains(t, buf.String(), "broker down")
	require.Contains(t, buf.String(), events.AgrovetCreated)
}
