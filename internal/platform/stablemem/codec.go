package stablemem

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// MaxRecordSize bounds every encoded record.
const MaxRecordSize = 512

// ErrRecordTooLarge reports a record whose encoding exceeds its byte budget.
var ErrRecordTooLarge = errors.New("encoded record exceeds size budget")

// Codec converts records to and from their stored bytes.
type Codec[V any] interface {
	Encode(v V) ([]byte, error)
	Decode(data []byte) (V, error)
}

// JSONCodec is a self-describing codec bounded by MaxBytes.
type JSONCodec[V any] struct {
	MaxBytes int
}

// NewJSONCodec returns a codec bounded by MaxRecordSize.
func NewJSONCodec[V any]() JSONCodec[V] {
	return JSONCodec[V]{MaxBytes: MaxRecordSize}
}

func (c JSONCodec[V]) Encode(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if limit := c.limit(); len(data) > limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrRecordTooLarge, len(data), limit)
	}
	return data, nil
}

func (c JSONCodec[V]) Decode(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode record: %w", err)
	}
	return v, nil
}

func (c JSONCodec[V]) limit() int {
	if c.MaxBytes <= 0 {
		return MaxRecordSize
	}
	return c.MaxBytes
}
