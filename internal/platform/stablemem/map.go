package stablemem

import (
	"context"
	"errors"
	"fmt"
)

// Entry pairs a decoded record with its identifier.
type Entry[V any] struct {
	ID    uint64
	Value V
}

// Map is an ordered uint64 -> V collection persisted in one partition.
type Map[V any] struct {
	partition Partition
	codec     Codec[V]
}

// NewMap binds a typed map to a partition.
func NewMap[V any](partition Partition, codec Codec[V]) *Map[V] {
	if codec == nil {
		codec = NewJSONCodec[V]()
	}
	return &Map[V]{partition: partition, codec: codec}
}

// OpenMap fetches the partition from the region and binds a map to it.
func OpenMap[V any](region Region, id MemoryID, codec Codec[V]) (*Map[V], error) {
	partition, err := region.Partition(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return NewMap[V](partition, codec), nil
}

// Insert stores v under id and returns the record it replaced, if any.
func (m *Map[V]) Insert(ctx context.Context, id uint64, v V) (V, bool, error) {
	var prev V
	data, err := m.codec.Encode(v)
	if err != nil {
		return prev, false, err
	}
	old, existed, err := m.partition.Put(ctx, EncodeKey(id), data)
	if err != nil {
		return prev, false, fmt.Errorf("insert %d: %w", id, err)
	}
	if !existed {
		return prev, false, nil
	}
	prev, err = m.codec.Decode(old)
	if err != nil {
		return prev, true, fmt.Errorf("insert %d: previous value: %w", id, err)
	}
	return prev, true, nil
}

// Get returns the record stored under id.
func (m *Map[V]) Get(ctx context.Context, id uint64) (V, bool, error) {
	var v V
	data, ok, err := m.partition.Get(ctx, EncodeKey(id))
	if err != nil {
		return v, false, fmt.Errorf("get %d: %w", id, err)
	}
	if !ok {
		return v, false, nil
	}
	v, err = m.codec.Decode(data)
	if err != nil {
		return v, false, fmt.Errorf("get %d: %w", id, err)
	}
	return v, true, nil
}

// Contains reports whether id is present.
func (m *Map[V]) Contains(ctx context.Context, id uint64) (bool, error) {
	ok, err := m.partition.Has(ctx, EncodeKey(id))
	if err != nil {
		return false, fmt.Errorf("contains %d: %w", id, err)
	}
	return ok, nil
}

// Scan returns every entry by ascending id.
func (m *Map[V]) Scan(ctx context.Context) ([]Entry[V], error) {
	return m.Filter(ctx, nil)
}

// Filter returns the entries accepted by keep, by ascending id. A nil keep
// accepts everything.
func (m *Map[V]) Filter(ctx context.Context, keep func(id uint64, v V) bool) ([]Entry[V], error) {
	var entries []Entry[V]
	err := m.partition.Scan(ctx, func(key, value []byte) error {
		id, err := DecodeKey(key)
		if err != nil {
			return err
		}
		v, err := m.codec.Decode(value)
		if err != nil {
			return fmt.Errorf("scan %d: %w", id, err)
		}
		if keep == nil || keep(id, v) {
			entries = append(entries, Entry[V]{ID: id, Value: v})
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrStopScan) {
		return nil, err
	}
	return entries, nil
}

// Len counts stored records.
func (m *Map[V]) Len(ctx context.Context) (int, error) {
	n := 0
	err := m.partition.Scan(ctx, func(_, _ []byte) error {
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
