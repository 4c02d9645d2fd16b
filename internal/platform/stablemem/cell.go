package stablemem

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
)

var cellKey = []byte{0}

// Cell is a single uint64 persisted in its own partition. A cell that was
// never written reads as its initial value.
type Cell struct {
	partition Partition
	initial   uint64
}

// OpenCell binds a cell to the partition addressed by id.
func OpenCell(region Region, id MemoryID, initial uint64) (*Cell, error) {
	partition, err := region.Partition(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return &Cell{partition: partition, initial: initial}, nil
}

// Get reads the current value.
func (c *Cell) Get(ctx context.Context) (uint64, error) {
	data, ok, err := c.partition.Get(ctx, cellKey)
	if err != nil {
		return 0, fmt.Errorf("read cell: %w", err)
	}
	if !ok {
		return c.initial, nil
	}
	return decodeCell(data)
}

// Set stores v and returns the value it replaced.
func (c *Cell) Set(ctx context.Context, v uint64) (uint64, error) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	old, existed, err := c.partition.Put(ctx, cellKey, buf)
	if err != nil {
		return 0, fmt.Errorf("write cell: %w", err)
	}
	if !existed {
		return c.initial, nil
	}
	return decodeCell(old)
}

// Increment atomically adds one and returns the new value.
func (c *Cell) Increment(ctx context.Context) (uint64, error) {
	v, err := c.partition.Increment(ctx, cellKey, c.initial)
	if err != nil {
		return 0, fmt.Errorf("increment cell: %w", err)
	}
	return v, nil
}

// NextCounter computes the value Increment stores over a stored counter
// (initial when ok is false) together with its encoding. Backends without a
// native counter call it inside their compare-and-set step.
func NextCounter(stored []byte, ok bool, initial uint64) (uint64, []byte, error) {
	current := initial
	if ok {
		var err error
		if current, err = decodeCell(stored); err != nil {
			return 0, nil, err
		}
	}
	if current == math.MaxUint64 {
		return 0, nil, ErrCounterOverflow
	}
	next := current + 1
	return next, binary.BigEndian.AppendUint64(nil, next), nil
}

func decodeCell(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("cell value has %d bytes, want 8", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
