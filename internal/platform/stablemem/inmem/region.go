// Package inmem keeps stable memory partitions in process memory.
package inmem

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ stablemem.Region = (*Region)(nil)

// Region is an in-memory stable memory region. Partitions survive for the
// lifetime of the Region value, so reopening maps over the same Region
// behaves like a process restart over durable storage.
type Region struct {
	mu         sync.Mutex
	partitions map[stablemem.MemoryID]*Partition
	closed     bool
}

func NewRegion() *Region {
	return &Region{partitions: map[stablemem.MemoryID]*Partition{}}
}

// Partition returns the partition for id, creating it on first use.
func (r *Region) Partition(id stablemem.MemoryID) (stablemem.Partition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, stablemem.ErrClosed
	}
	p, ok := r.partitions[id]
	if !ok {
		p = &Partition{region: r, cells: map[string][]byte{}}
		r.partitions[id] = p
	}
	return p, nil
}

func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *Region) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Partition is one ordered key space.
type Partition struct {
	region *Region
	mu     sync.RWMutex
	cells  map[string][]byte
}

func (p *Partition) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	if err := p.check(key); err != nil {
		return nil, false, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.cells[string(key)]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

func (p *Partition) Put(_ context.Context, key, value []byte) ([]byte, bool, error) {
	if err := p.check(key); err != nil {
		return nil, false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	prev, existed := p.cells[string(key)]
	p.cells[string(key)] = bytes.Clone(value)
	return prev, existed, nil
}

func (p *Partition) Increment(_ context.Context, key []byte, initial uint64) (uint64, error) {
	if err := p.check(key); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	stored, ok := p.cells[string(key)]
	next, encoded, err := stablemem.NextCounter(stored, ok, initial)
	if err != nil {
		return 0, err
	}
	p.cells[string(key)] = encoded
	return next, nil
}

func (p *Partition) Has(_ context.Context, key []byte) (bool, error) {
	if err := p.check(key); err != nil {
		return false, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cells[string(key)]
	return ok, nil
}

// Scan walks a snapshot taken under the read lock, so fn may write back to
// the partition without deadlocking.
func (p *Partition) Scan(ctx context.Context, fn func(key, value []byte) error) error {
	if p.region.isClosed() {
		return stablemem.ErrClosed
	}
	p.mu.RLock()
	keys := make([]string, 0, len(p.cells))
	snapshot := make(map[string][]byte, len(p.cells))
	for k, v := range p.cells {
		keys = append(keys, k)
		snapshot[k] = bytes.Clone(v)
	}
	p.mu.RUnlock()
	sort.Strings(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn([]byte(k), snapshot[k]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Partition) check(key []byte) error {
	if p.region.isClosed() {
		return stablemem.ErrClosed
	}
	if len(key) == 0 {
		return stablemem.ErrEmptyKey
	}
	return nil
}
