// Package idalloc issues the identifiers shared by every entity kind.
package idalloc

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

// ErrExhausted is returned once the 64-bit id space has been used up.
var ErrExhausted = errors.New("identifier space exhausted")

// Allocator hands out strictly increasing ids starting at 1. The last issued
// id is persisted in the counter partition, so a new Allocator over the same
// region resumes where the previous one stopped. Every id comes from one
// atomic increment of the backend, so allocators in separate processes over
// the same region never issue the same id.
type Allocator struct {
	cell *stablemem.Cell
}

// Open binds an allocator to the counter partition of region.
func Open(region stablemem.Region) (*Allocator, error) {
	cell, err := stablemem.OpenCell(region, stablemem.CounterMemory, 0)
	if err != nil {
		return nil, fmt.Errorf("open id counter: %w", err)
	}
	return New(cell), nil
}

func New(cell *stablemem.Cell) *Allocator {
	return &Allocator{cell: cell}
}

// Next reserves and returns the next id.
func (a *Allocator) Next(ctx context.Context) (uint64, error) {
	id, err := a.cell.Increment(ctx)
	if err != nil {
		if errors.Is(err, stablemem.ErrCounterOverflow) {
			return 0, ErrExhausted
		}
		return 0, err
	}
	return id, nil
}

// Current returns the last issued id, 0 when none has been issued.
func (a *Allocator) Current(ctx context.Context) (uint64, error) {
	return a.cell.Get(ctx)
}
