// Package stable persists agrovets in the agrovet stable memory partition.
package stable

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var _ ports.Repository = (*Repository)(nil)

type agrovetRecord struct {
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Products  []string  `json:"products,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository stores agrovets in a stablemem.Map keyed by id.
type Repository struct {
	records *stablemem.Map[agrovetRecord]
}

// Open binds the repository to the agrovet partition of region.
func Open(region stablemem.Region) (*Repository, error) {
	records, err := stablemem.OpenMap[agrovetRecord](region, stablemem.AgrovetsMemory, nil)
	if err != nil {
		return nil, fmt.Errorf("open agrovet store: %w", err)
	}
	return &Repository{records: records}, nil
}

func (r *Repository) Insert(ctx context.Context, agrovet *domain.Agrovet) (*domain.Agrovet, error) {
	prev, existed, err := r.records.Insert(ctx, agrovet.ID, toRecord(agrovet))
	if err != nil {
		return nil, fmt.Errorf("store agrovet %d: %w", agrovet.ID, err)
	}
	if !existed {
		return nil, nil
	}
	return toDomain(agrovet.ID, prev), nil
}

func (r *Repository) Get(ctx context.Context, id uint64) (*domain.Agrovet, error) {
	record, ok, err := r.records.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load agrovet %d: %w", id, err)
	}
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toDomain(id, record), nil
}

func (r *Repository) Contains(ctx context.Context, id uint64) (bool, error) {
	return r.records.Contains(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Agrovet, error) {
	entries, err := r.records.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan agrovets: %w", err)
	}
	list := make([]*domain.Agrovet, 0, len(entries))
	for _, entry := range entries {
		list = append(list, toDomain(entry.ID, entry.Value))
	}
	return list, nil
}

func toRecord(a *domain.Agrovet) agrovetRecord {
	return agrovetRecord{
		Name:      a.Name,
		Location:  a.Location,
		Contact:   a.Contact,
		Email:     a.Email,
		Products:  append([]string(nil), a.Products...),
		CreatedAt: a.CreatedAt.UTC(),
	}
}

func toDomain(id uint64, record agrovetRecord) *domain.Agrovet {
	return &domain.Agrovet{
		ID:        id,
		Name:      record.Name,
		Location:  record.Location,
		Contact:   record.Contact,
		Email:     record.Email,
		Products:  record.Products,
		CreatedAt: record.CreatedAt,
	}
}
