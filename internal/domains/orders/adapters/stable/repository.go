// Package stable persists orders in the order stable memory partition.
package stable

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/referential"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var (
	_ ports.Repository       = (*Repository)(nil)
	_ referential.LinkSource = (*Repository)(nil)
)

type orderRecord struct {
	ProductID    uint64    `json:"productId"`
	CustomerName string    `json:"customerName"`
	Quantity     uint64    `json:"quantity"`
	TotalPrice   uint64    `json:"totalPrice"`
	OrderDate    time.Time `json:"orderDate"`
	Status       string    `json:"status"`
}

type Repository struct {
	records *stablemem.Map[orderRecord]
}

func Open(region stablemem.Region) (*Repository, error) {
	records, err := stablemem.OpenMap[orderRecord](region, stablemem.OrdersMemory, nil)
	if err != nil {
		return nil, fmt.Errorf("open order store: %w", err)
	}
	return &Repository{records: records}, nil
}

func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	prev, existed, err := r.records.Insert(ctx, order.ID, toRecord(order))
	if err != nil {
		return nil, fmt.Errorf("store order %d: %w", order.ID, err)
	}
	if !existed {
		return nil, nil
	}
	return toDomain(order.ID, prev)
}

func (r *Repository) Get(ctx context.Context, id uint64) (*domain.Order, error) {
	record, ok, err := r.records.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toDomain(id, record)
}

func (r *Repository) Contains(ctx context.Context, id uint64) (bool, error) {
	return r.records.Contains(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.filter(ctx, nil)
}

func (r *Repository) ListByProducts(ctx context.Context, productIDs map[uint64]struct{}) ([]*domain.Order, error) {
	return r.filter(ctx, func(_ uint64, rec orderRecord) bool {
		_, ok := productIDs[rec.ProductID]
		return ok
	})
}

// Links reports the product each order was placed for.
func (r *Repository) Links(ctx context.Context) ([]referential.Link, error) {
	entries, err := r.records.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	links := make([]referential.Link, 0, len(entries))
	for _, e := range entries {
		links = append(links, referential.Link{Kind: "order", ID: e.ID, Target: referential.TargetProduct, TargetID: e.Value.ProductID})
	}
	return links, nil
}

func (r *Repository) filter(ctx context.Context, keep func(uint64, orderRecord) bool) ([]*domain.Order, error) {
	entries, err := r.records.Filter(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("scan orders: %w", err)
	}
	list := make([]*domain.Order, 0, len(entries))
	for _, e := range entries {
		order, err := toDomain(e.ID, e.Value)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	return list, nil
}

func toRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ProductID:    o.ProductID,
		CustomerName: o.CustomerName,
		Quantity:     o.Quantity,
		TotalPrice:   o.TotalPrice,
		OrderDate:    o.OrderDate.UTC(),
		Status:       string(o.Status),
	}
}

func toDomain(id uint64, rec orderRecord) (*domain.Order, error) {
	if status := domain.Status(rec.Status); !status.Valid() {
		return nil, fmt.Errorf("order %d has unknown status %q", id, rec.Status)
	}
	return &domain.Order{
		ID:           id,
		ProductID:    rec.ProductID,
		CustomerName: rec.CustomerName,
		Quantity:     rec.Quantity,
		TotalPrice:   rec.TotalPrice,
		OrderDate:    rec.OrderDate,
		Status:       domain.Status(rec.Status),
	}, nil
}
