package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/products/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// Service orchestrates the product catalog use cases.
type Service struct {
	repo       ports.Repository
	ids        ports.IDAllocator
	agrovets   ports.AgrovetDirectory
	serializer dispatch.Serializer
	publisher  events.Publisher
	now        func() time.Time
}

type Option func(*Service)

func WithSerializer(serializer dispatch.Serializer) Option {
	return func(s *Service) {
		if serializer != nil {
			s.serializer = serializer
		}
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, ids ports.IDAllocator, agrovets ports.AgrovetDirectory, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		ids:        ids,
		agrovets:   agrovets,
		serializer: dispatch.NewLocal(),
		publisher:  events.Noop{},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateProduct lists a new product under an existing agrovet. Field checks
// run first, then the agrovet reference, and only then is an id allocated.
func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	var created *domain.Product
	err := s.serializer.Exclusive(ctx, func(ctx context.Context) error {
		product, err := domain.NewProduct(0, input.AgrovetID, input.Name, input.Category, input.Price, input.Stock)
		if err != nil {
			return mapError(err)
		}
		ok, err := s.agrovets.AgrovetExists(ctx, input.AgrovetID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ports.ErrAgrovetNotFound, input.AgrovetID)
		}
		id, err := s.ids.Next(ctx)
		if err != nil {
			return err
		}
		product.ID = id
		if _, err := s.repo.Insert(ctx, product); err != nil {
			return err
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.New(events.ProductCreated, created.ID, s.now().UTC(), created))
	return created, nil
}

// ProductsByAgrovet lists the products of one agrovet; no match is NotFound.
func (s *Service) ProductsByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Product, error) {
	var list []*domain.Product
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.ListByAgrovet(ctx, agrovetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w for agrovet %d", ports.ErrNotFound, agrovetID)
	}
	return list, nil
}

// StockSummary projects name, stock and availability over every product.
func (s *Service) StockSummary(ctx context.Context) ([]domain.StockLevel, error) {
	var list []*domain.Product
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ports.ErrNoProducts
	}
	summary := make([]domain.StockLevel, 0, len(list))
	for _, p := range list {
		summary = append(summary, p.StockLevel())
	}
	return summary, nil
}

var _ ports.Service = (*Service)(nil)
