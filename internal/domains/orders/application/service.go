package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// Service orchestrates the order use cases.
type Service struct {
	repo       ports.Repository
	ids        ports.IDAllocator
	products   ports.ProductDirectory
	catalog    ports.ProductCatalog
	idem       ports.IdempotencyStore
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

// WithIdempotencyStore enables replay of orders placed with an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		if store != nil {
			s.idem = store
		}
	}
}

func NewService(repo ports.Repository, ids ports.IDAllocator, products ports.ProductDirectory, catalog ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		ids:        ids,
		products:   products,
		catalog:    catalog,
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

// CreateOrder places a pending order priced from the product's current price.
// With an idempotency key, a repeated payload returns the order the key first
// placed and publishes nothing; a different payload under the same key is
// rejected.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	var (
		placed   *domain.Order
		replayed bool
	)
	err := s.serializer.Exclusive(ctx, func(ctx context.Context) error {
		key, hash, err := s.idempotencyKey(input)
		if err != nil {
			return err
		}
		if key != "" {
			existing, err := s.replay(ctx, key, hash)
			if err != nil {
				return err
			}
			if existing != nil {
				placed, replayed = existing, true
				return nil
			}
		}

		if err := domain.ValidateRequest(input.CustomerName, input.Quantity); err != nil {
			return mapError(err)
		}
		ok, err := s.products.ProductExists(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", ports.ErrProductNotFound, input.ProductID)
		}
		price, err := s.catalog.UnitPrice(ctx, input.ProductID)
		if err != nil {
			return err
		}
		order, err := domain.NewOrder(0, input.ProductID, input.CustomerName, input.Quantity, price, s.now().UTC())
		if err != nil {
			return mapError(err)
		}
		id, err := s.ids.Next(ctx)
		if err != nil {
			return err
		}
		order.ID = id
		// The key is claimed before the order is stored, so no stored order
		// is ever left without its key. A key whose order never landed is
		// treated as unclaimed by replay.
		if key != "" {
			record := ports.IdempotencyRecord{Key: key, RequestHash: hash, OrderID: order.ID, CreatedAt: order.OrderDate}
			if err := s.idem.Save(ctx, record); err != nil {
				return fmt.Errorf("save idempotency key: %w", err)
			}
		}
		if _, err := s.repo.Insert(ctx, order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !replayed {
		s.publisher.Publish(ctx, events.New(events.OrderPlaced, placed.ID, placed.OrderDate, placed))
	}
	return placed, nil
}

// idempotencyKey returns an empty key when no store is configured or the
// caller sent none.
func (s *Service) idempotencyKey(input types.CreateOrderInput) (string, string, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idem == nil {
		return "", "", nil
	}
	if len(key) > MaxIdempotencyKeyLength {
		return "", "", fmt.Errorf("%w: idempotency key longer than %d bytes", ErrInvalidPayload, MaxIdempotencyKeyLength)
	}
	hash, err := FingerprintOrder(input)
	if err != nil {
		return "", "", err
	}
	return key, hash, nil
}

func (s *Service) replay(ctx context.Context, key, hash string) (*domain.Order, error) {
	record, err := s.idem.Get(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != hash {
		return nil, ports.ErrIdempotencyConflict
	}
	order, err := s.repo.Get(ctx, record.OrderID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("replay order %d: %w", record.OrderID, err)
	}
	return order, nil
}

// OrdersByAgrovet collects the agrovet's product ids, then the orders placed
// for any of them. No match is NotFound.
func (s *Service) OrdersByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Order, error) {
	var list []*domain.Order
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		productIDs, err := s.catalog.ProductIDsForAgrovet(ctx, agrovetID)
		if err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}
		set := make(map[uint64]struct{}, len(productIDs))
		for _, id := range productIDs {
			set[id] = struct{}{}
		}
		list, err = s.repo.ListByProducts(ctx, set)
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

var _ ports.Service = (*Service)(nil)
