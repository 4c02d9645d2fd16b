// Package state owns the process-wide stores and allocator and builds the
// command services over them. It is constructed once at startup.
package state

import (
	"context"
	"fmt"
	"time"

	agrovetstable "github.com/Apurer/agrovet-registry/internal/domains/agrovets/adapters/stable"
	agrovetapp "github.com/Apurer/agrovet-registry/internal/domains/agrovets/application"
	feedbackstable "github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/stable"
	feedbackapp "github.com/Apurer/agrovet-registry/internal/domains/feedback/application"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/catalog"
	orderstable "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/stable"
	orderapp "github.com/Apurer/agrovet-registry/internal/domains/orders/application"
	productstable "github.com/Apurer/agrovet-registry/internal/domains/products/adapters/stable"
	productapp "github.com/Apurer/agrovet-registry/internal/domains/products/application"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/platform/idalloc"
	"github.com/Apurer/agrovet-registry/internal/platform/referential"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// State is the dependency root: one region, one allocator, four stores.
type State struct {
	Region   stablemem.Region
	IDs      *idalloc.Allocator
	Agrovets *agrovetstable.Repository
	Products *productstable.Repository
	Orders   *orderstable.Repository
	Feedback *feedbackstable.Repository
	// Idempotency remembers which order each client idempotency key placed.
	Idempotency *orderstable.IdempotencyStore
	Validator   *referential.Validator

	AgrovetService  *agrovetapp.Service
	ProductService  *productapp.Service
	OrderService    *orderapp.Service
	FeedbackService *feedbackapp.Service

	serializer dispatch.Serializer
	publisher  events.Publisher
	now        func() time.Time
}

type Option func(*State)

func WithSerializer(serializer dispatch.Serializer) Option {
	return func(s *State) {
		if serializer != nil {
			s.serializer = serializer
		}
	}
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *State) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *State) {
		if now != nil {
			s.now = now
		}
	}
}

// Open binds every store to its partition in region. Whatever the region
// already holds is resumed, including the id counter.
func Open(ctx context.Context, region stablemem.Region, opts ...Option) (*State, error) {
	s := &State{
		Region:     region,
		serializer: dispatch.NewLocal(),
		publisher:  events.Noop{},
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	var err error
	if s.IDs, err = idalloc.Open(region); err != nil {
		return nil, err
	}
	if s.Agrovets, err = agrovetstable.Open(region); err != nil {
		return nil, err
	}
	if s.Products, err = productstable.Open(region); err != nil {
		return nil, err
	}
	if s.Orders, err = orderstable.Open(region); err != nil {
		return nil, err
	}
	if s.Feedback, err = feedbackstable.Open(region); err != nil {
		return nil, err
	}
	if s.Idempotency, err = orderstable.OpenIdempotencyStore(region); err != nil {
		return nil, err
	}
	// touch the counter so an unreachable backend fails at startup
	if _, err := s.IDs.Current(ctx); err != nil {
		return nil, fmt.Errorf("read id counter: %w", err)
	}

	s.Validator = referential.NewValidator(s.Agrovets, s.Products, s.Products, s.Orders, s.Feedback)

	s.AgrovetService = agrovetapp.NewService(s.Agrovets, s.IDs,
		agrovetapp.WithSerializer(s.serializer), agrovetapp.WithPublisher(s.publisher), agrovetapp.WithClock(s.now))
	s.ProductService = productapp.NewService(s.Products, s.IDs, s.Validator,
		productapp.WithSerializer(s.serializer), productapp.WithPublisher(s.publisher), productapp.WithClock(s.now))
	s.OrderService = orderapp.NewService(s.Orders, s.IDs, s.Validator, catalog.New(s.Products),
		orderapp.WithSerializer(s.serializer), orderapp.WithPublisher(s.publisher), orderapp.WithClock(s.now), orderapp.WithIdempotencyStore(s.Idempotency))
	s.FeedbackService = feedbackapp.NewService(s.Feedback, s.IDs, s.Validator,
		feedbackapp.WithSerializer(s.serializer), feedbackapp.WithPublisher(s.publisher), feedbackapp.WithClock(s.now))
	return s, nil
}

// Audit lists references whose target is missing, under the shared lock.
func (s *State) Audit(ctx context.Context) ([]referential.Link, error) {
	var dangling []referential.Link
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		var err error
		dangling, err = s.Validator.Audit(ctx)
		return err
	})
	return dangling, err
}

func (s *State) Close() error {
	return s.Region.Close()
}
