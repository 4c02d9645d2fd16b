package application

import (
	"context"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// Service orchestrates the agrovet use cases.
type Service struct {
	repo       ports.Repository
	ids        ports.IDAllocator
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

// NewService wires the agrovet service with its dependencies.
func NewService(repo ports.Repository, ids ports.IDAllocator, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		ids:        ids,
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

// CreateAgrovet validates the payload, then allocates an id and stores the
// new agrovet.
func (s *Service) CreateAgrovet(ctx context.Context, input types.CreateAgrovetInput) (*domain.Agrovet, error) {
	var created *domain.Agrovet
	err := s.serializer.Exclusive(ctx, func(ctx context.Context) error {
		agrovet, err := domain.NewAgrovet(0, input.Name, input.Location, input.Contact, input.Email, input.Products, s.now().UTC())
		if err != nil {
			return mapError(err)
		}
		id, err := s.ids.Next(ctx)
		if err != nil {
			return err
		}
		agrovet.ID = id
		if _, err := s.repo.Insert(ctx, agrovet); err != nil {
			return err
		}
		created = agrovet
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.New(events.AgrovetCreated, created.ID, created.CreatedAt, created))
	return created, nil
}

func (s *Service) GetAgrovetByID(ctx context.Context, id uint64) (*domain.Agrovet, error) {
	var agrovet *domain.Agrovet
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		var err error
		agrovet, err = s.repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return agrovet, nil
}

// ListAgrovets returns every agrovet; an empty registry is reported as
// ports.ErrNoAgrovets.
func (s *Service) ListAgrovets(ctx context.Context) ([]*domain.Agrovet, error) {
	var list []*domain.Agrovet
	err := s.serializer.Shared(ctx, func(ctx context.Context) error {
		var err error
		list, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ports.ErrNoAgrovets
	}
	return list, nil
}

// UpdateAgrovet overwrites the supplied attributes and stores the result
// under the same id.
func (s *Service) UpdateAgrovet(ctx context.Context, input types.UpdateAgrovetInput) (*domain.Agrovet, error) {
	var updated *domain.Agrovet
	err := s.serializer.Exclusive(ctx, func(ctx context.Context) error {
		agrovet, err := s.repo.Get(ctx, input.ID)
		if err != nil {
			return err
		}
		applyUpdate(agrovet, input)
		if _, err := s.repo.Insert(ctx, agrovet); err != nil {
			return err
		}
		updated = agrovet
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.New(events.AgrovetUpdated, updated.ID, s.now().UTC(), updated))
	return updated, nil
}

func applyUpdate(target *domain.Agrovet, input types.UpdateAgrovetInput) {
	if name, ok := input.Name.Get(); ok {
		target.Rename(name)
	}
	if location, ok := input.Location.Get(); ok {
		target.Relocate(location)
	}
	if contact, ok := input.Contact.Get(); ok {
		target.UpdateContact(contact)
	}
	if email, ok := input.Email.Get(); ok {
		target.UpdateEmail(email)
	}
}

var _ ports.Service = (*Service)(nil)
