package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/dispatch"
	"github.com/Apurer/agrovet-registry/internal/shared/events"
)

// Service orchestrates the feedback use cases.
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

func (s *Service) CreateFeedback(ctx context.Context, input types.CreateFeedbackInput) (*domain.Feedback, error) {
	var created *domain.Feedback
	err := s.serializer.Exclusive(ctx, func(ctx context.Context) error {
		feedback, err := domain.NewFeedback(0, input.AgrovetID, input.CustomerName, input.Rating, input.Comment, s.now().UTC())
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
		feedback.ID = id
		if _, err := s.repo.Insert(ctx, feedback); err != nil {
			return err
		}
		created = feedback
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.New(events.FeedbackCreated, created.ID, created.Timestamp, created))
	return created, nil
}

func (s *Service) FeedbackByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Feedback, error) {
	var list []*domain.Feedback
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

var _ ports.Service = (*Service)(nil)
