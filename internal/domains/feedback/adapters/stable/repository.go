// Package stable persists feedback in the feedback stable memory partition.
package stable

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
	"github.com/Apurer/agrovet-registry/internal/platform/referential"
	"github.com/Apurer/agrovet-registry/internal/platform/stablemem"
)

var (
	_ ports.Repository       = (*Repository)(nil)
	_ referential.LinkSource = (*Repository)(nil)
)

type feedbackRecord struct {
	AgrovetID    uint64    `json:"agrovetId"`
	CustomerName string    `json:"customerName"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

type Repository struct {
	records *stablemem.Map[feedbackRecord]
}

func Open(region stablemem.Region) (*Repository, error) {
	records, err := stablemem.OpenMap[feedbackRecord](region, stablemem.FeedbackMemory, nil)
	if err != nil {
		return nil, fmt.Errorf("open feedback store: %w", err)
	}
	return &Repository{records: records}, nil
}

func (r *Repository) Insert(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	prev, existed, err := r.records.Insert(ctx, f.ID, toRecord(f))
	if err != nil {
		return nil, fmt.Errorf("store feedback %d: %w", f.ID, err)
	}
	if !existed {
		return nil, nil
	}
	return toDomain(f.ID, prev), nil
}

func (r *Repository) Get(ctx context.Context, id uint64) (*domain.Feedback, error) {
	record, ok, err := r.records.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load feedback %d: %w", id, err)
	}
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toDomain(id, record), nil
}

func (r *Repository) Contains(ctx context.Context, id uint64) (bool, error) {
	return r.records.Contains(ctx, id)
}

func (r *Repository) ListByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Feedback, error) {
	entries, err := r.records.Filter(ctx, func(_ uint64, rec feedbackRecord) bool { return rec.AgrovetID == agrovetID })
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	list := make([]*domain.Feedback, 0, len(entries))
	for _, e := range entries {
		list = append(list, toDomain(e.ID, e.Value))
	}
	return list, nil
}

// Links reports the agrovet each review is about.
func (r *Repository) Links(ctx context.Context) ([]referential.Link, error) {
	entries, err := r.records.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	links := make([]referential.Link, 0, len(entries))
	for _, e := range entries {
		links = append(links, referential.Link{Kind: "feedback", ID: e.ID, Target: referential.TargetAgrovet, TargetID: e.Value.AgrovetID})
	}
	return links, nil
}

func toRecord(f *domain.Feedback) feedbackRecord {
	return feedbackRecord{
		AgrovetID:    f.AgrovetID,
		CustomerName: f.CustomerName,
		Rating:       f.Rating,
		Comment:      f.Comment,
		Timestamp:    f.Timestamp.UTC(),
	}
}

func toDomain(id uint64, rec feedbackRecord) *domain.Feedback {
	return &domain.Feedback{
		ID:           id,
		AgrovetID:    rec.AgrovetID,
		CustomerName: rec.CustomerName,
		Rating:       rec.Rating,
		Comment:      rec.Comment,
		Timestamp:    rec.Timestamp,
	}
}
