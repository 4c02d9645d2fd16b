package mapper

import (
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
)

type Feedback struct {
	ID           uint64    `json:"id"`
	AgrovetID    uint64    `json:"agrovetId"`
	CustomerName string    `json:"customerName"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	Timestamp    time.Time `json:"timestamp"`
}

// CreateFeedbackRequest is the body of POST /v1/feedback.
type CreateFeedbackRequest struct {
	AgrovetID    uint64  `json:"agrovetId"`
	CustomerName string  `json:"customerName"`
	Rating       float64 `json:"rating"`
	Comment      string  `json:"comment"`
}

func ToCreateInput(req CreateFeedbackRequest) types.CreateFeedbackInput {
	return types.CreateFeedbackInput{
		AgrovetID:    req.AgrovetID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
}

func FromDomainFeedback(f *domain.Feedback) Feedback {
	if f == nil {
		return Feedback{}
	}
	return Feedback{
		ID:           f.ID,
		AgrovetID:    f.AgrovetID,
		CustomerName: f.CustomerName,
		Rating:       f.Rating,
		Comment:      f.Comment,
		Timestamp:    f.Timestamp,
	}
}

func FromDomainFeedbackList(list []*domain.Feedback) []Feedback {
	out := make([]Feedback, 0, len(list))
	for _, f := range list {
		out = append(out, FromDomainFeedback(f))
	}
	return out
}
