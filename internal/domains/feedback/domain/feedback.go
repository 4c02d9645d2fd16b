package domain

import (
	"errors"
	"math"
	"time"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

var (
	ErrEmptyCustomer = errors.New("customer name is required")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// Feedback is a customer review of an agrovet.
type Feedback struct {
	ID           uint64
	AgrovetID    uint64
	CustomerName string
	Rating       float64
	Comment      string
	Timestamp    time.Time
}

func NewFeedback(id, agrovetID uint64, customerName string, rating float64, comment string, at time.Time) (*Feedback, error) {
	f := &Feedback{
		ID:           id,
		AgrovetID:    agrovetID,
		CustomerName: customerName,
		Rating:       rating,
		Comment:      comment,
		Timestamp:    at,
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Feedback) Validate() error {
	if f.CustomerName == "" {
		return ErrEmptyCustomer
	}
	if math.IsNaN(f.Rating) || f.Rating < MinRating || f.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
