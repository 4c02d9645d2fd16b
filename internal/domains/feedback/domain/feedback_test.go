package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewFeedback_RatingBounds(t *testing.T) {
	for _, rating := range []float64{0, 2.5, 5} {
		_, err := NewFeedback(0, 1, "X", rating, "", time.Now())
		require.NoError(t, err, "rating %v", rating)
	}
	for _, rating := range []float64{-0.1, 5.01, math.NaN(), math.Inf(1)} {
		_, err := NewFeedback(0, 1, "X", rating, "", time.Now())
		require.ErrorIs(t, err, ErrInvalidRating, "rating %v", rating)
	}
}

func TestNewFeedback_RequiresCustomer(t *testing.T) {
	_, err := NewFeedback(0, 1, "", 4, "great", time.Now())
	require.ErrorIs(t, err, ErrEmptyCustomer)
}
