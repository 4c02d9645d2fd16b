package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewOrder_PricesPendingOrder(t *testing.T) {
	at := time.Now()
	order, err := NewOrder(3, 2, "Jane", 3, 100, at)
	require.NoError(t, err)
	require.Equal(t, uint64(300), order.TotalPrice)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, at, order.OrderDate)
}

func TestNewOrder_Validation(t *testing.T) {
	_, err := NewOrder(0, 2, "", 3, 100, time.Now())
	require.ErrorIs(t, err, ErrEmptyCustomer)
	// only the empty string counts as missing
	order, err := NewOrder(0, 2, " ", 3, 100, time.Now())
	require.NoError(t, err)
	require.Equal(t, " ", order.CustomerName)
	_, err = NewOrder(0, 2, "Jane", 0, 100, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = NewOrder(0, 2, "Jane", 2, math.MaxUint64, time.Now())
	require.ErrorIs(t, err, ErrTotalOverflow)
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusCancelled.Valid())
	require.False(t, Status("shipped").Valid())
}
