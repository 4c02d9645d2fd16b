package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// ErrInvalidPayload signals the request violated a domain invariant.
var ErrInvalidPayload = fmt.Errorf("%w for order", outcome.ErrInvalidPayload)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyCustomer) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrTotalOverflow) {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return err
}
