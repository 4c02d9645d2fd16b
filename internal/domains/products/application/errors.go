package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// ErrInvalidPayload signals the request violated a domain invariant.
var ErrInvalidPayload = fmt.Errorf("%w for product", outcome.ErrInvalidPayload)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyCategory) ||
		errors.Is(err, domain.ErrZeroPrice) {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return err
}
