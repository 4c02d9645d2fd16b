package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

// ErrInvalidPayload signals the request violated a domain invariant.
var ErrInvalidPayload = fmt.Errorf("%w for agrovet", outcome.ErrInvalidPayload)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyContact) ||
		errors.Is(err, domain.ErrEmptyEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return err
}
