package ports

import (
	"context"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
)

// Service exposes the agrovet use cases to adapters.
type Service interface {
	CreateAgrovet(ctx context.Context, input types.CreateAgrovetInput) (*domain.Agrovet, error)
	GetAgrovetByID(ctx context.Context, id uint64) (*domain.Agrovet, error)
	ListAgrovets(ctx context.Context) ([]*domain.Agrovet, error)
	UpdateAgrovet(ctx context.Context, input types.UpdateAgrovetInput) (*domain.Agrovet, error)
}
