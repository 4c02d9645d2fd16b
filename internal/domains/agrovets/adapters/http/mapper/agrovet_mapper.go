package mapper

import (
	"time"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
)

// Agrovet is the transport shape returned by the HTTP handlers.
type Agrovet struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Products  []string  `json:"products"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateAgrovetRequest is the body of POST /v1/agrovets.
type CreateAgrovetRequest struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Contact  string   `json:"contact"`
	Email    string   `json:"email"`
	Products []string `json:"products"`
}

// UpdateAgrovetRequest is the body of PATCH /v1/agrovets/{agrovetId}.
type UpdateAgrovetRequest struct {
	Name     types.Field[string] `json:"name"`
	Location types.Field[string] `json:"location"`
	Contact  types.Field[string] `json:"contact"`
	Email    types.Field[string] `json:"email"`
}

func ToCreateInput(req CreateAgrovetRequest) types.CreateAgrovetInput {
	return types.CreateAgrovetInput{
		Name:     req.Name,
		Location: req.Location,
		Contact:  req.Contact,
		Email:    req.Email,
		Products: req.Products,
	}
}

func ToUpdateInput(id uint64, req UpdateAgrovetRequest) types.UpdateAgrovetInput {
	return types.UpdateAgrovetInput{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
		Contact:  req.Contact,
		Email:    req.Email,
	}
}

func FromDomainAgrovet(a *domain.Agrovet) Agrovet {
	if a == nil {
		return Agrovet{}
	}
	products := a.Products
	if products == nil {
		products = []string{}
	}
	return Agrovet{
		ID:        a.ID,
		Name:      a.Name,
		Location:  a.Location,
		Contact:   a.Contact,
		Email:     a.Email,
		Products:  products,
		CreatedAt: a.CreatedAt,
	}
}

func FromDomainAgrovets(list []*domain.Agrovet) []Agrovet {
	out := make([]Agrovet, 0, len(list))
	for _, a := range list {
		out = append(out, FromDomainAgrovet(a))
	}
	return out
}
