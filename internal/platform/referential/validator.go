// Package referential checks foreign keys between entity stores. Every check
// is a fresh lookup against current store state.
package referential

import (
	"context"
	"fmt"
)

// Target names the entity kind a reference points at.
type Target string

const (
	TargetAgrovet Target = "agrovet"
	TargetProduct Target = "product"
)

// Index answers existence queries for one entity store.
type Index interface {
	Contains(ctx context.Context, id uint64) (bool, error)
}

// Link is one foreign key held by a stored record.
type Link struct {
	Kind     string
	ID       uint64
	Target   Target
	TargetID uint64
}

// LinkSource lists the foreign keys held by a store's records.
type LinkSource interface {
	Links(ctx context.Context) ([]Link, error)
}

// Validator resolves agrovet and product references.
type Validator struct {
	agrovets Index
	products Index
	sources  []LinkSource
}

func NewValidator(agrovets, products Index, sources ...LinkSource) *Validator {
	return &Validator{agrovets: agrovets, products: products, sources: sources}
}

func (v *Validator) AgrovetExists(ctx context.Context, id uint64) (bool, error) {
	ok, err := v.agrovets.Contains(ctx, id)
	if err != nil {
		return false, fmt.Errorf("lookup agrovet %d: %w", id, err)
	}
	return ok, nil
}

func (v *Validator) ProductExists(ctx context.Context, id uint64) (bool, error) {
	ok, err := v.products.Contains(ctx, id)
	if err != nil {
		return false, fmt.Errorf("lookup product %d: %w", id, err)
	}
	return ok, nil
}

// Audit returns every link whose target no longer resolves. Nothing is ever
// deleted through the command layer, so dangling links only appear after
// out-of-band edits to the backing storage.
func (v *Validator) Audit(ctx context.Context) ([]Link, error) {
	var dangling []Link
	for _, source := range v.sources {
		links, err := source.Links(ctx)
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			ok, err := v.exists(ctx, link)
			if err != nil {
				return nil, err
			}
			if !ok {
				dangling = append(dangling, link)
			}
		}
	}
	return dangling, nil
}

func (v *Validator) exists(ctx context.Context, link Link) (bool, error) {
	switch link.Target {
	case TargetAgrovet:
		return v.AgrovetExists(ctx, link.TargetID)
	case TargetProduct:
		return v.ProductExists(ctx, link.TargetID)
	default:
		return false, fmt.Errorf("unknown reference target %q", link.Target)
	}
}
