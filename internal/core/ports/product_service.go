package ports

import (
	"context"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// ProductInput carries the mutable fields of a catalog record.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Cost        float64
}

// ProductService defines plain CRUD over the catalog.
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
