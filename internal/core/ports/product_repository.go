package ports

import (
	"context"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog records.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
