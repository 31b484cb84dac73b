package port

import (
	"context"

	"github.com/google/uuid"

	"kioskpos/internal/domain"
)

type ProductRepository interface {
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)

	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	// UpdateProduct applies the non-nil fields of patch and returns the
	// updated product.
	UpdateProduct(ctx context.Context, productID uuid.UUID, patch domain.ProductPatch) (domain.Product, error)

	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}
