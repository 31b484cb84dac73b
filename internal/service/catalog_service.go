package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
	"kioskpos/pkg/logger"
)

type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Available   *bool            `json:"available,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
}

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

type CatalogService struct {
	products port.ProductRepository
	currency currency.Unit
	logger   *logger.Logger
}

func NewCatalogService(products port.ProductRepository, unit currency.Unit, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		currency: unit,
		logger:   logger.WithComponent("catalog_service"),
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (domain.Product, error) {
	var p domain.Product

	if req.Name == "" {
		return p, errors.New("name is empty")
	}
	if !req.Price.IsPositive() {
		return p, errors.New("price must be positive")
	}

	imageURL, err := parseOptionalURL(req.ImageURL)
	if err != nil {
		return p, fmt.Errorf("parseOptionalURL: %w", err)
	}

	product := domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       domain.Money{Amount: req.Price, Currency: s.currency},
		Category:    req.Category,
		Available:   true,
		ImageURL:    imageURL,
	}

	productID, err := s.products.InsertProduct(ctx, product)
	if err != nil {
		return p, fmt.Errorf("products.InsertProduct: %w", err)
	}

	created, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return p, fmt.Errorf("products.GetProduct: %w", err)
	}

	s.logger.Info("Product created", "product_id", productID, "name", req.Name)

	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (domain.Product, error) {
	var p domain.Product

	if req.Price != nil && !req.Price.IsPositive() {
		return p, errors.New("price must be positive")
	}

	imageURL, err := parseOptionalURL(req.ImageURL)
	if err != nil {
		return p, fmt.Errorf("parseOptionalURL: %w", err)
	}

	patch := domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Available:   req.Available,
		ImageURL:    imageURL,
	}
	if req.Price != nil {
		patch.Price = lo.ToPtr(domain.Money{Amount: *req.Price, Currency: s.currency})
	}

	updated, err := s.products.UpdateProduct(ctx, productID, patch)
	if err != nil {
		return p, fmt.Errorf("products.UpdateProduct: %w", err)
	}

	s.logger.Info("Product updated", "product_id", productID)

	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("products.DeleteProduct: %w", err)
	}

	s.logger.Info("Product deleted", "product_id", productID)

	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.GetProduct: %w", err)
	}

	return product, nil
}

func (s *CatalogService) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAvailableProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.ListAvailableProducts: %w", err)
	}

	return products, nil
}

func (s *CatalogService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.ListAllProducts: %w", err)
	}

	return products, nil
}

func (s *CatalogService) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := s.products.ListProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("products.ListProductsByCategory: %w", err)
	}

	return products, nil
}

func parseOptionalURL(raw *string) (*url.URL, error) {
	if lo.FromPtr(raw) == "" {
		return nil, nil
	}

	parsed, err := url.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("url.Parse[%s]: %w", *raw, err)
	}

	return parsed, nil
}
