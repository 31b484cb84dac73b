package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"kioskpos/internal/domain"
	"kioskpos/internal/port"
)

type productRepository struct {
	db DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{db: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{db: tx}
}

const productColumns = `id, name, description, price_amount, price_currency, category, available, image_url, created_at, updated_at`

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if product.Name == "" {
		return uuid.Nil, errors.New("product name is empty")
	}
	if !product.Price.Amount.IsPositive() {
		return uuid.Nil, errors.New("product price is not positive")
	}

	var id uuid.UUID

	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, description, price_amount, price_currency, category, available, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		product.Name,
		product.Description,
		product.Price.Amount,
		product.Price.Currency.String(),
		product.Category,
		product.Available,
		urlToStringPtr(product.ImageURL),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert product: %w", err)
	}

	return id, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, productID uuid.UUID, patch domain.ProductPatch) (domain.Product, error) {
	var p domain.Product

	if patch.IsEmpty() {
		return p, errors.New("patch is empty")
	}

	var priceAmount *decimal.Decimal
	var priceCurrency *string
	if patch.Price != nil {
		priceAmount = lo.ToPtr(patch.Price.Amount)
		priceCurrency = lo.ToPtr(patch.Price.Currency.String())
	}

	row := r.db.QueryRow(ctx,
		`UPDATE products SET
			name           = COALESCE($2, name),
			description    = COALESCE($3, description),
			price_amount   = COALESCE($4, price_amount),
			price_currency = COALESCE($5, price_currency),
			category       = COALESCE($6, category),
			available      = COALESCE($7, available),
			image_url      = COALESCE($8, image_url),
			updated_at     = now()
		 WHERE id = $1
		 RETURNING `+productColumns,
		productID,
		patch.Name,
		patch.Description,
		priceAmount,
		priceCurrency,
		patch.Category,
		patch.Available,
		urlToStringPtr(patch.ImageURL),
	)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrProductNotFound
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return product, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	return r.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE available ORDER BY category, name`)
}

func (r *productRepository) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	return r.listProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY category, name`)
}

func (r *productRepository) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = $1 AND available ORDER BY name`,
		category)
}

func (r *productRepository) listProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		amount   decimal.Decimal
		currCode string
		imageURL *string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &amount, &currCode,
		&p.Category, &p.Available, &imageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	parsedCurrency, err := currency.ParseISO(currCode)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", currCode, err)
	}
	p.Price = domain.Money{Amount: amount, Currency: parsedCurrency}

	if lo.FromPtr(imageURL) != "" {
		parsedURL, err := url.Parse(*imageURL)
		if err != nil {
			return p, fmt.Errorf("url.Parse[%s]: %w", *imageURL, err)
		}
		p.ImageURL = parsedURL
	}

	return p, nil
}

func urlToStringPtr(u *url.URL) *string {
	if u == nil {
		return nil
	}
	return lo.ToPtr(u.String())
}
