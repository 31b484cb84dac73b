package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       Money
	Category    string
	Available   bool
	ImageURL    *url.URL

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductPatch carries a partial update, nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *Money
	Category    *string
	Available   *bool
	ImageURL    *url.URL
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.Available == nil && p.ImageURL == nil
}
