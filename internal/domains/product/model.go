package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugExists      = errors.New("product slug already exists")
	ErrInvalidPrice    = errors.New("price must be positive")
)

// Product is a storefront item. Rating aggregates are denormalized
// columns maintained by the review ingestion job, read-only here.
type Product struct {
	ID               uuid.UUID       `json:"id"`
	CategoryID       uuid.UUID       `json:"category_id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Images           []string        `json:"images"`
	IsActive         bool            `json:"is_active"`
	IsTopSeller      bool            `json:"is_top_seller"`
	RatingAverage    float64         `json:"rating_average"`
	RatingCount      int             `json:"rating_count"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PrimaryImage returns the first image or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ListFilter narrows the storefront product listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}
