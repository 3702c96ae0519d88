package product

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductReq struct {
	CategoryID       uuid.UUID       `json:"category_id" binding:"required"`
	Name             string          `json:"name" binding:"required,min=1,max=255"`
	Slug             string          `json:"slug" binding:"omitempty,max=255"`
	ShortDescription string          `json:"short_description" binding:"omitempty,max=500"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price" binding:"required"`
	Images           []string        `json:"images"`
	IsActive         *bool           `json:"is_active"`
	IsTopSeller      bool            `json:"is_top_seller"`
}

type UpdateProductReq struct {
	CategoryID       *uuid.UUID       `json:"category_id"`
	Name             *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Slug             *string          `json:"slug" binding:"omitempty,min=1,max=255"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	Description      *string          `json:"description"`
	Price            *decimal.Decimal `json:"price"`
	Images           []string         `json:"images"`
	IsActive         *bool            `json:"is_active"`
	IsTopSeller      *bool            `json:"is_top_seller"`
}

type ProductListResp struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
