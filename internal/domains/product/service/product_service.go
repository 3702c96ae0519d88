package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nutrition-backend/internal/domains/product"
	"nutrition-backend/internal/shared/utils"
	"nutrition-backend/pkg/logger"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type productService struct {
	repo product.ProductRepository
}

func NewProductService(repo product.ProductRepository) product.ProductService {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context, filter *product.ListFilter) (*product.ProductListResp, error) {
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &product.ProductListResp{
		Products: products,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	}, nil
}

func (s *productService) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *productService) Create(ctx context.Context, req *product.CreateProductReq) (*product.Product, error) {
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, product.ErrInvalidPrice
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	p := &product.Product{
		ID:               uuid.New(),
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		Slug:             slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Price:            req.Price,
		Images:           req.Images,
		IsActive:         isActive,
		IsTopSeller:      req.IsTopSeller,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	logger.Info("product created", map[string]interface{}{
		"product_id": created.ID.String(),
		"slug":       created.Slug,
	})
	return created, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req *product.UpdateProductReq) (*product.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		p.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.ShortDescription != nil {
		p.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.LessThanOrEqual(decimal.Zero) {
			return nil, product.ErrInvalidPrice
		}
		p.Price = *req.Price
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsTopSeller != nil {
		p.IsTopSeller = *req.IsTopSeller
	}
	p.UpdatedAt = time.Now()

	return s.repo.Update(ctx, p)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("product deleted", map[string]interface{}{"product_id": id.String()})
	return nil
}
