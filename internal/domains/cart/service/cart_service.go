package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"nutrition-backend/internal/domains/cart"
	"nutrition-backend/internal/domains/product"
)

type cartService struct {
	repo     cart.CartRepository
	products product.ProductRepository
}

func NewCartService(repo cart.CartRepository, products product.ProductRepository) cart.CartService {
	return &cartService{repo: repo, products: products}
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *cart.AddItemReq) (*cart.Cart, error) {
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrProductNotFound
	}

	now := time.Now()
	item := &cart.Item{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  req.Quantity,
		UnitPrice: p.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.repo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *cart.UpdateItemReq) (*cart.Cart, error) {
	if req.Quantity <= 0 {
		return nil, cart.ErrInvalidQuantity
	}

	if _, err := s.repo.UpdateQuantity(ctx, userID, itemID, req.Quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.Cart, error) {
	if err := s.repo.Remove(ctx, userID, itemID); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].Subtotal())
	}

	return &cart.Cart{Items: items, Total: total}, nil
}
