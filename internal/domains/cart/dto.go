package cart

import "github.com/google/uuid"

type AddItemReq struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type UpdateItemReq struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
