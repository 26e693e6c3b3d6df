package item

import "github.com/simp-lee/practice/internal/domain"

// CreateItemRequest is the body of POST /items.
type CreateItemRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=150"`
	SKU    string  `json:"sku" binding:"omitempty,max=64"`
	Kind   string  `json:"kind" binding:"omitempty,oneof=product service"`
	Price  float64 `json:"price" binding:"gte=0"`
	Stock  int     `json:"stock" binding:"gte=0"`
	Active *bool   `json:"active"`
}

// Model converts the request into a new catalog item. Items are active
// unless the request says otherwise.
func (r *CreateItemRequest) Model() *domain.Item {
	kind := r.Kind
	if kind == "" {
		kind = domain.ItemProduct
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	status := domain.StatusActive
	if !active {
		status = domain.StatusInactive
	}
	return &domain.Item{
		Name:   r.Name,
		SKU:    r.SKU,
		Kind:   kind,
		Price:  r.Price,
		Stock:  r.Stock,
		Active: active,
		Status: status,
	}
}

// UpdateItemRequest is the body of PATCH /items/:id.
type UpdateItemRequest struct {
	Name   *string  `json:"name" binding:"omitempty,min=1,max=150"`
	SKU    *string  `json:"sku" binding:"omitempty,max=64"`
	Kind   *string  `json:"kind" binding:"omitempty,oneof=product service"`
	Price  *float64 `json:"price" binding:"omitempty,gte=0"`
	Stock  *int     `json:"stock" binding:"omitempty,gte=0"`
	Active *bool    `json:"active"`
}

// ListItemsQuery holds the item-specific list filters.
type ListItemsQuery struct {
	SKU    string `form:"sku" binding:"omitempty,max=64"`
	Kind   string `form:"kind" binding:"omitempty,oneof=product service"`
	Active *bool  `form:"active"`
}
