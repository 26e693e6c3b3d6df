package saleline

import "github.com/simp-lee/practice/internal/domain"

// CreateSaleLineRequest is the body of POST /sale-lines.
type CreateSaleLineRequest struct {
	SaleID    string  `json:"sale_id" binding:"required,uuid"`
	ItemID    string  `json:"item_id" binding:"required,uuid"`
	Quantity  int     `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

// Model converts the request into a new sale line. Quantity defaults to 1.
func (r *CreateSaleLineRequest) Model() *domain.SaleLine {
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	return &domain.SaleLine{
		SaleID:    r.SaleID,
		ItemID:    r.ItemID,
		Quantity:  qty,
		UnitPrice: r.UnitPrice,
	}
}

// UpdateSaleLineRequest is the body of PATCH /sale-lines/:id.
type UpdateSaleLineRequest struct {
	Quantity  *int     `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice *float64 `json:"unit_price" binding:"omitempty,gte=0"`
}

// ListSaleLinesQuery holds the sale line list filters.
type ListSaleLinesQuery struct {
	SaleID string `form:"sale_id" binding:"omitempty,uuid"`
	ItemID string `form:"item_id" binding:"omitempty,uuid"`
}
