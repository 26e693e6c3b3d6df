package sale

import "github.com/simp-lee/practice/internal/domain"

// CreateSaleRequest is the body of POST /sales. Lines are added through
// /sale-lines.
type CreateSaleRequest struct {
	ClientID *string `json:"client_id" binding:"omitempty,uuid"`
	Total    float64 `json:"total" binding:"gte=0"`
	Notes    string  `json:"notes"`
	Status   string  `json:"status" binding:"omitempty,oneof=open paid cancelled"`
}

// Model converts the request into a new sale.
func (r *CreateSaleRequest) Model() *domain.Sale {
	status := r.Status
	if status == "" {
		status = domain.SaleOpen
	}
	return &domain.Sale{
		ClientID: r.ClientID,
		Total:    r.Total,
		Notes:    r.Notes,
		Status:   status,
	}
}

// UpdateSaleRequest is the body of PATCH /sales/:id.
type UpdateSaleRequest struct {
	ClientID *string  `json:"client_id" binding:"omitempty,uuid"`
	Total    *float64 `json:"total" binding:"omitempty,gte=0"`
	Notes    *string  `json:"notes"`
	Status   *string  `json:"status" binding:"omitempty,oneof=open paid cancelled"`
}

// ListSalesQuery holds the sale-specific list filters.
type ListSalesQuery struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
}
