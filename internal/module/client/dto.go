package client

import "github.com/simp-lee/practice/internal/domain"

// CreateClientRequest is the body of POST /clients.
type CreateClientRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=150"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Phone    string `json:"phone" binding:"omitempty,max=32"`
	Document string `json:"document" binding:"omitempty,max=32"`
	Status   string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Model converts the request into a new client.
func (r *CreateClientRequest) Model() *domain.Client {
	status := r.Status
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.Client{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Document: r.Document,
		Status:   status,
	}
}

// UpdateClientRequest is the body of PATCH /clients/:id. Omitted fields
// are left unchanged.
type UpdateClientRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=150"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Document *string `json:"document" binding:"omitempty,max=32"`
	Status   *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ListClientsQuery holds the client-specific list filters.
type ListClientsQuery struct {
	Email    string `form:"email" binding:"omitempty,email"`
	Document string `form:"document" binding:"omitempty,max=32"`
}
