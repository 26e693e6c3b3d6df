package professional

import "github.com/simp-lee/practice/internal/domain"

// CreateProfessionalRequest is the body of POST /professionals.
type CreateProfessionalRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=150"`
	Specialty     string `json:"specialty" binding:"omitempty,max=100"`
	LicenseNumber string `json:"license_number" binding:"omitempty,max=64"`
	Email         string `json:"email" binding:"omitempty,email,max=255"`
	Phone         string `json:"phone" binding:"omitempty,max=32"`
	Status        string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Model converts the request into a new health professional.
func (r *CreateProfessionalRequest) Model() *domain.HealthProfessional {
	status := r.Status
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.HealthProfessional{
		Name:          r.Name,
		Specialty:     r.Specialty,
		LicenseNumber: r.LicenseNumber,
		Email:         r.Email,
		Phone:         r.Phone,
		Status:        status,
	}
}

// UpdateProfessionalRequest is the body of PATCH /professionals/:id.
type UpdateProfessionalRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=150"`
	Specialty     *string `json:"specialty" binding:"omitempty,max=100"`
	LicenseNumber *string `json:"license_number" binding:"omitempty,max=64"`
	Email         *string `json:"email" binding:"omitempty,email,max=255"`
	Phone         *string `json:"phone" binding:"omitempty,max=32"`
	Status        *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ListProfessionalsQuery holds the professional-specific list filters.
type ListProfessionalsQuery struct {
	Specialty     string `form:"specialty" binding:"omitempty,max=100"`
	LicenseNumber string `form:"license_number" binding:"omitempty,max=64"`
}
