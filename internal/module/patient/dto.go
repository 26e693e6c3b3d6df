package patient

import (
	"time"

	"github.com/simp-lee/practice/internal/domain"
)

// CreatePatientRequest is the body of POST /patients.
type CreatePatientRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=150"`
	Species   string     `json:"species" binding:"omitempty,max=64"`
	Breed     string     `json:"breed" binding:"omitempty,max=64"`
	BirthDate *time.Time `json:"birth_date"`
	ClientID  *string    `json:"client_id" binding:"omitempty,uuid"`
	Notes     string     `json:"notes"`
	Status    string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// Model converts the request into a new patient.
func (r *CreatePatientRequest) Model() *domain.Patient {
	status := r.Status
	if status == "" {
		status = domain.StatusActive
	}
	return &domain.Patient{
		Name:      r.Name,
		Species:   r.Species,
		Breed:     r.Breed,
		BirthDate: r.BirthDate,
		ClientID:  r.ClientID,
		Notes:     r.Notes,
		Status:    status,
	}
}

// UpdatePatientRequest is the body of PATCH /patients/:id.
type UpdatePatientRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=150"`
	Species   *string    `json:"species" binding:"omitempty,max=64"`
	Breed     *string    `json:"breed" binding:"omitempty,max=64"`
	BirthDate *time.Time `json:"birth_date"`
	ClientID  *string    `json:"client_id" binding:"omitempty,uuid"`
	Notes     *string    `json:"notes"`
	Status    *string    `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ListPatientsQuery holds the patient-specific list filters.
type ListPatientsQuery struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Species  string `form:"species" binding:"omitempty,max=64"`
}
