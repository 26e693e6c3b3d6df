package appointment

import (
	"time"

	"github.com/simp-lee/practice/internal/domain"
)

// CreateAppointmentRequest is the body of POST /appointments.
type CreateAppointmentRequest struct {
	PatientID            string    `json:"patient_id" binding:"required,uuid"`
	HealthProfessionalID *string   `json:"health_professional_id" binding:"omitempty,uuid"`
	ScheduledAt          time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes      int       `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
	RoomNumber           string    `json:"room_number" binding:"omitempty,max=16"`
	Notes                string    `json:"notes"`
	Status               string    `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
}

// Model converts the request into a new appointment.
func (r *CreateAppointmentRequest) Model() *domain.Appointment {
	status := r.Status
	if status == "" {
		status = domain.AppointmentScheduled
	}
	return &domain.Appointment{
		PatientID:            r.PatientID,
		HealthProfessionalID: r.HealthProfessionalID,
		ScheduledAt:          r.ScheduledAt.UTC(),
		DurationMinutes:      r.DurationMinutes,
		RoomNumber:           r.RoomNumber,
		Notes:                r.Notes,
		Status:               status,
	}
}

// UpdateAppointmentRequest is the body of PATCH /appointments/:id.
type UpdateAppointmentRequest struct {
	HealthProfessionalID *string    `json:"health_professional_id" binding:"omitempty,uuid"`
	ScheduledAt          *time.Time `json:"scheduled_at"`
	DurationMinutes      *int       `json:"duration_minutes" binding:"omitempty,min=5,max=480"`
	RoomNumber           *string    `json:"room_number" binding:"omitempty,max=16"`
	Notes                *string    `json:"notes"`
	Status               *string    `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
}

// ListAppointmentsQuery holds the appointment-specific list filters.
// date_from and date_to apply to created_at like every other entity.
type ListAppointmentsQuery struct {
	PatientID            string `form:"patient_id" binding:"omitempty,uuid"`
	HealthProfessionalID string `form:"health_professional_id" binding:"omitempty,uuid"`
	RoomNumber           string `form:"room_number" binding:"omitempty,max=16"`
}
