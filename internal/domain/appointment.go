package domain

import "time"

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// Appointment books a patient with a health professional.
type Appointment struct {
	Model
	Audit
	SoftDelete
	PatientID            string              `gorm:"size:36;not null;index" json:"patient_id"`
	HealthProfessionalID *string             `gorm:"size:36;index" json:"health_professional_id"`
	ScheduledAt          time.Time           `gorm:"not null;index" json:"scheduled_at"`
	DurationMinutes      int                 `gorm:"not null;default:30" json:"duration_minutes"`
	RoomNumber           string              `gorm:"size:16" json:"room_number"`
	Notes                string              `gorm:"type:text" json:"notes"`
	Status               string              `gorm:"size:32;index;default:scheduled" json:"status"`
	Patient              *Patient            `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	HealthProfessional   *HealthProfessional `gorm:"foreignKey:HealthProfessionalID" json:"health_professional,omitempty"`
}
