package domain

import "time"

// Patient is an individual under care, optionally owned by a Client.
type Patient struct {
	Model
	Audit
	SoftDelete
	Name         string        `gorm:"size:150;not null" json:"name"`
	Species      string        `gorm:"size:64" json:"species"`
	Breed        string        `gorm:"size:64" json:"breed"`
	BirthDate    *time.Time    `json:"birth_date"`
	ClientID     *string       `gorm:"size:36;index" json:"client_id"`
	Notes        string        `gorm:"type:text" json:"notes"`
	Status       string        `gorm:"size:32;index;default:active" json:"status"`
	Client       *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}
