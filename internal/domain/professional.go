package domain

// HealthProfessional is a practitioner who attends appointments.
type HealthProfessional struct {
	Model
	Audit
	SoftDelete
	Name          string `gorm:"size:150;not null" json:"name"`
	Specialty     string `gorm:"size:100" json:"specialty"`
	LicenseNumber string `gorm:"size:64;index" json:"license_number"`
	Email         string `gorm:"size:255" json:"email"`
	Phone         string `gorm:"size:32" json:"phone"`
	Status        string `gorm:"size:32;index;default:active" json:"status"`
}
