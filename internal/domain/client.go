package domain

// Client is the person or company responsible for one or more patients.
type Client struct {
	Model
	Audit
	SoftDelete
	Name     string    `gorm:"size:150;not null" json:"name"`
	Email    string    `gorm:"size:255;index" json:"email"`
	Phone    string    `gorm:"size:32" json:"phone"`
	Document string    `gorm:"size:32;index" json:"document"`
	Status   string    `gorm:"size:32;index;default:active" json:"status"`
	Patients []Patient `gorm:"foreignKey:ClientID" json:"patients,omitempty"`
}
