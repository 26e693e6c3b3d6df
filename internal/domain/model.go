package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the common base struct for tenant-owned entities.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type Model struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"size:64;not null;index" json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random UUID when the caller did not supply an ID.
func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Audit records the acting users behind the last create and update.
type Audit struct {
	CreatedBy *string `gorm:"size:64" json:"created_by"`
	UpdatedBy *string `gorm:"size:64" json:"updated_by"`
}

// SoftDelete marks a row inactive. Entities embedding it are soft-deleted
// by the repository; entities without it are removed physically.
type SoftDelete struct {
	DeletedAt *time.Time `gorm:"index" json:"deleted_at"`
	DeletedBy *string    `gorm:"size:64" json:"deleted_by"`
}

// Deleted reports whether the row is soft-deleted.
func (s SoftDelete) Deleted() bool {
	return s.DeletedAt != nil
}

// Entity status values shared by the catalog entities.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&Client{},
		&Patient{},
		&HealthProfessional{},
		&Appointment{},
		&Item{},
		&Sale{},
		&SaleLine{},
	}
}
