// Package appointment serves appointment scheduling.
package appointment

import (
	"context"
	"time"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// DefaultDuration applies when an appointment is booked without a duration.
const DefaultDuration = 30

// Resource describes the /appointments endpoints.
func Resource() crud.Resource[domain.Appointment] {
	return crud.Resource[domain.Appointment]{
		Path:      "appointments",
		Entity:    "appointment",
		NewCreate: func() crud.CreateRequest[domain.Appointment] { return &CreateAppointmentRequest{} },
		NewUpdate: func() any { return &UpdateAppointmentRequest{} },
		NewQuery:  func() any { return &ListAppointmentsQuery{} },
		Hooks: crud.Hooks[domain.Appointment]{
			BeforeCreate: func(_ context.Context, a *domain.Appointment) error {
				if a.ScheduledAt.IsZero() {
					return domain.NewAppError(domain.CodeValidation, "scheduled_at is required", nil)
				}
				if a.DurationMinutes == 0 {
					a.DurationMinutes = DefaultDuration
				}
				return nil
			},
			BeforeUpdate: func(_ context.Context, data map[string]any) error {
				if t, ok := data["scheduled_at"].(time.Time); ok {
					data["scheduled_at"] = t.UTC()
				}
				return nil
			},
		},
	}
}

// NewModule builds the appointment module.
func NewModule(deps crud.Deps) (*crud.Module[domain.Appointment], error) {
	return crud.Build(deps, Resource())
}
