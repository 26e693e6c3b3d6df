// Package patient serves the patients of a practice.
package patient

import (
	"context"
	"time"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

var errFutureBirthDate = domain.NewAppError(domain.CodeValidation, "birth_date must not be in the future", nil)

// Resource describes the /patients endpoints.
func Resource() crud.Resource[domain.Patient] {
	return ResourceWithClock(time.Now)
}

// ResourceWithClock is Resource with an injectable clock for the birth
// date check.
func ResourceWithClock(now func() time.Time) crud.Resource[domain.Patient] {
	return crud.Resource[domain.Patient]{
		Path:      "patients",
		Entity:    "patient",
		NewCreate: func() crud.CreateRequest[domain.Patient] { return &CreatePatientRequest{} },
		NewUpdate: func() any { return &UpdatePatientRequest{} },
		NewQuery:  func() any { return &ListPatientsQuery{} },
		Hooks: crud.Hooks[domain.Patient]{
			BeforeCreate: func(_ context.Context, p *domain.Patient) error {
				if p.BirthDate != nil && p.BirthDate.After(now()) {
					return errFutureBirthDate
				}
				return nil
			},
			BeforeUpdate: func(_ context.Context, data map[string]any) error {
				if d, ok := data["birth_date"].(time.Time); ok && d.After(now()) {
					return errFutureBirthDate
				}
				return nil
			},
		},
	}
}

// NewModule builds the patient module.
func NewModule(deps crud.Deps) (*crud.Module[domain.Patient], error) {
	return crud.Build(deps, Resource())
}
