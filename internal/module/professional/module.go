// Package professional serves the health professionals of a practice.
package professional

import (
	"context"
	"strings"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// Resource describes the /professionals endpoints. License numbers are
// stored upper-cased and emails lower-cased.
func Resource() crud.Resource[domain.HealthProfessional] {
	return crud.Resource[domain.HealthProfessional]{
		Path:      "professionals",
		Entity:    "health professional",
		NewCreate: func() crud.CreateRequest[domain.HealthProfessional] { return &CreateProfessionalRequest{} },
		NewUpdate: func() any { return &UpdateProfessionalRequest{} },
		NewQuery:  func() any { return &ListProfessionalsQuery{} },
		Hooks: crud.Hooks[domain.HealthProfessional]{
			BeforeCreate: func(_ context.Context, p *domain.HealthProfessional) error {
				p.LicenseNumber = strings.ToUpper(strings.TrimSpace(p.LicenseNumber))
				p.Email = strings.ToLower(strings.TrimSpace(p.Email))
				return nil
			},
			BeforeUpdate: func(_ context.Context, data map[string]any) error {
				if v, ok := data["license_number"].(string); ok {
					data["license_number"] = strings.ToUpper(strings.TrimSpace(v))
				}
				if v, ok := data["email"].(string); ok {
					data["email"] = strings.ToLower(strings.TrimSpace(v))
				}
				return nil
			},
		},
	}
}

// NewModule builds the health professional module.
func NewModule(deps crud.Deps) (*crud.Module[domain.HealthProfessional], error) {
	return crud.Build(deps, Resource())
}
