// Package client serves the clients of a practice.
package client

import (
	"context"
	"strings"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// Resource describes the /clients endpoints. Emails are stored lower-cased.
func Resource() crud.Resource[domain.Client] {
	return crud.Resource[domain.Client]{
		Path:      "clients",
		Entity:    "client",
		NewCreate: func() crud.CreateRequest[domain.Client] { return &CreateClientRequest{} },
		NewUpdate: func() any { return &UpdateClientRequest{} },
		NewQuery:  func() any { return &ListClientsQuery{} },
		Hooks: crud.Hooks[domain.Client]{
			BeforeCreate: func(_ context.Context, c *domain.Client) error {
				c.Name = strings.TrimSpace(c.Name)
				c.Email = normalizeEmail(c.Email)
				return nil
			},
			BeforeUpdate: func(_ context.Context, data map[string]any) error {
				if v, ok := data["email"].(string); ok {
					data["email"] = normalizeEmail(v)
				}
				if v, ok := data["name"].(string); ok {
					data["name"] = strings.TrimSpace(v)
				}
				return nil
			},
		},
	}
}

// NewModule builds the client module.
func NewModule(deps crud.Deps) (*crud.Module[domain.Client], error) {
	return crud.Build(deps, Resource())
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
