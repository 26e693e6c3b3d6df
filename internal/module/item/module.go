// Package item serves the product and service catalog.
package item

import (
	"context"
	"strings"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// Resource describes the /items endpoints. SKUs are stored upper-cased and
// the status column follows the active flag.
func Resource() crud.Resource[domain.Item] {
	return crud.Resource[domain.Item]{
		Path:      "items",
		Entity:    "item",
		NewCreate: func() crud.CreateRequest[domain.Item] { return &CreateItemRequest{} },
		NewUpdate: func() any { return &UpdateItemRequest{} },
		NewQuery:  func() any { return &ListItemsQuery{} },
		Hooks: crud.Hooks[domain.Item]{
			BeforeCreate: func(_ context.Context, it *domain.Item) error {
				it.SKU = normalizeSKU(it.SKU)
				return nil
			},
			BeforeUpdate: func(_ context.Context, data map[string]any) error {
				if v, ok := data["sku"].(string); ok {
					data["sku"] = normalizeSKU(v)
				}
				if active, ok := data["active"].(bool); ok {
					data["status"] = domain.StatusInactive
					if active {
						data["status"] = domain.StatusActive
					}
				}
				return nil
			},
		},
	}
}

// NewModule builds the item module.
func NewModule(deps crud.Deps) (*crud.Module[domain.Item], error) {
	return crud.Build(deps, Resource())
}

func normalizeSKU(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
