// Package sale serves sales issued to clients.
package sale

import (
	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// Resource describes the /sales endpoints.
func Resource() crud.Resource[domain.Sale] {
	return crud.Resource[domain.Sale]{
		Path:      "sales",
		Entity:    "sale",
		NewCreate: func() crud.CreateRequest[domain.Sale] { return &CreateSaleRequest{} },
		NewUpdate: func() any { return &UpdateSaleRequest{} },
		NewQuery:  func() any { return &ListSalesQuery{} },
	}
}

// NewModule builds the sale module.
func NewModule(deps crud.Deps) (*crud.Module[domain.Sale], error) {
	return crud.Build(deps, Resource())
}
