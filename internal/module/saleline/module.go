// Package saleline serves the lines of a sale. Lines are not soft-deleted:
// DELETE removes the row and restore is unsupported.
package saleline

import (
	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
)

// Resource describes the /sale-lines endpoints.
func Resource() crud.Resource[domain.SaleLine] {
	return crud.Resource[domain.SaleLine]{
		Path:      "sale-lines",
		Entity:    "sale line",
		NewCreate: func() crud.CreateRequest[domain.SaleLine] { return &CreateSaleLineRequest{} },
		NewUpdate: func() any { return &UpdateSaleLineRequest{} },
		NewQuery:  func() any { return &ListSaleLinesQuery{} },
	}
}

// NewModule builds the sale line module.
func NewModule(deps crud.Deps) (*crud.Module[domain.SaleLine], error) {
	return crud.Build(deps, Resource())
}
