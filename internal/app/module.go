package app

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/practice/internal/module/appointment"
	"github.com/simp-lee/practice/internal/module/client"
	"github.com/simp-lee/practice/internal/module/crud"
	"github.com/simp-lee/practice/internal/module/item"
	"github.com/simp-lee/practice/internal/module/patient"
	"github.com/simp-lee/practice/internal/module/professional"
	"github.com/simp-lee/practice/internal/module/sale"
	"github.com/simp-lee/practice/internal/module/saleline"
)

// Module defines the contract for a self-registering business module.
// Each module registers its routes on the tenant-scoped API group.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// BuildModules wires every entity module over deps, in route order.
func BuildModules(deps crud.Deps) ([]Module, error) {
	builders := []func(crud.Deps) (Module, error){
		func(d crud.Deps) (Module, error) { return client.NewModule(d) },
		func(d crud.Deps) (Module, error) { return patient.NewModule(d) },
		func(d crud.Deps) (Module, error) { return professional.NewModule(d) },
		func(d crud.Deps) (Module, error) { return appointment.NewModule(d) },
		func(d crud.Deps) (Module, error) { return item.NewModule(d) },
		func(d crud.Deps) (Module, error) { return sale.NewModule(d) },
		func(d crud.Deps) (Module, error) { return saleline.NewModule(d) },
	}

	modules := make([]Module, 0, len(builders))
	for _, build := range builders {
		m, err := build(deps)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}
