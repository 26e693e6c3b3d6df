package crud

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/simp-lee/practice/internal/middleware"
	"github.com/simp-lee/practice/internal/repository"
)

// Module registers the routes of one entity.
type Module[T any] struct {
	handler *Handler[T]
	path    string
}

// NewModule creates a Module serving h under path.
// Panics if h is nil.
func NewModule[T any](path string, h *Handler[T]) *Module[T] {
	if h == nil {
		panic("crud.NewModule: handler must not be nil")
	}
	return &Module[T]{handler: h, path: path}
}

// RegisterRoutes registers the entity routes on api. Permanent deletion
// requires the admin role.
func (m *Module[T]) RegisterRoutes(api *gin.RouterGroup) {
	g := api.Group("/" + m.path)
	g.POST("", m.handler.Create)
	g.GET("", m.handler.List)
	g.GET("/:id", m.handler.Get)
	g.PATCH("/:id", m.handler.Update)
	g.DELETE("/:id", m.handler.Remove)
	g.POST("/:id/restore", m.handler.Restore)
	g.DELETE("/:id/hard", middleware.RequireRole(middleware.RoleAdmin), m.handler.HardDelete)
}

// Deps are the shared dependencies of every entity module.
type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter

	RepositoryOptions []repository.Option
}

// Build wires repository, service, observability and handler for res.
func Build[T any](deps Deps, res Resource[T]) (*Module[T], error) {
	if res.Path == "" || res.Entity == "" {
		return nil, errors.New("resource path and entity are required")
	}
	if res.NewCreate == nil || res.NewUpdate == nil {
		return nil, errors.New("resource " + res.Entity + " must declare create and update requests")
	}

	repo, err := repository.ForModel[T](deps.DB, deps.RepositoryOptions...)
	if err != nil {
		return nil, err
	}
	svc := Observe(NewService[T](repo, res.Hooks), res.Entity,
		WithLogger(deps.Logger),
		WithTracer(deps.Tracer),
		WithMeter(deps.Meter),
	)
	return NewModule(res.Path, NewHandler[T](svc, res)), nil
}
