package crud

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/middleware"
	"github.com/simp-lee/practice/internal/pkg"
)

// CreateRequest is a bound create body that converts into a new entity.
type CreateRequest[T any] interface {
	Model() *T
}

// Resource describes one entity exposed over HTTP.
type Resource[T any] struct {
	// Path is the route segment under the API group, e.g. "patients".
	Path string
	// Entity names the record in errors, spans and metrics, e.g. "patient".
	Entity string

	// NewCreate returns a pointer to an empty create body.
	NewCreate func() CreateRequest[T]
	// NewUpdate returns a pointer to an empty update body. Its non-nil
	// json-tagged fields become the update assignments.
	NewUpdate func() any
	// NewQuery returns a pointer to an empty list query, or nil when the
	// entity declares no filter fields. Its set form-tagged fields become
	// equality filters.
	NewQuery func() any

	Hooks Hooks[T]
}

// Handler serves the REST endpoints of one entity.
type Handler[T any] struct {
	svc Service[T]
	res Resource[T]
}

// NewHandler creates a Handler for res backed by svc.
func NewHandler[T any](svc Service[T], res Resource[T]) *Handler[T] {
	return &Handler[T]{svc: svc, res: res}
}

// Create handles POST /<path>.
func (h *Handler[T]) Create(c *gin.Context) {
	req := h.res.NewCreate()
	if !pkg.BindAndValidate(c, req) {
		return
	}

	tenantID, userID := identity(c)
	created, err := h.svc.Create(c.Request.Context(), req.Model(), tenantID, userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, created)
}

// List handles GET /<path>.
func (h *Handler[T]) List(c *gin.Context) {
	f, err := pkg.ParseFilter(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if h.res.NewQuery != nil {
		q := h.res.NewQuery()
		if !pkg.BindQuery(c, q) {
			return
		}
		f.Fields = pkg.QueryFields(q)
	}

	tenantID, _ := identity(c)
	result, err := h.svc.FindAll(c.Request.Context(), tenantID, false, &f)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.List(c, result)
}

// Get handles GET /<path>/:id.
func (h *Handler[T]) Get(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	p := pkg.ParseProjection(c)
	tenantID, _ := identity(c)
	record, err := h.svc.FindOne(c.Request.Context(), id, tenantID, pkg.IncludeDeleted(c), p.With, p.Columns)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if record == nil {
		pkg.Error(c, h.notFound())
		return
	}
	pkg.Success(c, record)
}

// Update handles PATCH /<path>/:id. Only the keys present in the body are
// written.
func (h *Handler[T]) Update(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	req := h.res.NewUpdate()
	if !pkg.BindAndValidate(c, req) {
		return
	}
	fields := pkg.BodyFields(req)
	if len(fields) == 0 {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "no fields to update", nil))
		return
	}

	tenantID, userID := identity(c)
	updated, err := h.svc.Update(c.Request.Context(), id, fields, tenantID, userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if updated == nil {
		pkg.Error(c, h.notFound())
		return
	}
	pkg.Success(c, updated)
}

// Remove handles DELETE /<path>/:id.
func (h *Handler[T]) Remove(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	tenantID, userID := identity(c)
	msg, err := h.svc.Remove(c.Request.Context(), id, tenantID, userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, msg)
}

// Restore handles POST /<path>/:id/restore.
func (h *Handler[T]) Restore(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	tenantID, userID := identity(c)
	restored, err := h.svc.Restore(c.Request.Context(), id, tenantID, userID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if restored == nil {
		pkg.Error(c, h.notFound())
		return
	}
	pkg.Success(c, restored)
}

// HardDelete handles DELETE /<path>/:id/hard.
func (h *Handler[T]) HardDelete(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}

	tenantID, _ := identity(c)
	msg, err := h.svc.HardDelete(c.Request.Context(), id, tenantID)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, msg)
}

// recordID reads the :id parameter, replying 400 when it is not a UUID.
func (h *Handler[T]) recordID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeValidation, "invalid "+h.res.Entity+" id", err))
		return "", false
	}
	return id, true
}

func (h *Handler[T]) notFound() error {
	return domain.NewAppError(domain.CodeNotFound, h.res.Entity+" not found", nil)
}

func identity(c *gin.Context) (tenantID, userID string) {
	id, _ := middleware.IdentityFrom(c.Request.Context())
	return id.OrganizationID, id.UserID
}
