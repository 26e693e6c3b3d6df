// Package crud exposes tenant-scoped entity repositories over HTTP.
//
// A Resource describes one entity: its route, the request DTOs bound from
// the body and query string, and optional hooks. Build wires a repository,
// service, observability decorator and handler for it.
package crud

import (
	"context"

	"github.com/simp-lee/practice/internal/repository"
)

// Service is the entity contract consumed by Handler. *repository.Repository
// satisfies it directly.
type Service[T any] interface {
	Create(ctx context.Context, data *T, tenantID, userID string) (*T, error)
	FindAll(ctx context.Context, tenantID string, includeDeleted bool, f *repository.Filter) (*repository.Result[T], error)
	FindOne(ctx context.Context, id, tenantID string, includeDeleted bool, with repository.Relations, columns repository.Columns) (*T, error)
	Update(ctx context.Context, id string, data map[string]any, tenantID, userID string) (*T, error)
	Remove(ctx context.Context, id, tenantID, userID string) (*repository.Message, error)
	Restore(ctx context.Context, id, tenantID, userID string) (*T, error)
	HardDelete(ctx context.Context, id, tenantID string) (*repository.Message, error)
}

// Hooks run before writes reach the repository. A hook error aborts the
// write and is returned unchanged.
type Hooks[T any] struct {
	BeforeCreate func(ctx context.Context, data *T) error
	BeforeUpdate func(ctx context.Context, data map[string]any) error
}

type service[T any] struct {
	repo  Service[T]
	hooks Hooks[T]
}

// NewService returns a Service delegating to repo after running hooks.
func NewService[T any](repo Service[T], hooks Hooks[T]) Service[T] {
	return &service[T]{repo: repo, hooks: hooks}
}

func (s *service[T]) Create(ctx context.Context, data *T, tenantID, userID string) (*T, error) {
	if s.hooks.BeforeCreate != nil && data != nil {
		if err := s.hooks.BeforeCreate(ctx, data); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, data, tenantID, userID)
}

func (s *service[T]) FindAll(ctx context.Context, tenantID string, includeDeleted bool, f *repository.Filter) (*repository.Result[T], error) {
	return s.repo.FindAll(ctx, tenantID, includeDeleted, f)
}

func (s *service[T]) FindOne(ctx context.Context, id, tenantID string, includeDeleted bool, with repository.Relations, columns repository.Columns) (*T, error) {
	return s.repo.FindOne(ctx, id, tenantID, includeDeleted, with, columns)
}

func (s *service[T]) Update(ctx context.Context, id string, data map[string]any, tenantID, userID string) (*T, error) {
	if s.hooks.BeforeUpdate != nil {
		if err := s.hooks.BeforeUpdate(ctx, data); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, data, tenantID, userID)
}

func (s *service[T]) Remove(ctx context.Context, id, tenantID, userID string) (*repository.Message, error) {
	return s.repo.Remove(ctx, id, tenantID, userID)
}

func (s *service[T]) Restore(ctx context.Context, id, tenantID, userID string) (*T, error) {
	return s.repo.Restore(ctx, id, tenantID, userID)
}

func (s *service[T]) HardDelete(ctx context.Context, id, tenantID string) (*repository.Message, error) {
	return s.repo.HardDelete(ctx, id, tenantID)
}

var _ Service[struct{}] = (*repository.Repository[struct{}])(nil)
