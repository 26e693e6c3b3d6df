// Package repository implements a generic, tenant-scoped data access layer
// over GORM with filtering, projection, pagination, auditing and soft
// deletion driven by explicit table metadata.
package repository

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/simp-lee/practice/internal/domain"
)

// Option configures a Repository.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Repository provides tenant-scoped persistence for entities of type T.
type Repository[T any] struct {
	db     *gorm.DB
	table  Table
	schema *schema.Schema
	now    func() time.Time
}

// New creates a Repository for T described by table. An empty table name
// is taken from the GORM schema of T.
func New[T any](db *gorm.DB, table Table, opts ...Option) (*Repository[T], error) {
	s, err := parseSchema(db, new(T))
	if err != nil {
		return nil, err
	}
	if table.Name == "" {
		table.Name = s.Table
	}
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T]{db: db, table: table, schema: s, now: o.now}, nil
}

// ForModel creates a Repository for T with metadata derived by Describe.
func ForModel[T any](db *gorm.DB, opts ...Option) (*Repository[T], error) {
	table, err := Describe(db, new(T))
	if err != nil {
		return nil, err
	}
	return New[T](db, table, opts...)
}

// Table returns the metadata the repository was built with.
func (r *Repository[T]) Table() Table {
	return r.table
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = tx
	return &cp
}

// Conditions builds the predicate for tenantID, includeDeleted and f
// against this repository's table.
func (r *Repository[T]) Conditions(tenantID string, includeDeleted bool, f *Filter) clause.Expression {
	return BuildConditions(r.table, tenantID, includeDeleted, f)
}

// QueryOptions builds ordering and paging for f against this repository's
// table.
func (r *Repository[T]) QueryOptions(f *Filter) QueryOptions {
	return BuildQueryOptions(r.table, f)
}

// Create inserts data stamped with the tenant, the acting user and the
// current time. Caller-supplied values for those fields are overwritten.
// Associations are not written.
func (r *Repository[T]) Create(ctx context.Context, data *T, tenantID, userID string) (*T, error) {
	if data == nil {
		return nil, domain.NewAppError(domain.CodeValidation, "data is required", nil)
	}

	now := r.now()
	stamps := map[string]any{}
	if r.table.Tenant {
		stamps[ColumnOrganizationID] = tenantID
	}
	if r.table.HasCreatedAt {
		stamps[ColumnCreatedAt] = now
	}
	if r.table.HasUpdatedAt {
		stamps[ColumnUpdatedAt] = now
	}
	if r.table.Auditable {
		stamps[ColumnCreatedBy] = userRef(userID)
		stamps[ColumnUpdatedBy] = userRef(userID)
	}
	if r.table.SoftDelete {
		stamps[ColumnDeletedAt] = nil
		stamps[ColumnDeletedBy] = nil
	}

	rv := reflect.ValueOf(data).Elem()
	for name, v := range stamps {
		field := r.schema.LookUpField(name)
		if field == nil {
			continue
		}
		if err := field.Set(ctx, rv, v); err != nil {
			return nil, fmt.Errorf("stamp %s: %w", name, err)
		}
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(data).Error; err != nil {
		return nil, mapError(err)
	}
	return data, nil
}

// FindAll lists the rows matching f for tenantID. When f is paginated the
// total row count is read concurrently with the page; the two reads are
// not transactionally linked.
func (r *Repository[T]) FindAll(ctx context.Context, tenantID string, includeDeleted bool, f *Filter) (*Result[T], error) {
	var filter Filter
	if f != nil {
		filter = *f
	}
	filter.Normalize()

	where := r.Conditions(tenantID, includeDeleted, &filter)
	opts := r.QueryOptions(&filter)
	deleted := includeDeleted || filter.IncludeDeleted

	rows := []T{}
	if !opts.Paged {
		err := r.query(ctx, where, tenantID, deleted, filter.With, filter.Columns).
			Scopes(opts.scope(r.table.Name)).
			Find(&rows).Error
		if err != nil {
			return nil, mapError(err)
		}
		return &Result[T]{Data: rows}, nil
	}

	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.query(gctx, where, tenantID, deleted, filter.With, filter.Columns).
			Scopes(opts.scope(r.table.Name)).
			Find(&rows).Error
	})
	g.Go(func() error {
		return r.scoped(gctx, where).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, mapError(err)
	}

	return &Result[T]{
		Data:      rows,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
		Paginated: true,
	}, nil
}

// FindOne returns the row with id for tenantID, or nil when there is none.
func (r *Repository[T]) FindOne(ctx context.Context, id, tenantID string, includeDeleted bool, with Relations, columns Columns) (*T, error) {
	where := and(r.idEq(id), r.Conditions(tenantID, includeDeleted, nil))

	var rows []T
	err := r.query(ctx, where, tenantID, includeDeleted, with, columns).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Update applies data to the live row with id for tenantID and returns the
// updated row. Keys naming no column, or naming id, tenant, audit or
// deletion columns, are discarded. It returns nil when no live row matched.
func (r *Repository[T]) Update(ctx context.Context, id string, data map[string]any, tenantID, userID string) (*T, error) {
	values := r.assignments(data)
	if r.table.HasUpdatedAt {
		values[ColumnUpdatedAt] = r.now()
	}
	if r.table.Auditable {
		values[ColumnUpdatedBy] = userRef(userID)
	}
	if len(values) == 0 {
		return r.FindOne(ctx, id, tenantID, false, nil, nil)
	}

	res := r.scoped(ctx, r.rowCondition(id, tenantID, r.liveOnly())).Updates(values)
	if res.Error != nil {
		return nil, mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindOne(ctx, id, tenantID, false, nil, nil)
}

// Remove soft-deletes the row with id for tenantID, or deletes it
// permanently when the table has no soft-delete column. The same
// acknowledgement is returned whether or not a row matched.
func (r *Repository[T]) Remove(ctx context.Context, id, tenantID, userID string) (*Message, error) {
	if !r.table.SoftDelete {
		return r.HardDelete(ctx, id, tenantID)
	}

	now := r.now()
	values := map[string]any{ColumnDeletedAt: now}
	if r.table.has(ColumnDeletedBy) {
		values[ColumnDeletedBy] = userRef(userID)
	}
	if r.table.HasUpdatedAt {
		values[ColumnUpdatedAt] = now
	}
	if r.table.Auditable {
		values[ColumnUpdatedBy] = userRef(userID)
	}

	err := r.scoped(ctx, r.rowCondition(id, tenantID, r.liveOnly())).Updates(values).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &Message{Message: "record removed"}, nil
}

// Restore clears the deletion marker of the row with id for tenantID and
// returns the live row. A row that was never deleted is returned
// unchanged; nil is returned when no such row exists.
func (r *Repository[T]) Restore(ctx context.Context, id, tenantID, userID string) (*T, error) {
	if !r.table.SoftDelete {
		return nil, domain.NewAppError(domain.CodeUnsupported,
			fmt.Sprintf("restore is not supported for %s", r.table.Name), domain.ErrUnsupportedOperation)
	}

	values := map[string]any{ColumnDeletedAt: nil}
	if r.table.has(ColumnDeletedBy) {
		values[ColumnDeletedBy] = nil
	}
	if r.table.HasUpdatedAt {
		values[ColumnUpdatedAt] = r.now()
	}
	if r.table.Auditable {
		values[ColumnUpdatedBy] = userRef(userID)
	}

	deleted := clause.Neq{Column: r.table.column(ColumnDeletedAt), Value: nil}
	err := r.scoped(ctx, and(r.rowCondition(id, tenantID, nil), deleted)).Updates(values).Error
	if err != nil {
		return nil, mapError(err)
	}
	return r.FindOne(ctx, id, tenantID, false, nil, nil)
}

// HardDelete permanently deletes the row with id for tenantID, deleted or
// not. The same acknowledgement is returned whether or not a row matched.
func (r *Repository[T]) HardDelete(ctx context.Context, id, tenantID string) (*Message, error) {
	where := r.rowCondition(id, tenantID, nil)
	if err := r.db.WithContext(ctx).Clauses(clause.Where{Exprs: []clause.Expression{where}}).Delete(new(T)).Error; err != nil {
		return nil, mapError(err)
	}
	return &Message{Message: "record permanently deleted"}, nil
}

// scoped starts a query on T restricted by where.
func (r *Repository[T]) scoped(ctx context.Context, where clause.Expression) *gorm.DB {
	db := r.db.WithContext(ctx).Model(new(T))
	if where != nil {
		db = db.Clauses(clause.Where{Exprs: []clause.Expression{where}})
	}
	return db
}

// query is scoped plus projection and relation preloading.
func (r *Repository[T]) query(ctx context.Context, where clause.Expression, tenantID string, includeDeleted bool, with Relations, columns Columns) *gorm.DB {
	db := r.scoped(ctx, where)
	keys := attachKeys(r.schema, with)
	if selected := r.columnNames(columns.Selected()); len(selected) > 0 {
		db = db.Select(unique(append(keys, selected...)))
	} else if omitted := without(r.columnNames(columns.Omitted()), keys); len(omitted) > 0 {
		db = db.Omit(omitted...)
	}
	if len(with) > 0 {
		db = preload(db, r.schema, "", with, tenantID, includeDeleted)
	}
	return db
}

func (r *Repository[T]) columnNames(keys []string) []string {
	var out []string
	for _, k := range keys {
		if c, ok := r.table.Column(k); ok {
			out = append(out, c.Name)
		}
	}
	return out
}

func (r *Repository[T]) idEq(id string) clause.Expression {
	return clause.Eq{Column: r.table.column(ColumnID), Value: id}
}

// rowCondition selects one row by id within tenantID, optionally further
// restricted by extra.
func (r *Repository[T]) rowCondition(id, tenantID string, extra clause.Expression) clause.Expression {
	var tenant clause.Expression
	if tenantID != "" {
		tenant = clause.Eq{Column: r.table.column(ColumnOrganizationID), Value: tenantID}
	}
	return and(r.idEq(id), tenant, extra)
}

func (r *Repository[T]) liveOnly() clause.Expression {
	if !r.table.SoftDelete {
		return nil
	}
	return clause.Eq{Column: r.table.column(ColumnDeletedAt), Value: nil}
}

// protectedColumns are managed by the repository and never written from
// update payloads.
var protectedColumns = map[string]struct{}{
	ColumnID:             {},
	ColumnOrganizationID: {},
	ColumnCreatedAt:      {},
	ColumnCreatedBy:      {},
	ColumnUpdatedAt:      {},
	ColumnUpdatedBy:      {},
	ColumnDeletedAt:      {},
	ColumnDeletedBy:      {},
}

func (r *Repository[T]) assignments(data map[string]any) map[string]any {
	values := make(map[string]any, len(data)+2)
	for key, v := range data {
		col, ok := r.table.Column(key)
		if !ok {
			continue
		}
		if _, ok := protectedColumns[col.Name]; ok {
			continue
		}
		if !isScalar(v) {
			continue
		}
		values[col.Name] = v
	}
	return values
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, time.Time, *time.Time:
		return true
	}
	switch reflect.Indirect(reflect.ValueOf(v)).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return false
	default:
		return true
	}
}

func userRef(userID string) *string {
	if userID == "" {
		return nil
	}
	return &userID
}

