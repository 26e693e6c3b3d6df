package repository

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Kind is the primitive data kind of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindDate
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Well-known column names consulted for tenant scoping, auditing and
// soft deletion.
const (
	ColumnID             = "id"
	ColumnOrganizationID = "organization_id"
	ColumnCreatedAt      = "created_at"
	ColumnUpdatedAt      = "updated_at"
	ColumnCreatedBy      = "created_by"
	ColumnUpdatedBy      = "updated_by"
	ColumnDeletedAt      = "deleted_at"
	ColumnDeletedBy      = "deleted_by"
	ColumnStatus         = "status"
)

// Column describes one declared table column.
type Column struct {
	// Name is the database column name.
	Name string
	// Field is the wire name used by API payloads. Empty means Name.
	Field string
	Kind  Kind
}

// Table is the metadata the repository needs about one entity table.
// Capability flags are explicit so that behavior never depends on probing
// the entity value at runtime.
type Table struct {
	Name    string
	Columns []Column

	Tenant       bool // organization_id
	SoftDelete   bool // deleted_at, deleted_by
	Auditable    bool // created_by, updated_by
	HasCreatedAt bool
	HasUpdatedAt bool
	HasStatus    bool
}

// NewTable builds a Table and derives its capability flags from the
// declared columns.
func NewTable(name string, columns ...Column) Table {
	t := Table{Name: name, Columns: columns}
	t.Tenant = t.has(ColumnOrganizationID)
	t.SoftDelete = t.has(ColumnDeletedAt)
	t.Auditable = t.has(ColumnCreatedBy) && t.has(ColumnUpdatedBy)
	t.HasCreatedAt = t.has(ColumnCreatedAt)
	t.HasUpdatedAt = t.has(ColumnUpdatedAt)
	t.HasStatus = t.has(ColumnStatus)
	return t
}

// Column looks up a declared column by database name or wire name.
// Matching ignores case and underscores, so "roomNumber" and
// "room_number" resolve to the same column.
func (t Table) Column(key string) (Column, bool) {
	want := normalizeKey(key)
	if want == "" {
		return Column{}, false
	}
	for _, c := range t.Columns {
		if normalizeKey(c.Name) == want || (c.Field != "" && normalizeKey(c.Field) == want) {
			return c, true
		}
	}
	return Column{}, false
}

// StringColumns returns the searchable string-like columns. Identifier
// columns owned by the system (tenant and acting-user ids) are excluded.
func (t Table) StringColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.Kind != KindString {
			continue
		}
		switch c.Name {
		case ColumnOrganizationID, ColumnCreatedBy, ColumnUpdatedBy, ColumnDeletedBy:
			continue
		}
		out = append(out, c)
	}
	return out
}

func (t Table) has(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

var schemaCache sync.Map

// Describe derives the Table metadata of a GORM model once, from its parsed
// schema. Relation fields are not columns and are skipped.
func Describe(db *gorm.DB, model any) (Table, error) {
	s, err := parseSchema(db, model)
	if err != nil {
		return Table{}, err
	}

	columns := make([]Column, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName == "" {
			continue
		}
		columns = append(columns, Column{
			Name:  f.DBName,
			Field: jsonName(f),
			Kind:  kindOf(f.IndirectFieldType),
		})
	}
	return NewTable(s.Table, columns...), nil
}

func parseSchema(db *gorm.DB, model any) (*schema.Schema, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	s, err := schema.Parse(model, &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema of %T: %w", model, err)
	}
	return s, nil
}

func jsonName(f *schema.Field) string {
	tag := f.StructField.Tag.Get("json")
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}

var timeType = reflect.TypeOf(time.Time{})

func kindOf(t reflect.Type) Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType || t.ConvertibleTo(timeType) {
		return KindDate
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.String:
		return KindString
	default:
		return KindString
	}
}

// normalizeKey folds a wire or column name into a comparable form.
func normalizeKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}
