package repository

import (
	"strings"
	"time"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Sort directions accepted by Filter.SortOrder.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Filter is the normalized description of a listing request.
type Filter struct {
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   string

	Paginated bool
	Page      int
	Limit     int
	SortBy    string
	SortOrder string

	IncludeDeleted bool

	With    Relations
	Columns Columns

	// Fields holds entity-declared filter fields. Each key is matched by
	// equality against the table column of the same name; keys that name
	// no column are ignored.
	Fields map[string]any
}

// Normalize applies defaults and clamps in place.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	switch {
	case f.Limit < 1:
		f.Limit = DefaultLimit
	case f.Limit > MaxLimit:
		f.Limit = MaxLimit
	}
	f.SortOrder = strings.ToLower(strings.TrimSpace(f.SortOrder))
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
}

// Offset returns the number of rows skipped for the current page.
func (f *Filter) Offset() int {
	page := f.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := f.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	return (page - 1) * limit
}

// reservedKeys are filter names with dedicated handling; they are never
// treated as equality fields.
var reservedKeys = map[string]struct{}{
	"search":         {},
	"datefrom":       {},
	"dateto":         {},
	"status":         {},
	"paginated":      {},
	"page":           {},
	"limit":          {},
	"sortby":         {},
	"sortorder":      {},
	"includedeleted": {},
	"with":           {},
	"columns":        {},
}

// IsReserved reports whether key names a built-in filter parameter.
func IsReserved(key string) bool {
	_, ok := reservedKeys[normalizeKey(key)]
	return ok
}
