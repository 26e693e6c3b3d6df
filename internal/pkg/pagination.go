package pkg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/repository"
)

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// dateLayouts are the accepted date_from/date_to formats.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseFilter extracts the common list parameters from the query string.
// Each parameter is read under its snake_case name first, then its
// camelCase name. Malformed numbers fall back to defaults and malformed
// with/columns values are dropped; a malformed date is a validation error.
func ParseFilter(c *gin.Context) (repository.Filter, error) {
	var f repository.Filter

	f.Search = strings.TrimSpace(query(c, "search"))
	f.Status = strings.TrimSpace(query(c, "status"))

	var err error
	if f.DateFrom, err = parseDate(query(c, "date_from", "dateFrom")); err != nil {
		return f, domain.NewAppError(domain.CodeValidation, "invalid date_from", err)
	}
	if f.DateTo, err = parseDate(query(c, "date_to", "dateTo")); err != nil {
		return f, domain.NewAppError(domain.CodeValidation, "invalid date_to", err)
	}

	f.Paginated = parseBool(query(c, "paginated"))
	f.Page, _ = strconv.Atoi(query(c, "page"))
	f.Limit, _ = strconv.Atoi(query(c, "limit"))

	if sortBy := strings.TrimSpace(query(c, "sort_by", "sortBy")); validFieldName.MatchString(sortBy) {
		f.SortBy = sortBy
	}
	f.SortOrder = query(c, "sort_order", "sortOrder")
	f.IncludeDeleted = parseBool(query(c, "include_deleted", "includeDeleted"))

	p := ParseProjection(c)
	f.With, f.Columns = p.With, p.Columns

	f.Normalize()
	return f, nil
}

// ParseProjection reads the with and columns query parameters.
func ParseProjection(c *gin.Context) repository.Projection {
	return repository.ParseProjection(query(c, "with"), query(c, "columns"))
}

// IncludeDeleted reads the include_deleted query parameter.
func IncludeDeleted(c *gin.Context) bool {
	return parseBool(query(c, "include_deleted", "includeDeleted"))
}

// query returns the first non-empty value among the given parameter names.
func query(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unsupported date format %q", s)
}
