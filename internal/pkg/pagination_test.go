package pkg

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(queryParams url.Values) *gin.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestParseFilter_Defaults(t *testing.T) {
	f, err := ParseFilter(newTestContext(url.Values{}))
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.Page != 1 {
		t.Errorf("expected Page=1, got %d", f.Page)
	}
	if f.Limit != 20 {
		t.Errorf("expected Limit=20, got %d", f.Limit)
	}
	if f.SortOrder != "desc" {
		t.Errorf("expected SortOrder=desc, got %s", f.SortOrder)
	}
	if f.Paginated || f.IncludeDeleted {
		t.Errorf("expected flags off, got paginated=%v include_deleted=%v", f.Paginated, f.IncludeDeleted)
	}
	if f.With != nil || f.Columns != nil || f.DateFrom != nil {
		t.Errorf("expected absent optional parameters, got %+v", f)
	}
}

func TestParseFilter_CustomValues(t *testing.T) {
	c := newTestContext(url.Values{
		"search":          {" rex "},
		"status":          {"active"},
		"paginated":       {"true"},
		"page":            {"3"},
		"limit":           {"50"},
		"sort_by":         {"name"},
		"sort_order":      {"asc"},
		"include_deleted": {"1"},
		"date_from":       {"2024-01-01"},
		"date_to":         {"2024-01-31T23:59:59Z"},
		"with":            {`{"client":true}`},
		"columns":         {`{"name":true}`},
	})
	f, err := ParseFilter(c)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}

	if f.Search != "rex" {
		t.Errorf("expected Search=rex, got %q", f.Search)
	}
	if f.Status != "active" {
		t.Errorf("expected Status=active, got %q", f.Status)
	}
	if !f.Paginated || f.Page != 3 || f.Limit != 50 {
		t.Errorf("expected paginated page 3 limit 50, got %v %d %d", f.Paginated, f.Page, f.Limit)
	}
	if f.SortBy != "name" || f.SortOrder != "asc" {
		t.Errorf("expected name asc, got %s %s", f.SortBy, f.SortOrder)
	}
	if !f.IncludeDeleted {
		t.Error("expected IncludeDeleted=true")
	}
	if f.DateFrom == nil || !f.DateFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected DateFrom %v", f.DateFrom)
	}
	if f.DateTo == nil || !f.DateTo.Equal(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("unexpected DateTo %v", f.DateTo)
	}
	if !f.With["client"].Include {
		t.Errorf("expected client relation, got %v", f.With)
	}
	if !f.Columns["name"] {
		t.Errorf("expected name column, got %v", f.Columns)
	}
}

func TestParseFilter_CamelCaseNames(t *testing.T) {
	c := newTestContext(url.Values{
		"sortBy":         {"roomNumber"},
		"sortOrder":      {"asc"},
		"includeDeleted": {"true"},
		"dateFrom":       {"2024-02-01"},
	})
	f, err := ParseFilter(c)
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.SortBy != "roomNumber" || f.SortOrder != "asc" || !f.IncludeDeleted || f.DateFrom == nil {
		t.Errorf("camelCase parameters not honored: %+v", f)
	}
}

func TestParseFilter_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		params    url.Values
		wantPage  int
		wantLimit int
	}{
		{"page below minimum", url.Values{"page": {"0"}}, 1, 20},
		{"negative page", url.Values{"page": {"-5"}}, 1, 20},
		{"limit above maximum", url.Values{"limit": {"500"}}, 1, 100},
		{"limit zero", url.Values{"limit": {"0"}}, 1, 20},
		{"non-numeric", url.Values{"page": {"abc"}, "limit": {"xyz"}}, 1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFilter(newTestContext(tt.params))
			if err != nil {
				t.Fatalf("ParseFilter: %v", err)
			}
			if f.Page != tt.wantPage || f.Limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", f.Page, f.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestParseFilter_RejectsUnsafeSortField(t *testing.T) {
	f, err := ParseFilter(newTestContext(url.Values{"sort_by": {"name; DROP TABLE patients"}}))
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.SortBy != "" {
		t.Errorf("expected unsafe sort field to be dropped, got %q", f.SortBy)
	}
}

func TestParseFilter_InvalidDate(t *testing.T) {
	_, err := ParseFilter(newTestContext(url.Values{"date_from": {"yesterday"}}))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseFilter_MalformedProjection(t *testing.T) {
	f, err := ParseFilter(newTestContext(url.Values{
		"with":    {"not json"},
		"columns": {`{"a":"not-bool"}`},
	}))
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.With != nil || f.Columns != nil {
		t.Errorf("expected malformed projection to be dropped, got with=%v columns=%v", f.With, f.Columns)
	}
}

func TestIncludeDeleted(t *testing.T) {
	if IncludeDeleted(newTestContext(url.Values{})) {
		t.Error("expected false by default")
	}
	if !IncludeDeleted(newTestContext(url.Values{"include_deleted": {"true"}})) {
		t.Error("expected true")
	}
	if IncludeDeleted(newTestContext(url.Values{"include_deleted": {"maybe"}})) {
		t.Error("expected unparsable value to be false")
	}
}

func TestParseFilter_FeedsRepository(t *testing.T) {
	f, err := ParseFilter(newTestContext(url.Values{"paginated": {"true"}, "page": {"2"}, "limit": {"10"}}))
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	opts := repository.BuildQueryOptions(repository.Table{}, &f)
	if opts.Offset != 10 || opts.Limit != 10 || !opts.Paged {
		t.Errorf("unexpected options %+v", opts)
	}
}
