package item

import (
	"net/http"
	"testing"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
	"github.com/simp-lee/practice/internal/module/crud/crudtest"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	m, err := NewModule(crud.Deps{DB: crudtest.OpenDB(t)})
	if err != nil {
		t.Fatalf("NewModule() error: %v", err)
	}
	return crudtest.Router(t, m)
}

func TestItem_CreateDefaults(t *testing.T) {
	r := newRouter(t)

	w := crudtest.Do(r, http.MethodPost, "/api/v1/items", `{"name":"Vaccine","sku":" vac-01 ","price":120.5}`, "org-1")
	crudtest.MustStatus(t, w, http.StatusCreated)
	it := crudtest.Decode[domain.Item](t, w).Data

	if it.SKU != "VAC-01" {
		t.Errorf("sku = %q, want VAC-01", it.SKU)
	}
	if it.Kind != domain.ItemProduct {
		t.Errorf("kind = %q, want product", it.Kind)
	}
	if !it.Active || it.Status != domain.StatusActive {
		t.Errorf("expected active item, got active=%v status=%q", it.Active, it.Status)
	}
}

func TestItem_ActiveFilterAndStatus(t *testing.T) {
	r := newRouter(t)

	for _, body := range []string{
		`{"name":"Consult","kind":"service","price":80}`,
		`{"name":"Old collar","price":10,"active":false}`,
	} {
		crudtest.MustStatus(t, crudtest.Do(r, http.MethodPost, "/api/v1/items", body, "org-1"), http.StatusCreated)
	}

	w := crudtest.Do(r, http.MethodGet, "/api/v1/items?active=false", "", "org-1")
	crudtest.MustStatus(t, w, http.StatusOK)
	inactive := crudtest.Decode[[]domain.Item](t, w).Data
	if len(inactive) != 1 || inactive[0].Name != "Old collar" {
		t.Fatalf("active=false returned %+v", inactive)
	}
	if inactive[0].Status != domain.StatusInactive {
		t.Errorf("status = %q, want inactive", inactive[0].Status)
	}

	w = crudtest.Do(r, http.MethodPatch, "/api/v1/items/"+inactive[0].ID, `{"active":true}`, "org-1")
	crudtest.MustStatus(t, w, http.StatusOK)
	if got := crudtest.Decode[domain.Item](t, w).Data; !got.Active || got.Status != domain.StatusActive {
		t.Errorf("after reactivation: active=%v status=%q", got.Active, got.Status)
	}

	w = crudtest.Do(r, http.MethodGet, "/api/v1/items?kind=service", "", "org-1")
	crudtest.MustStatus(t, w, http.StatusOK)
	if list := crudtest.Decode[[]domain.Item](t, w).Data; len(list) != 1 || list[0].Name != "Consult" {
		t.Errorf("kind=service returned %+v", list)
	}
}

func TestItem_RejectsNegativePrice(t *testing.T) {
	r := newRouter(t)

	w := crudtest.Do(r, http.MethodPost, "/api/v1/items", `{"name":"Refund","price":-1}`, "org-1")
	crudtest.MustStatus(t, w, http.StatusBadRequest)
}
