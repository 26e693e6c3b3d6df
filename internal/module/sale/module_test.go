package sale

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/module/crud"
	"github.com/simp-lee/practice/internal/module/crud/crudtest"
)

func TestSale_LinesRelation(t *testing.T) {
	db := crudtest.OpenDB(t)
	m, err := NewModule(crud.Deps{DB: db})
	if err != nil {
		t.Fatalf("NewModule() error: %v", err)
	}
	r := crudtest.Router(t, m)

	w := crudtest.Do(r, http.MethodPost, "/api/v1/sales", `{"total":30,"notes":"walk-in"}`, "org-1")
	crudtest.MustStatus(t, w, http.StatusCreated)
	s := crudtest.Decode[domain.Sale](t, w).Data
	if s.Status != domain.SaleOpen {
		t.Errorf("status = %q, want open", s.Status)
	}

	it := domain.Item{Name: "Shampoo", SKU: "SH-1", Price: 15, Active: true}
	it.OrganizationID = "org-1"
	if err := db.Create(&it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	line := domain.SaleLine{SaleID: s.ID, ItemID: it.ID, Quantity: 2, UnitPrice: 15}
	line.OrganizationID = "org-1"
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed line: %v", err)
	}

	with := url.QueryEscape(`{"lines":{"with":{"item":true}}}`)
	w = crudtest.Do(r, http.MethodGet, "/api/v1/sales/"+s.ID+"?with="+with, "", "org-1")
	crudtest.MustStatus(t, w, http.StatusOK)
	got := crudtest.Decode[domain.Sale](t, w).Data
	if len(got.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got.Lines))
	}
	if got.Lines[0].Item == nil || got.Lines[0].Item.SKU != "SH-1" {
		t.Errorf("expected nested item relation, got %+v", got.Lines[0].Item)
	}

	w = crudtest.Do(r, http.MethodPatch, "/api/v1/sales/"+s.ID, `{"status":"paid"}`, "org-1")
	crudtest.MustStatus(t, w, http.StatusOK)
	if got := crudtest.Decode[domain.Sale](t, w).Data.Status; got != domain.SalePaid {
		t.Errorf("status = %q, want paid", got)
	}
}
