package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestModel_BeforeCreateAssignsID(t *testing.T) {
	m := &Model{}
	if err := m.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if len(m.ID) != 36 {
		t.Fatalf("ID = %q, want a UUID", m.ID)
	}

	keep := &Model{ID: "p1"}
	if err := keep.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if keep.ID != "p1" {
		t.Errorf("ID = %q, want caller-supplied p1", keep.ID)
	}
}

func TestSoftDelete_Deleted(t *testing.T) {
	var s SoftDelete
	if s.Deleted() {
		t.Error("zero SoftDelete should not be deleted")
	}
	now := time.Now()
	s.DeletedAt = &now
	if !s.Deleted() {
		t.Error("SoftDelete with DeletedAt should be deleted")
	}
}

func TestPatientJSON_OmitsUnloadedRelations(t *testing.T) {
	p := Patient{Model: Model{ID: "p1", OrganizationID: "org-1"}, Name: "Rex"}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal patient: %v", err)
	}
	body := string(raw)

	for _, key := range []string{`"client"`, `"appointments"`} {
		if strings.Contains(body, key) {
			t.Errorf("json should omit unloaded relation %s, got: %s", key, body)
		}
	}
	for _, key := range []string{`"organization_id":"org-1"`, `"deleted_at":null`, `"created_by":null`} {
		if !strings.Contains(body, key) {
			t.Errorf("json should contain %s, got: %s", key, body)
		}
	}
}

func TestModels_ListsEveryEntity(t *testing.T) {
	if got := len(Models()); got != 7 {
		t.Fatalf("len(Models()) = %d, want 7", got)
	}
}
