package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`500`, 500},
		{`"1180.5"`, 1180.5},
		{`"abc"`, 0},
		{`null`, 0},
		{`true`, 1},
		{`{"nested": 1}`, 0},
		{`"1e400"`, 0},
	}
	for _, tt := range tests {
		var p struct {
			Amount Amount `json:"amount"`
		}
		if err := json.Unmarshal([]byte(`{"amount":`+tt.raw+`}`), &p); err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.raw, err)
		}
		if p.Amount.Float() != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.raw, tt.want, p.Amount.Float())
		}
	}
}

func TestAmountFloatSanitizes(t *testing.T) {
	if got := Amount(math.NaN()).Float(); got != 0 {
		t.Errorf("expected NaN to read as 0, got %v", got)
	}
	if got := Amount(math.Inf(1)).Float(); got != 0 {
		t.Errorf("expected +Inf to read as 0, got %v", got)
	}
	if got := ValueOf(nil); got != 0 {
		t.Errorf("expected nil amount to read as 0, got %v", got)
	}
}

func TestLineIDText(t *testing.T) {
	placeholder := PlaceholderID("abc")
	if placeholder.String() != "temp_abc" {
		t.Errorf("expected temp_abc, got %s", placeholder)
	}
	if _, ok := placeholder.Persisted(); ok {
		t.Error("placeholder must not report a persisted id")
	}

	var line ServiceLine
	if err := json.Unmarshal([]byte(`{"id":"temp_abc","parent_package_event_service_id":"p-1"}`), &line); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.ID != placeholder {
		t.Errorf("expected placeholder id, got %#v", line.ID)
	}
	if id, ok := line.ParentLineID.Persisted(); !ok || id != "p-1" {
		t.Errorf("expected persisted parent p-1, got %q", id)
	}

	out, err := json.Marshal(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back ServiceLine
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.ID != line.ID || back.ParentLineID != line.ParentLineID {
		t.Errorf("ids changed across JSON: %#v", back)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		line ServiceLine
		want LineKind
	}{
		{"standalone", ServiceLine{}, KindStandalone},
		{"main", ServiceLine{IsPackageMainItem: true, PackageID: "gold"}, KindPackageMain},
		{"child", ServiceLine{ParentLineID: PersistedID("m")}, KindPackageChild},
		{"child with stale package id", ServiceLine{ParentLineID: PlaceholderID("m"), PackageID: "L"}, KindPackageChild},
		{"legacy", ServiceLine{PackageID: "L"}, KindLegacyMember},
		{"main wins over parent", ServiceLine{IsPackageMainItem: true, ParentLineID: PersistedID("x")}, KindPackageMain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Kind(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestServiceLineHelpers(t *testing.T) {
	line := ServiceLine{
		Quantity:         0,
		SupplierIDs:      []string{"a", "b", "c"},
		SupplierStatuses: map[string]SupplierStatus{"a": SupplierConfirmed, "b": SupplierRejected},
		MinSuppliers:     2,
	}
	if line.Qty() != 1 {
		t.Errorf("expected quantity 1, got %d", line.Qty())
	}
	confirmed, required := line.SupplierCoverage()
	if confirmed != 1 || required != 2 {
		t.Errorf("expected coverage 1/2, got %d/%d", confirmed, required)
	}

	clone := line.Clone()
	clone.SupplierIDs[0] = "z"
	clone.SupplierStatuses["a"] = SupplierPending
	if line.SupplierIDs[0] != "a" || line.SupplierStatuses["a"] != SupplierConfirmed {
		t.Error("clone must not share slices or maps")
	}
}

func TestPaymentValid(t *testing.T) {
	if !(Payment{Amount: 1}).Valid() {
		t.Error("positive payment should be valid")
	}
	if (Payment{Amount: 0}).Valid() || (Payment{Amount: -5}).Valid() {
		t.Error("non-positive payments should be invalid")
	}
}
