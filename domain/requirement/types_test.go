package requirement

import (
	"testing"

	"visareq/domain/core"
)

func TestWellFormedID(t *testing.T) {
	tests := []struct {
		id   string
		kind Kind
		want bool
	}{
		{"FR-001", KindFunctional, true},
		{"DR-042", KindData, true},
		{"BR-100", KindBusiness, true},
		{"VR-1234", KindValidation, true}, // more than three digits is fine
		{"FR-01", KindFunctional, false},  // too few digits
		{"FR001", KindFunctional, false},  // missing dash
		{"fr-001", KindFunctional, false}, // lowercase prefix
		{"DR-001", KindFunctional, false}, // prefix/kind mismatch
		{"XX-001", KindFunctional, false}, // unknown prefix
		{"", KindFunctional, false},
	}

	for _, tt := range tests {
		if got := WellFormedID(tt.id, tt.kind); got != tt.want {
			t.Errorf("WellFormedID(%q, %s) = %v, want %v", tt.id, tt.kind, got, tt.want)
		}
	}
}

func TestNewID(t *testing.T) {
	if got := NewID(KindFunctional, 7); got != "FR-007" {
		t.Errorf("NewID(functional, 7) = %q, want FR-007", got)
	}
	if got := NewID(KindValidation, 123); got != "VR-123" {
		t.Errorf("NewID(validation, 123) = %q, want VR-123", got)
	}
}

func TestSetValidate(t *testing.T) {
	valid := Set{
		Functional: []Requirement{{ID: "FR-001", Kind: KindFunctional, Description: "a", Priority: PriorityMustHave}},
		Data:       []Requirement{{ID: "DR-001", Kind: KindData, Description: "b", Priority: PriorityShouldHave}},
		Business:   []Requirement{{ID: "BR-001", Kind: KindBusiness, Description: "c"}},
		Validation: []Requirement{{ID: "VR-001", Kind: KindValidation, Description: "d"}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid set failed validation: %v", err)
	}

	tests := []struct {
		name string
		set  Set
	}{
		{"empty set", Set{}},
		{"empty id", Set{Functional: []Requirement{{Kind: KindFunctional, Description: "a"}}}},
		{"duplicate id across kinds", Set{
			Functional: []Requirement{{ID: "FR-001", Kind: KindFunctional, Description: "a"}},
			Data:       []Requirement{{ID: "FR-001", Kind: KindData, Description: "b"}},
		}},
		{"kind mismatch", Set{Functional: []Requirement{{ID: "FR-001", Kind: KindData, Description: "a"}}}},
		{"unknown priority", Set{Functional: []Requirement{{ID: "FR-001", Kind: KindFunctional, Description: "a", Priority: "urgent"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !core.IsRecoverable(err) {
				t.Errorf("invariant violations must be recoverable, got %v", err)
			}
		})
	}
}

func TestSetAllAndReferences(t *testing.T) {
	set := Set{
		Functional: []Requirement{{ID: "FR-001", Kind: KindFunctional, Description: "a", PolicyReference: "V4.1"}},
		Validation: []Requirement{{ID: "VR-001", Kind: KindValidation, Description: "d", PolicyReference: "V4.1"}},
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	all := set.All()
	if len(all) != 2 || all[0].ID != "FR-001" || all[1].ID != "VR-001" {
		t.Errorf("All() order wrong: %+v", all)
	}
	refs := set.References()
	if len(refs) != 1 || !refs["V4.1"] {
		t.Errorf("References() = %v, want single V4.1", refs)
	}
}
