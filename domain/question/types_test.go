package question

import (
	"testing"
)

func TestWellFormedID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"Q_APPL_001", true},
		{"Q_HEAL2_012", true},
		{"Q_A_1234", true},
		{"Q_appl_001", false}, // lowercase section
		{"APPL_001", false},   // missing Q_
		{"Q_APPL_01", false},  // too few digits
		{"Q__001", false},     // empty section
		{"", false},
	}
	for _, tt := range tests {
		if got := WellFormedID(tt.id); got != tt.want {
			t.Errorf("WellFormedID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	ok := []Question{
		{ID: "Q_A_001", Text: "First?", InputType: InputText},
		{ID: "Q_A_002", Text: "Second?", InputType: InputBoolean},
		{ID: "Q_A_003", Text: "Shown conditionally?", InputType: InputFile,
			Conditional: []ConditionalRule{{DependsOn: "Q_A_002", Condition: "equals:true", Effect: EffectShow}}},
	}
	if err := Validate(ok); err != nil {
		t.Fatalf("valid questions failed validation: %v", err)
	}

	tests := []struct {
		name string
		qs   []Question
	}{
		{"empty list", nil},
		{"empty id", []Question{{Text: "a", InputType: InputText}}},
		{"duplicate id", []Question{
			{ID: "Q_A_001", Text: "a", InputType: InputText},
			{ID: "Q_A_001", Text: "b", InputType: InputText},
		}},
		{"unknown input type", []Question{{ID: "Q_A_001", Text: "a", InputType: "dropdown"}}},
		{"conditional depends on unknown question", []Question{
			{ID: "Q_A_001", Text: "a", InputType: InputText,
				Conditional: []ConditionalRule{{DependsOn: "Q_MISSING_009", Condition: "equals:true", Effect: EffectShow}}},
		}},
		{"unknown conditional effect", []Question{
			{ID: "Q_A_001", Text: "a", InputType: InputText},
			{ID: "Q_A_002", Text: "b", InputType: InputText,
				Conditional: []ConditionalRule{{DependsOn: "Q_A_001", Condition: "equals:true", Effect: "toggle"}}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.qs); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestValidateForwardConditionalReference(t *testing.T) {
	// A conditional may point at a question declared later in the list.
	qs := []Question{
		{ID: "Q_A_001", Text: "a", InputType: InputText,
			Conditional: []ConditionalRule{{DependsOn: "Q_A_002", Condition: "equals:true", Effect: EffectHide}}},
		{ID: "Q_A_002", Text: "b", InputType: InputBoolean},
	}
	if err := Validate(qs); err != nil {
		t.Fatalf("forward conditional reference should validate: %v", err)
	}
}

func TestSections(t *testing.T) {
	qs := []Question{
		{ID: "Q_A_001", Section: "Applicant"},
		{ID: "Q_B_002", Section: "Sponsor"},
		{ID: "Q_A_003", Section: "Applicant"},
	}
	got := Sections(qs)
	if len(got) != 2 || got[0] != "Applicant" || got[1] != "Sponsor" {
		t.Errorf("Sections() = %v, want [Applicant Sponsor]", got)
	}
}
