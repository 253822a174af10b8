package question

import (
	"fmt"
	"regexp"
	"strings"

	"visareq/domain/core"
)

// InputType is the form widget expected to capture an answer
type InputType string

const (
	InputText        InputType = "text"
	InputNumber      InputType = "number"
	InputBoolean     InputType = "boolean"
	InputDate        InputType = "date"
	InputSelect      InputType = "select"
	InputMultiSelect InputType = "multiselect"
	InputFile        InputType = "file"
	InputCurrency    InputType = "currency"
)

// KnownInputType reports whether t is a supported widget type.
func KnownInputType(t InputType) bool {
	switch t {
	case InputText, InputNumber, InputBoolean, InputDate,
		InputSelect, InputMultiSelect, InputFile, InputCurrency:
		return true
	}
	return false
}

// Effect of a conditional rule on the dependent question
const (
	EffectShow = "show"
	EffectHide = "hide"
)

// ConditionalRule shows or hides a question based on another answer.
type ConditionalRule struct {
	DependsOn string `json:"depends_on"`
	Condition string `json:"condition"`
	Effect    string `json:"effect"`
}

// Question is a single application-form question. Created exclusively by
// the question generator and never mutated after creation.
type Question struct {
	ID              string            `json:"question_id"`
	Section         string            `json:"section"`
	Text            string            `json:"text"`
	InputType       InputType         `json:"input_type"`
	Required        bool              `json:"required"`
	ValidationRules []string          `json:"validation_rules,omitempty"`
	HelpText        string            `json:"help_text,omitempty"`
	PolicyReference string            `json:"policy_reference,omitempty"`
	Conditional     []ConditionalRule `json:"conditional_logic,omitempty"`
}

var idPattern = regexp.MustCompile(`^Q_[A-Z0-9]+_\d{3,}$`)

// WellFormedID reports whether id follows the Q_<SECTION>_NNN scheme.
func WellFormedID(id string) bool {
	return idPattern.MatchString(id)
}

// NewID formats the n-th question ID for a section label, e.g. Q_APPL_003.
func NewID(sectionCode string, n int) string {
	return fmt.Sprintf("Q_%s_%03d", strings.ToUpper(sectionCode), n)
}

// Sections returns the distinct section labels in first-seen order.
func Sections(qs []Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range qs {
		if !seen[q.Section] {
			seen[q.Section] = true
			out = append(out, q.Section)
		}
	}
	return out
}

// Validate checks the generator stage's structural invariants: IDs present
// and unique, input types drawn from the enum, conditional rules pointing at
// questions that exist. Text quality and reference resolution are the
// validator stage's concern.
func Validate(qs []Question) error {
	if len(qs) == 0 {
		return core.NewInvariantError("question_generator", "no questions generated")
	}
	seen := make(map[string]bool, len(qs))
	for _, q := range qs {
		if strings.TrimSpace(q.ID) == "" {
			return core.NewInvariantError("question_generator", "question with empty id")
		}
		if seen[q.ID] {
			return core.NewInvariantError("question_generator", "duplicate question id: "+q.ID)
		}
		seen[q.ID] = true
		if !KnownInputType(q.InputType) {
			return core.NewInvariantError("question_generator",
				fmt.Sprintf("question %s has unknown input type %q", q.ID, q.InputType))
		}
	}
	for _, q := range qs {
		for _, c := range q.Conditional {
			if !seen[c.DependsOn] {
				return core.NewInvariantError("question_generator",
					fmt.Sprintf("question %s depends on unknown question %s", q.ID, c.DependsOn))
			}
			if c.Effect != EffectShow && c.Effect != EffectHide {
				return core.NewInvariantError("question_generator",
					fmt.Sprintf("question %s has unknown conditional effect %q", q.ID, c.Effect))
			}
		}
	}
	return nil
}
