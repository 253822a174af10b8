package requirement

import (
	"fmt"
	"regexp"
	"strings"

	"visareq/domain/core"
)

// Kind is one of the four requirement sub-kinds
type Kind string

const (
	KindFunctional Kind = "functional"
	KindData       Kind = "data"
	KindBusiness   Kind = "business"
	KindValidation Kind = "validation"
)

// Priority applies to functional and data requirements only
type Priority string

const (
	PriorityMustHave   Priority = "must_have"
	PriorityShouldHave Priority = "should_have"
	PriorityCouldHave  Priority = "could_have"
)

// Prefix returns the requirement ID prefix for a kind (FR, DR, BR, VR).
func Prefix(k Kind) string {
	switch k {
	case KindFunctional:
		return "FR"
	case KindData:
		return "DR"
	case KindBusiness:
		return "BR"
	case KindValidation:
		return "VR"
	}
	return ""
}

// NewID formats the n-th requirement ID for a kind, e.g. FR-001.
func NewID(k Kind, n int) string {
	return fmt.Sprintf("%s-%03d", Prefix(k), n)
}

var idPattern = regexp.MustCompile(`^(FR|DR|BR|VR)-\d{3,}$`)

// WellFormedID reports whether id follows the <PREFIX>-NNN scheme and the
// prefix agrees with the kind.
func WellFormedID(id string, k Kind) bool {
	if !idPattern.MatchString(id) {
		return false
	}
	return strings.HasPrefix(id, Prefix(k)+"-")
}

// Requirement is a single generated requirement of any kind.
type Requirement struct {
	ID              string   `json:"requirement_id"`
	Kind            Kind     `json:"kind"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority,omitempty"` // functional/data only
	Required        bool     `json:"required,omitempty"` // data/validation only
	PolicyReference string   `json:"policy_reference"`
}

// Set holds the four requirement lists produced by the extractor stage.
type Set struct {
	Functional []Requirement `json:"functional_requirements"`
	Data       []Requirement `json:"data_requirements"`
	Business   []Requirement `json:"business_rules"`
	Validation []Requirement `json:"validation_requirements"`
}

// All returns every requirement in kind order (functional, data, business,
// validation), each list in insertion order.
func (s Set) All() []Requirement {
	out := make([]Requirement, 0, s.Len())
	out = append(out, s.Functional...)
	out = append(out, s.Data...)
	out = append(out, s.Business...)
	out = append(out, s.Validation...)
	return out
}

// Len returns the total requirement count.
func (s Set) Len() int {
	return len(s.Functional) + len(s.Data) + len(s.Business) + len(s.Validation)
}

// References returns the distinct non-empty policy references across the set.
func (s Set) References() map[string]bool {
	refs := make(map[string]bool)
	for _, r := range s.All() {
		if r.PolicyReference != "" {
			refs[r.PolicyReference] = true
		}
	}
	return refs
}

// Validate checks the extractor stage's structural invariants: IDs present
// and unique across the whole set, kinds consistent with the list each
// requirement sits in, priorities drawn from the enum. Per-item description
// quality and reference resolution are the validator stage's concern.
func (s Set) Validate() error {
	if s.Len() == 0 {
		return core.NewInvariantError("requirements_extractor", "empty requirement set")
	}
	seen := make(map[string]bool, s.Len())
	check := func(list []Requirement, kind Kind) error {
		for _, r := range list {
			if strings.TrimSpace(r.ID) == "" {
				return core.NewInvariantError("requirements_extractor", "requirement with empty id")
			}
			if seen[r.ID] {
				return core.NewInvariantError("requirements_extractor", "duplicate requirement id: "+r.ID)
			}
			seen[r.ID] = true
			if r.Kind != kind {
				return core.NewInvariantError("requirements_extractor",
					fmt.Sprintf("requirement %s has kind %q, expected %q", r.ID, r.Kind, kind))
			}
			switch r.Priority {
			case "", PriorityMustHave, PriorityShouldHave, PriorityCouldHave:
			default:
				return core.NewInvariantError("requirements_extractor",
					fmt.Sprintf("requirement %s has unknown priority %q", r.ID, r.Priority))
			}
		}
		return nil
	}
	if err := check(s.Functional, KindFunctional); err != nil {
		return err
	}
	if err := check(s.Data, KindData); err != nil {
		return err
	}
	if err := check(s.Business, KindBusiness); err != nil {
		return err
	}
	return check(s.Validation, KindValidation)
}
