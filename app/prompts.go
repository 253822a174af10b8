package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"visareq/ports"
)

const (
	maxPolicyChars = 6000
	maxInputChars  = 4000
)

// truncate caps prompt payloads so a large upload cannot blow the context
// window. The tail is dropped, matching the source document's front-loaded
// section ordering.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n...[truncated]"
}

// compactJSON renders v for prompt embedding.
func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func buildAnalyzerPrompt(in ports.AnalyzerInput) string {
	var b strings.Builder
	b.WriteString("Analyze this immigration policy document.\n\n")
	if in.VisaTypeHint != "" {
		fmt.Fprintf(&b, "A pre-detection pass suggests the visa type is %q; confirm or correct it from the document itself.\n\n", in.VisaTypeHint)
	}
	b.WriteString("Policy Document:\n")
	b.WriteString(truncate(in.PolicyText, maxPolicyChars))
	b.WriteString(`

Return a JSON object with:
- visa_type, visa_code, version
- objectives: ordered list of policy objectives
- key_requirements: object mapping requirement name to description
- stakeholders: list of stakeholder roles
- sections: list of {key, title, content} using the document's section numbering as key
- eligibility_rules: list of {id, description, category, mandatory, policy_reference}
  where category is one of "applicant", "sponsor", "dependent" and id follows ER-001, ER-002, ...
- conditions: list of {kind, description, mandatory, policy_reference}
  where kind is one of "visa", "financial", "health", "character", "decline_reason"

Return ONLY valid JSON, no other text.`)
	return b.String()
}

func buildExtractorPrompt(in extractorPromptInput) string {
	var b strings.Builder
	b.WriteString("Extract system requirements from this analyzed visa policy.\n\n")
	fmt.Fprintf(&b, "Policy Structure:\n%s\n\n", truncate(compactJSON(in.Structure), maxInputChars))
	fmt.Fprintf(&b, "Eligibility Rules:\n%s\n\n", truncate(compactJSON(in.Rules), maxInputChars))
	fmt.Fprintf(&b, "Sections:\n%s\n", truncate(compactJSON(in.Sections), maxInputChars))
	b.WriteString(`
Return a JSON object with four lists:
- functional_requirements: {requirement_id (FR-001, FR-002, ...), description, priority, policy_reference}
- data_requirements: {requirement_id (DR-001, ...), description, priority, required, policy_reference}
- business_rules: {requirement_id (BR-001, ...), description, policy_reference}
- validation_requirements: {requirement_id (VR-001, ...), description, required, policy_reference}

priority is one of "must_have", "should_have", "could_have".
Generate at least one requirement for every eligibility rule category present.
Every policy_reference must point at a section key or eligibility rule reference from the input.

Return ONLY valid JSON, no other text.`)
	return b.String()
}

func buildGeneratorPrompt(in requirementSetPrompt) string {
	var b strings.Builder
	b.WriteString("Generate application form questions from these requirements.\n\n")
	fmt.Fprintf(&b, "Requirements:\n%s\n", truncate(compactJSON(in), maxInputChars*2))
	b.WriteString(`
Return a JSON object with:
- application_questions: list of {question_id, section, text, input_type, required,
  validation_rules, help_text, policy_reference, conditional_logic}

question_id follows Q_<SECTION>_NNN (e.g. Q_APPL_001) and must be unique.
input_type is one of "text", "number", "boolean", "date", "select", "multiselect", "file", "currency".
conditional_logic entries are {depends_on, condition, effect} with effect "show" or "hide".
Every must-have data requirement and required validation requirement needs at least one
question carrying its policy_reference.

Return ONLY valid JSON, no other text.`)
	return b.String()
}

func buildValidatorPrompt(in ports.ValidatorInput) string {
	var b strings.Builder
	b.WriteString("Review the consistency of this generated content against the source policy.\n\n")
	fmt.Fprintf(&b, "Policy Structure:\n%s\n\n", truncate(compactJSON(in.Analysis.Structure), maxInputChars))
	fmt.Fprintf(&b, "Requirement counts: functional=%d data=%d business=%d validation=%d\n",
		len(in.Requirements.Functional), len(in.Requirements.Data), len(in.Requirements.Business), len(in.Requirements.Validation))
	fmt.Fprintf(&b, "Question count: %d\n", len(in.Questions))
	b.WriteString(`
Return a JSON object with:
- consistency_notes: list of short findings about contradictions, duplicated intent,
  or terminology drift between requirements and questions

Return ONLY valid JSON, no other text.`)
	return b.String()
}

func buildConsolidatorPrompt(in ports.ConsolidatorInput) string {
	var b strings.Builder
	b.WriteString("Write a brief narrative for a consolidated requirements specification.\n\n")
	fmt.Fprintf(&b, "Visa: %s (%s)\n", in.Analysis.Structure.VisaType, in.Analysis.Structure.VisaCode)
	fmt.Fprintf(&b, "Totals: %d requirements, %d questions, validation score %.2f\n",
		in.Requirements.Len(), len(in.Questions), in.Report.OverallScore)
	b.WriteString(`
Return a JSON object with:
- executive_summary: 3-5 sentence markdown summary for stakeholders
- system_overview: 2-3 sentence description of the target application system

Return ONLY valid JSON, no other text.`)
	return b.String()
}
