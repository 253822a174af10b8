package app

import (
	"context"
	"log"

	"visareq/domain/question"
	"visareq/domain/requirement"
	"visareq/domain/run"
	"visareq/gateway"
	"visareq/ports"
)

// QuestionGeneratorStage turns the requirement set into application-form
// questions.
type QuestionGeneratorStage struct {
	client   ports.Completer
	fallback FallbackProvider
}

func NewQuestionGeneratorStage(client ports.Completer) *QuestionGeneratorStage {
	return &QuestionGeneratorStage{client: client}
}

// requirementSetPrompt is the prompt embedding of the extractor output.
type requirementSetPrompt = requirement.Set

// generatorResponse is the wire shape the generator prompt asks for.
type generatorResponse struct {
	Questions []question.Question `json:"application_questions"`
}

func (s *QuestionGeneratorStage) Generate(ctx context.Context, in requirement.Set) ports.StageResult[[]question.Question] {
	spec := stageSpec[requirement.Set, []question.Question]{
		name: run.StageQuestionGenerator,
		checkInput: func(set requirement.Set) error {
			return set.Validate()
		},
		prompt: func(set requirement.Set) string {
			return buildGeneratorPrompt(set)
		},
		parse: func(set requirement.Set, raw string) ([]question.Question, error) {
			resp, err := gateway.DecodeJSON[generatorResponse](raw)
			if err != nil {
				return nil, err
			}
			return sanitizeQuestionRefs(resp.Questions, set), nil
		},
		validate: func(_ requirement.Set, qs []question.Question) error {
			return question.Validate(qs)
		},
		fallback: s.fallback.Questions,
	}
	return runStage(ctx, s.client, spec, in)
}

// sanitizeQuestionRefs blanks any policy reference the model invented. A
// question's reference must come from the requirement set it was generated
// from; an empty reference is always acceptable downstream, a dangling one
// never is.
func sanitizeQuestionRefs(qs []question.Question, set requirement.Set) []question.Question {
	known := set.References()
	for i := range qs {
		if ref := qs[i].PolicyReference; ref != "" && !known[ref] {
			log.Printf("[%s] Dropping unknown policy reference %q on question %s",
				run.StageQuestionGenerator, ref, qs[i].ID)
			qs[i].PolicyReference = ""
		}
	}
	return qs
}
