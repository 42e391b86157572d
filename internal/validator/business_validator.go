package validator

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BusinessValidator handles business rule validation on top of struct tags.
type BusinessValidator struct {
	validate *validator.Validate
}

func newBusinessValidator(validate *validator.Validate) *BusinessValidator {
	return &BusinessValidator{validate: validate}
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateTemplateCreate validates template creation business rules.
// A template is usable only if, after dropping invalid rows, at least one
// question and one option remain.
func (bv *BusinessValidator) ValidateTemplateCreate(req *TemplateCreateRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	if strings.TrimSpace(req.Name) == "" {
		errors = append(errors, *NewValidationError("name", "must not be blank", req.Name))
	}

	if len(FilterQuestionTexts(req.Questions)) == 0 {
		errors = append(errors, *NewValidationError("questions", "at least one non-empty question is required", nil))
	}

	if len(FilterOptionSpecs(req.Options)) == 0 {
		errors = append(errors, *NewValidationError("options", "at least one option with text and an integer score is required", nil))
	}

	return errors
}

// ValidateSubmitCompletion validates completion submission business rules.
func (bv *BusinessValidator) ValidateSubmitCompletion(req *SubmitCompletionRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if len(req.AnswerScores) == 0 {
		errors = append(errors, *NewValidationError("answer_scores", "at least one answer is required", nil))
	}

	return errors
}

// ParsedOption is an option row that survived filtering, with its score
// value parsed.
type ParsedOption struct {
	Text       string
	ScoreValue int
}

// FilterQuestionTexts drops blank question rows; surviving rows keep their
// supplied order, trimmed.
func FilterQuestionTexts(texts []string) []string {
	var valid []string
	for _, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		valid = append(valid, trimmed)
	}
	return valid
}

// FilterOptionSpecs drops option rows with blank text or a score value
// that does not parse as an integer. Invalid rows are silently discarded,
// never stored.
func FilterOptionSpecs(specs []OptionSpecRequest) []ParsedOption {
	var valid []ParsedOption
	for _, spec := range specs {
		text := strings.TrimSpace(spec.Text)
		if text == "" {
			continue
		}
		score, err := strconv.Atoi(strings.TrimSpace(spec.ScoreValue))
		if err != nil {
			continue
		}
		valid = append(valid, ParsedOption{Text: text, ScoreValue: score})
	}
	return valid
}
