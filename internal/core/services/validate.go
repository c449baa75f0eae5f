package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
)

// Ensure Validator implements the interface.
var _ driving.Validator = (*Validator)(nil)

// Question length bounds for the warning-level checks.
const (
	minQuestionLength = 10
	maxQuestionLength = 2000
)

// functionWords is the fixed Dutch function-word list for the lightweight
// language-membership heuristic. Rewritten text that shares almost no
// tokens with this list is probably not Dutch anymore.
var functionWords = map[string]struct{}{
	"de": {}, "het": {}, "een": {}, "en": {}, "van": {}, "is": {},
	"niet": {}, "je": {}, "u": {}, "wat": {}, "welke": {}, "moet": {},
	"mag": {}, "bij": {}, "op": {}, "voor": {}, "naar": {}, "met": {},
	"dat": {}, "deze": {}, "als": {}, "dan": {}, "zijn": {}, "wordt": {},
	"door": {}, "aan": {}, "in": {}, "te": {}, "om": {}, "ook": {}, "er": {},
}

// Validator runs structural and heuristic checks over a corpus and
// produces a pass/fail report. It never mutates the corpus and never
// terminates the process; exit behaviour belongs to the caller.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate examines every record independently and exhaustively; it never
// halts on the first finding.
func (v *Validator) Validate(_ context.Context, corpus *domain.Corpus) domain.ValidationReport {
	report := domain.ValidationReport{
		TotalRecords: len(corpus.Data),
		FieldCounts:  make(map[string]int),
	}

	for i := range corpus.Data {
		v.validateRecord(&corpus.Data[i], &report)
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func (v *Validator) validateRecord(rec *domain.CanonicalRecord, report *domain.ValidationReport) {
	v.checkQuestion(rec, report)

	if rec.CategorySlug == "" {
		report.AddError(rec.ID, "categorySlug", "category slug is empty")
	}

	if !rec.AnswerType.Valid() {
		report.AddError(rec.ID, "answerType",
			fmt.Sprintf("answer type %q is not one of the four supported kinds", rec.AnswerType))
		// Answer and choice shape checks are keyed on the kind
		return
	}

	v.checkAnswer(rec, report)
	v.checkOptions(rec, report)
}

func (v *Validator) checkQuestion(rec *domain.CanonicalRecord, report *domain.ValidationReport) {
	if rec.QuestionText == "" {
		report.AddError(rec.ID, "question", "question text is empty")
		return
	}

	length := utf8.RuneCountInString(rec.QuestionText)
	if length < minQuestionLength {
		report.AddWarning(rec.ID, "question",
			fmt.Sprintf("question text is %d characters, shorter than %d", length, minQuestionLength))
	}
	if length > maxQuestionLength {
		report.AddWarning(rec.ID, "question",
			fmt.Sprintf("question text is %d characters, longer than %d", length, maxQuestionLength))
	}

	if !looksLikeDutch(rec.QuestionText) {
		report.AddWarning(rec.ID, "question", "question text fails the language heuristic")
	}
}

func (v *Validator) checkAnswer(rec *domain.CanonicalRecord, report *domain.ValidationReport) {
	switch rec.AnswerType {
	case domain.AnswerSingleChoice, domain.AnswerYesNo:
		if rec.Answer.Index == nil {
			report.AddError(rec.ID, "answer", "answer must be a choice index")
			return
		}
		if *rec.Answer.Index < 0 || *rec.Answer.Index >= len(rec.Options) {
			report.AddError(rec.ID, "answer",
				fmt.Sprintf("answer index %d out of range [0, %d)", *rec.Answer.Index, len(rec.Options)))
		}

	case domain.AnswerOrder:
		if rec.Answer.Order == nil {
			report.AddError(rec.ID, "answer", "answer must be an ordered list for ORDER questions")
		}

	case domain.AnswerInput:
		// Free-form input; no index to range-check
	}
}

func (v *Validator) checkOptions(rec *domain.CanonicalRecord, report *domain.ValidationReport) {
	if rec.AnswerType == domain.AnswerInput {
		return
	}

	if len(rec.Options) == 0 {
		report.AddError(rec.ID, "choices", "record has no choices")
		return
	}
	for _, opt := range rec.Options {
		if opt.Text == "" && opt.ImageRef == "" {
			report.AddError(rec.ID, "choices",
				fmt.Sprintf("choice %d has neither text nor image", opt.Position))
		}
	}
}

// looksLikeDutch is the token-overlap language heuristic: pass when at
// least two tokens are known function words, or one for very short text.
func looksLikeDutch(text string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	overlap := 0
	for _, token := range tokens {
		if _, ok := functionWords[token]; ok {
			overlap++
		}
	}

	if len(tokens) < 5 {
		return overlap >= 1
	}
	return overlap >= 2
}
