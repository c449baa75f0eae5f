package normalize

import (
	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// Record converts a raw record into its canonical form. It is pure and
// total: the same input always yields the same output, and malformed
// markup degrades to empty text rather than failing.
//
// Aggregation over the full corpus (category sets, region counts) is the
// caller's job, not this function's.
func Record(raw domain.RawRecord) domain.CanonicalRecord {
	questionText := Text(raw.Question)
	explanationText := Text(raw.Explanation)

	options := make([]domain.CanonicalOption, len(raw.Choices))
	for i, choice := range raw.Choices {
		options[i] = domain.CanonicalOption{
			Position: i,
			Text:     choice.Text,
			ImageRef: choice.ImageRef,
		}
	}

	return domain.CanonicalRecord{
		ID:              raw.ID,
		SeriesID:        raw.SeriesID,
		CategorySlug:    CategorySlug(raw.SeriesID),
		RegionCode:      ClassifyRegion(questionText, explanationText),
		QuestionText:    questionText,
		ExplanationText: explanationText,
		Answer:          raw.Answer,
		AnswerType:      raw.AnswerType,
		Options:         options,
		MajorFault:      raw.MajorFault,
		ImageRef:        raw.ImageRef,
		VideoRef:        raw.VideoRef,
		Source:          raw.Source,
	}
}
