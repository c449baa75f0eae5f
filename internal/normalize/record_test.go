package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

func intPtr(n int) *int { return &n }

func TestRecord(t *testing.T) {
	raw := domain.RawRecord{
		ID:          "42",
		SeriesID:    domain.CategoryKey{Num: 56, Numeric: true},
		Question:    "<p>Wat is de max snelheid?</p>",
		Explanation: "In het Vlaamse Gewest...",
		Answer:      domain.AnswerValue{Index: intPtr(0)},
		AnswerType:  domain.AnswerSingleChoice,
		Choices: []domain.RawOption{
			{Text: "50"},
			{Text: "70"},
		},
		Source: 1,
	}

	rec := Record(raw)

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, "verkeersborden", rec.CategorySlug)
	assert.Equal(t, domain.RegionFlanders, rec.RegionCode)
	assert.Equal(t, "Wat is de max snelheid?", rec.QuestionText)
	assert.Equal(t, "In het Vlaamse Gewest...", rec.ExplanationText)
	assert.Empty(t, rec.QuestionTextOriginal)
	assert.Empty(t, rec.ExplanationTextOriginal)

	require.Len(t, rec.Options, 2)
	assert.Equal(t, 0, rec.Options[0].Position)
	assert.Equal(t, "50", rec.Options[0].Text)
	assert.Equal(t, 1, rec.Options[1].Position)
	assert.Equal(t, "70", rec.Options[1].Text)
}

func TestRecord_PositionsContiguous(t *testing.T) {
	raw := domain.RawRecord{
		ID: "7",
		Choices: []domain.RawOption{
			{ImageRef: "signs/b1.png"},
			{Text: "Stop"},
			{Text: "Voorrang verlenen", ImageRef: "signs/b5.png"},
		},
	}

	rec := Record(raw)

	require.Len(t, rec.Options, 3)
	for i, opt := range rec.Options {
		assert.Equal(t, i, opt.Position)
	}
	assert.Equal(t, "signs/b1.png", rec.Options[0].ImageRef)
	assert.Equal(t, "Stop", rec.Options[1].Text)
}

func TestRecord_Deterministic(t *testing.T) {
	raw := domain.RawRecord{
		ID:          "11",
		SeriesID:    domain.CategoryKey{Str: "My Category!!"},
		Question:    "Eerste<br><br><br>Tweede &amp; derde",
		Explanation: "<p>In Brussel geldt zone 30.</p>",
		AnswerType:  domain.AnswerYesNo,
		Choices:     []domain.RawOption{{Text: "Ja"}, {Text: "Nee"}},
	}

	first := Record(raw)
	second := Record(raw)

	assert.Equal(t, first, second)
	assert.Equal(t, "my-category", first.CategorySlug)
	assert.Equal(t, domain.RegionBrussels, first.RegionCode)
}

func TestRecord_MalformedMarkupNeverPanics(t *testing.T) {
	raw := domain.RawRecord{
		ID:       "13",
		Question: "<p><<<>>>&#xZZ;<b",
	}

	assert.NotPanics(t, func() {
		rec := Record(raw)
		assert.True(t, rec.RegionCode.Valid())
	})
}
