package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		name string
		key  domain.CategoryKey
		want string
	}{
		{
			name: "mapped numeric key",
			key:  domain.CategoryKey{Num: 56, Numeric: true},
			want: "verkeersborden",
		},
		{
			name: "another mapped numeric key",
			key:  domain.CategoryKey{Num: 50, Numeric: true},
			want: "voorrang",
		},
		{
			name: "unmapped numeric key falls back to synthetic slug",
			key:  domain.CategoryKey{Num: 9999, Numeric: true},
			want: "series-9999",
		},
		{
			name: "string key is slugified",
			key:  domain.CategoryKey{Str: "My Category!!"},
			want: "my-category",
		},
		{
			name: "string key already a slug",
			key:  domain.CategoryKey{Str: "zone-30"},
			want: "zone-30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorySlug(tt.key))
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Category!!", "my-category"},
		{"Voorrang & Kruispunten", "voorrang-kruispunten"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"UPPER_case.mixed", "upper-case-mixed"},
		{"---", ""},
		{"", ""},
		{"al2-correct-3", "al2-correct-3"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), "input %q", tt.input)
	}
}

// The series table is a fixed contract: every entry must already be in
// slug form, since slugs flow unmodified into corpus category lists.
func TestSeriesSlugs_AreSlugs(t *testing.T) {
	assert.Len(t, seriesSlugs, 31)
	for id, slug := range seriesSlugs {
		assert.Equal(t, slug, Slugify(slug), "series %d", id)
	}
}
