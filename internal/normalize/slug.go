package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// seriesSlugs maps legacy numeric series ids to stable category slugs.
// The table is fixed; ids missing from it fall back to a synthetic slug.
var seriesSlugs = map[int]string{
	50: "voorrang",
	51: "inhalen",
	52: "snelheid",
	53: "parkeren-en-stilstaan",
	54: "afmetingen-en-lading",
	55: "documenten",
	56: "verkeersborden",
	57: "wegmarkeringen",
	58: "verkeerslichten",
	59: "bevoegde-personen",
	60: "autosnelwegen",
	61: "kruispunten",
	62: "voetgangers",
	63: "fietsers",
	64: "zwakke-weggebruikers",
	65: "motorrijders",
	66: "ongevallen-en-pech",
	67: "alcohol-en-drugs",
	68: "rijbewijs",
	69: "verzekering",
	70: "technische-eisen",
	71: "milieu",
	72: "defensief-rijden",
	73: "weersomstandigheden",
	74: "verlichting",
	75: "slepen",
	76: "spoorwegovergangen",
	77: "openbaar-vervoer",
	78: "eenrichtingsverkeer",
	79: "rotondes",
	80: "zone-30",
}

var nonSlugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// CategorySlug derives the stable category slug from a category key.
// Numeric keys map through the fixed series table, with unmapped ids
// falling back to "series-<n>". String keys are slugified.
func CategorySlug(key domain.CategoryKey) string {
	if key.Numeric {
		if slug, ok := seriesSlugs[key.Num]; ok {
			return slug
		}
		return fmt.Sprintf("series-%d", key.Num)
	}
	return Slugify(key.Str)
}

// Slugify lower-cases a string key and collapses any run of characters
// outside [a-z0-9] to a single hyphen, trimming leading and trailing hyphens.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
