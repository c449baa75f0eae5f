package normalize

import (
	"strings"

	"github.com/quizforge/corpus-cli/internal/core/domain"
)

// regionKeywords maps each non-national region to its trigger keywords.
// Rules differ per region (speed limits, low-emission zones, priority on
// regional roads), and questions mention the region explicitly when they do.
var regionKeywords = []struct {
	region   domain.Region
	keywords []string
}{
	{
		region: domain.RegionBrussels,
		keywords: []string{
			"brussel",
			"bruxelles",
			"hoofdstedelijk gewest",
		},
	},
	{
		region: domain.RegionFlanders,
		keywords: []string{
			"vlaams gewest",
			"vlaamse gewest",
			"vlaanderen",
			"flandre",
		},
	},
	{
		region: domain.RegionWallonia,
		keywords: []string{
			"waals gewest",
			"waalse gewest",
			"wallonie",
			"wallonië",
		},
	},
}

// ClassifyRegion derives the region code from the question and explanation
// text. The lists are checked in a fixed order and the first region with any
// matching keyword wins; text mentioning no region is national. Every record
// gets exactly one region.
func ClassifyRegion(questionText, explanationText string) domain.Region {
	haystack := strings.ToLower(questionText + " " + explanationText)

	for _, entry := range regionKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(haystack, keyword) {
				return entry.region
			}
		}
	}

	return domain.RegionNational
}
