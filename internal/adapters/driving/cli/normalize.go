package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
	"github.com/quizforge/corpus-cli/internal/core/services"
)

// normalizeRunner is swapped for a mock in tests. When nil, runNormalize
// builds the real runner from the file stores.
var normalizeRunner driving.NormalizeRunner

var (
	normalizeOutput    string
	normalizeAssetsURL string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <raw-corpus.json>",
	Short: "Convert the raw question export into the canonical corpus",
	Long: `Reads the raw question export, decodes its HTML markup into plain
text, classifies each question's region, derives category slugs and writes
the canonical corpus artifact with aggregate metadata.

Normalisation is deterministic: the same input always produces the same
canonical corpus, apart from the run id and timestamp.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "canonical corpus path (default out/canonical.json)")
	normalizeCmd.Flags().StringVar(&normalizeAssetsURL, "assets-base-url", "", "base URL prepended to asset references by consumers")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	rawPath := args[0]

	output := normalizeOutput
	if output == "" {
		output = configString(keyCanonicalPath, defaultCanonicalPath)
	}
	assetsURL := normalizeAssetsURL
	if assetsURL == "" {
		assetsURL = configString(keyAssetsBaseURL, "")
	}

	runner := normalizeRunner
	if runner == nil {
		runner = services.NewNormalizeRunner(corpusStore, output, assetsURL)
	}

	cmd.Printf("Normalising %s...\n", rawPath)

	corpus, err := runner.Run(context.Background(), rawPath)
	if err != nil {
		return fmt.Errorf("normalise failed: %w", err)
	}

	cmd.Printf("Wrote %s: %d records, %d categories, %d assets\n",
		output, corpus.Metadata.TotalRecords, corpus.Metadata.CategoryCount, corpus.Metadata.AssetCount)
	regions := []domain.Region{domain.RegionNational, domain.RegionBrussels, domain.RegionFlanders, domain.RegionWallonia}
	for _, region := range regions {
		if count := corpus.Metadata.RegionCounts[region]; count > 0 {
			cmd.Printf("  %-10s %d\n", region, count)
		}
	}
	return nil
}
