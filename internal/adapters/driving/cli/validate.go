package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/quizforge/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
	"github.com/quizforge/corpus-cli/internal/core/services"
)

// validator is swapped for a mock in tests.
var validator driving.Validator = services.NewValidator()

var (
	validateStrict      bool
	validateMaxFindings int
)

var validateCmd = &cobra.Command{
	Use:   "validate <corpus.json>",
	Short: "Check a corpus artifact against the publication rules",
	Long: `Examines every record of a corpus artifact and reports structural
errors (empty question text, missing category slug, unanswerable answer
shapes) and heuristic warnings (length outliers, text that does not look
like Dutch). The corpus is valid when no errors are found; warnings never
fail it unless --strict is set.

Exits non-zero when the corpus is invalid so the check can gate a
publication pipeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as errors")
	validateCmd.Flags().IntVar(&validateMaxFindings, "max-findings", 20, "findings to print per severity (0 shows all)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	corpus, err := corpusStore.Load(context.Background(), path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	report := validator.Validate(context.Background(), corpus)
	renderReport(cmd, path, report)

	if !report.Valid {
		return fmt.Errorf("corpus invalid: %d errors in %d records", len(report.Errors), report.TotalRecords)
	}
	if validateStrict && len(report.Warnings) > 0 {
		return fmt.Errorf("corpus has %d warnings and --strict is set", len(report.Warnings))
	}
	return nil
}

// renderReport prints the validation outcome, findings and per-field counts.
func renderReport(cmd *cobra.Command, path string, report domain.ValidationReport) {
	s := styles.DefaultStyles()

	cmd.Printf("%s %s\n", s.Title.Render("Validation report:"), path)
	cmd.Printf("%d records, %d errors, %d warnings\n\n",
		report.TotalRecords, len(report.Errors), len(report.Warnings))

	printFindings(cmd, s.Error, "Errors", report.Errors)
	printFindings(cmd, s.Warning, "Warnings", report.Warnings)

	if len(report.FieldCounts) > 0 {
		cmd.Println(s.Subtitle.Render("Findings by field:"))
		fields := make([]string, 0, len(report.FieldCounts))
		for field := range report.FieldCounts {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			cmd.Printf("  %-14s %d\n", field, report.FieldCounts[field])
		}
		cmd.Println()
	}

	if report.Valid {
		cmd.Println(s.Success.Render("Corpus is valid."))
	} else {
		cmd.Println(s.Error.Render("Corpus is INVALID."))
	}
}

func printFindings(cmd *cobra.Command, style lipgloss.Style, label string, findings []domain.ValidationFinding) {
	if len(findings) == 0 {
		return
	}

	cmd.Println(style.Render(label + ":"))
	limit := len(findings)
	if validateMaxFindings > 0 && limit > validateMaxFindings {
		limit = validateMaxFindings
	}
	for _, finding := range findings[:limit] {
		cmd.Printf("  [%s] %s: %s\n", finding.RecordID, finding.Field, finding.Message)
	}
	if limit < len(findings) {
		cmd.Printf("  ... and %d more\n", len(findings)-limit)
	}
	cmd.Println()
}
