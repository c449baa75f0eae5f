package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quizforge/corpus-cli/internal/adapters/driven/ai"
	storagefile "github.com/quizforge/corpus-cli/internal/adapters/driven/storage/file"
	"github.com/quizforge/corpus-cli/internal/adapters/driven/storage/sqlite"
	rewriteview "github.com/quizforge/corpus-cli/internal/adapters/driving/tui/views/rewrite"
	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
	"github.com/quizforge/corpus-cli/internal/core/ports/driving"
	"github.com/quizforge/corpus-cli/internal/core/services"
)

// rewriteService is swapped for a mock in tests. When nil, runRewrite
// builds and pings the configured backend.
var rewriteService driven.RewriteService

// checkpointStore is swapped for a mock in tests. When nil, runRewrite
// opens the configured backend.
var checkpointStore driven.CheckpointStore

var (
	rewriteCanonical     string
	rewriteOutput        string
	rewriteCheckpoint    string
	rewriteBatchSize     int
	rewriteConcurrency   int
	rewriteSample        int
	rewriteSeed          int64
	rewriteOnlyCompleted bool
	rewriteProvider      string
	rewriteAPIKey        string
	rewriteModel         string
	rewriteSQLite        bool
	rewriteTUI           bool
)

// Environment variables consulted for API keys, per provider.
var apiKeyEnvVars = map[domain.AIProvider]string{
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite question text through the configured LLM backend",
	Long: `Rewrites the question and explanation text of every record that has
not completed yet, in fixed-size batches with a durable checkpoint flushed
after each batch. An interrupted run resumes where it left off without
re-paying for completed records.

The API key is resolved from --api-key, then the config file, then the
provider's environment variable (ANTHROPIC_API_KEY or OPENAI_API_KEY).`,
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringVar(&rewriteCanonical, "canonical", "", "canonical corpus path (default out/canonical.json)")
	rewriteCmd.Flags().StringVarP(&rewriteOutput, "output", "o", "", "rewritten corpus path (default out/rewritten.json)")
	rewriteCmd.Flags().StringVar(&rewriteCheckpoint, "checkpoint", "", "checkpoint path (default out/rewrite-checkpoint.json)")
	rewriteCmd.Flags().IntVar(&rewriteBatchSize, "batch-size", services.DefaultBatchSize, "records per checkpoint flush")
	rewriteCmd.Flags().IntVar(&rewriteConcurrency, "concurrency", services.DefaultConcurrency, "max in-flight backend calls")
	rewriteCmd.Flags().IntVar(&rewriteSample, "sample", 0, "cap this run to a random sample of unfinished records")
	rewriteCmd.Flags().Int64Var(&rewriteSeed, "seed", 0, "sampling seed (0 seeds from the clock)")
	rewriteCmd.Flags().BoolVar(&rewriteOnlyCompleted, "only-completed", false, "emit only records whose rewrite has completed")
	rewriteCmd.Flags().StringVar(&rewriteProvider, "provider", "", "rewrite backend: anthropic or openai")
	rewriteCmd.Flags().StringVar(&rewriteAPIKey, "api-key", "", "backend API key")
	rewriteCmd.Flags().StringVar(&rewriteModel, "model", "", "backend model override")
	rewriteCmd.Flags().BoolVar(&rewriteSQLite, "sqlite", false, "keep the checkpoint in a SQLite database instead of a JSON file")
	rewriteCmd.Flags().BoolVar(&rewriteTUI, "tui", false, "show an interactive progress view")
	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	svc := rewriteService
	if svc == nil {
		settings, err := resolveRewriterSettings()
		if err != nil {
			return err
		}
		svc, err = ai.CreateAndValidateRewriteService(settings)
		if err != nil {
			return err
		}
		defer svc.Close()
		cmd.Printf("Using %s (%s)\n", settings.Provider, svc.ModelName())
	}

	checkpoints := checkpointStore
	if checkpoints == nil {
		var err error
		checkpoints, err = openCheckpointStore()
		if err != nil {
			return fmt.Errorf("open checkpoint store: %w", err)
		}
		if closer, ok := checkpoints.(interface{ Close() error }); ok {
			defer closer.Close()
		}
	}

	coordinator := services.NewRewriteCoordinator(corpusStore, checkpoints, svc, services.RewriteConfig{
		CanonicalPath: pathOrConfig(rewriteCanonical, keyCanonicalPath, defaultCanonicalPath),
		OutputPath:    pathOrConfig(rewriteOutput, keyRewrittenPath, defaultRewrittenPath),
		BatchSize:     rewriteBatchSize,
		Concurrency:   rewriteConcurrency,
		SampleSize:    rewriteSample,
		OnlyCompleted: rewriteOnlyCompleted,
		Seed:          rewriteSeed,
	})

	summary, err := rewriteWithProgress(cmd, coordinator)
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	cmd.Printf("Rewrite complete: %d attempted, %d succeeded, %d failed\n",
		summary.Attempted, summary.Succeeded, summary.Failed)
	cmd.Printf("%d of %d emitted records have completed overall\n",
		summary.CompletedTotal, summary.EmittedRecords)
	if summary.Failed > 0 {
		cmd.Println("Failed records are retried automatically on the next run.")
	}
	return nil
}

// resolveRewriterSettings builds backend settings from flags, the config
// file and the environment, in that order of precedence.
func resolveRewriterSettings() (domain.RewriterSettings, error) {
	provider := domain.AIProvider(rewriteProvider)
	if provider == "" {
		provider = domain.AIProvider(configString(keyProvider, string(domain.AIProviderAnthropic)))
	}
	if !provider.IsValid() {
		return domain.RewriterSettings{}, fmt.Errorf("unknown provider %q (use %v)", provider, domain.AllProviders())
	}

	apiKey := rewriteAPIKey
	if apiKey == "" {
		apiKey = configString(keyAPIKey, "")
	}
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnvVars[provider])
	}
	if apiKey == "" {
		return domain.RewriterSettings{}, fmt.Errorf(
			"%w: set --api-key, %s in the config file, or %s",
			domain.ErrMissingCredential, keyAPIKey, apiKeyEnvVars[provider])
	}

	return domain.RewriterSettings{
		Provider: provider,
		APIKey:   apiKey,
		BaseURL:  configString(keyBaseURL, ""),
		Model:    pathOrConfig(rewriteModel, keyModel, ""),
	}, nil
}

// openCheckpointStore opens the file or SQLite checkpoint backend.
func openCheckpointStore() (driven.CheckpointStore, error) {
	path := pathOrConfig(rewriteCheckpoint, keyCheckpoint, defaultCheckpoint)
	if rewriteSQLite {
		return sqlite.NewCheckpointStore(path)
	}
	return storagefile.NewCheckpointStore(path), nil
}

// pathOrConfig prefers the flag value, then the config key, then def.
func pathOrConfig(flagValue, key, def string) string {
	if flagValue != "" {
		return flagValue
	}
	return configString(key, def)
}

// rewriteWithProgress runs the coordinator while reporting progress, either
// through the interactive view or plain ticker updates.
func rewriteWithProgress(cmd *cobra.Command, coordinator *services.RewriteCoordinator) (*driving.RewriteSummary, error) {
	if rewriteTUI {
		return rewriteview.Run(cmd.Context(), coordinator)
	}

	ctx := context.Background()
	type runResult struct {
		summary *driving.RewriteSummary
		err     error
	}
	resultCh := make(chan runResult, 1)
	go func() {
		summary, err := coordinator.Run(ctx)
		resultCh <- runResult{summary, err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastAttempted := -1
	for {
		select {
		case result := <-resultCh:
			if lastAttempted > 0 {
				cmd.Println()
			}
			return result.summary, result.err
		case <-ticker.C:
			status := coordinator.Status()
			if status.Attempted > lastAttempted {
				cmd.Printf("\rBatch %d/%d: %d attempted, %d failed",
					status.BatchIndex, status.BatchCount, status.Attempted, status.Failed)
				lastAttempted = status.Attempted
			}
		}
	}
}
