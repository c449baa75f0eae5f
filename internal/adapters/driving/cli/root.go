// Package cli provides the quizforge command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/quizforge/corpus-cli/internal/adapters/driven/config/file"
	storagefile "github.com/quizforge/corpus-cli/internal/adapters/driven/storage/file"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
	"github.com/quizforge/corpus-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flag values.
var (
	verbose   bool
	configDir string
)

// Services wired at run time. Tests swap these for mocks.
var (
	configStore driven.ConfigStore
	corpusStore driven.CorpusStore = storagefile.NewCorpusStore()
)

// Config keys. The config file groups them into TOML tables; the flattened
// dot-notation form is what the store exposes.
const (
	keyProvider      = "rewriter.provider"
	keyAPIKey        = "rewriter.api_key"
	keyModel         = "rewriter.model"
	keyBaseURL       = "rewriter.base_url"
	keyRawPath       = "paths.raw"
	keyCanonicalPath = "paths.canonical"
	keyRewrittenPath = "paths.rewritten"
	keyCheckpoint    = "paths.checkpoint"
	keyAssetsBaseURL = "assets.base_url"
)

// Default artifact locations, relative to the working directory.
const (
	defaultCanonicalPath = "out/canonical.json"
	defaultRewrittenPath = "out/rewritten.json"
	defaultCheckpoint    = "out/rewrite-checkpoint.json"
)

var rootCmd = &cobra.Command{
	Use:   "quizforge",
	Short: "Prepare, rewrite and validate the driving-exam question corpus",
	Long: `quizforge is a batch pipeline for the multilingual driving-exam
question corpus. It normalises the raw export into a canonical artifact,
rewrites question and explanation text through an LLM backend with durable
checkpointing, and validates the result before publication.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.quizforge)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureConfig lazily opens the config store. Commands that never touch
// configuration (version, validate with explicit paths) skip the file I/O.
func ensureConfig() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	configStore = store
	return configStore, nil
}

// configString reads a key from the config store, falling back to def when
// the store is unavailable or the key is unset.
func configString(key, def string) string {
	store, err := ensureConfig()
	if err != nil {
		return def
	}
	if val := store.GetString(key); val != "" {
		return val
	}
	return def
}
