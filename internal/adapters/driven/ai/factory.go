// Package ai provides factory functions for creating rewrite service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/quizforge/corpus-cli/internal/adapters/driven/rewriter/anthropic"
	"github.com/quizforge/corpus-cli/internal/adapters/driven/rewriter/openai"
	"github.com/quizforge/corpus-cli/internal/core/domain"
	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateRewriteService creates the appropriate rewrite service based on settings.
func CreateRewriteService(settings domain.RewriterSettings) (driven.RewriteService, error) {
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported rewrite provider: %q (use %v)", settings.Provider, domain.AllProviders())
	}
	if settings.APIKey == "" {
		return nil, fmt.Errorf("%w: provider %s requires an API key", domain.ErrMissingCredential, settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderAnthropic:
		return anthropic.NewRewriteService(anthropic.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			RequestRate: settings.RequestRate,
		})

	case domain.AIProviderOpenAI:
		return openai.NewRewriteService(openai.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			RequestRate: settings.RequestRate,
		})

	default:
		return nil, fmt.Errorf("unsupported rewrite provider: %s", settings.Provider)
	}
}

// CreateAndValidateRewriteService creates a rewrite service and validates
// connectivity before committing to a run.
func CreateAndValidateRewriteService(settings domain.RewriterSettings) (driven.RewriteService, error) {
	svc, err := CreateRewriteService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrRewriterUnavailable, err)
	}

	return svc, nil
}
