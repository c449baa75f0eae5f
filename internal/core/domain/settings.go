package domain

// AIProvider identifies the text-generation provider used for rewriting.
type AIProvider string

// Supported providers.
const (
	// AIProviderAnthropic is Anthropic cloud API (Claude).
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is supported.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderAnthropic, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the provider name.
func (p AIProvider) String() string {
	return string(p)
}

// AllProviders returns the supported providers in display order.
func AllProviders() []AIProvider {
	return []AIProvider{AIProviderAnthropic, AIProviderOpenAI}
}

// RewriterSettings holds rewrite backend configuration. The API key is
// resolved before this struct is built: command-line flag first, then the
// config file, then the provider's environment variable.
type RewriterSettings struct {
	// Provider selects the backend.
	Provider AIProvider

	// APIKey authenticates against the provider. Required; both supported
	// providers are cloud APIs.
	APIKey string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// Model overrides the provider's default model.
	Model string

	// RequestRate throttles outgoing requests per second. Zero uses the
	// provider default.
	RequestRate float64
}

// IsConfigured returns true if the backend is set up.
func (s RewriterSettings) IsConfigured() bool {
	return s.Provider.IsValid() && s.APIKey != ""
}
