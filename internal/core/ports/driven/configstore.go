package driven

// ConfigStore provides persistent key-value run configuration.
type ConfigStore interface {
	// Get retrieves a raw configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, empty if unset.
	GetString(key string) string

	// GetInt retrieves an integer value, zero if unset.
	GetInt(key string) int

	// GetBool retrieves a boolean value, false if unset.
	GetBool(key string) bool

	// Set stores a configuration value (in memory until Save).
	Set(key string, value any)

	// Save persists the configuration.
	Save() error
}
