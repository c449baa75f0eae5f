package cli

import (
	"bytes"
	"testing"

	"github.com/quizforge/corpus-cli/internal/core/ports/driven"
)

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	data map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if val, ok := m.data[key].(string); ok {
		return val
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if val, ok := m.data[key].(int); ok {
		return val
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if val, ok := m.data[key].(bool); ok {
		return val
	}
	return false
}

func (m *mockConfigStore) Set(key string, value any) {
	m.data[key] = value
}

func (m *mockConfigStore) Save() error { return nil }

// setupConfig swaps in an empty mock config so tests never touch the
// user's real config directory.
func setupConfig() func() {
	old := configStore
	configStore = newMockConfigStore()
	return func() { configStore = old }
}

// swapCorpusStore swaps the corpus store global.
func swapCorpusStore(store driven.CorpusStore) func() {
	old := corpusStore
	corpusStore = store
	return func() { corpusStore = old }
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
