package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGetSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	store.Set("rewriter.provider", "anthropic")
	store.Set("rewrite.batch_size", 50)
	store.Set("rewrite.only_completed", true)

	assert.Equal(t, "anthropic", store.GetString("rewriter.provider"))
	assert.Equal(t, 50, store.GetInt("rewrite.batch_size"))
	assert.True(t, store.GetBool("rewrite.only_completed"))

	require.NoError(t, store.Save())

	// A fresh store reads the persisted values back.
	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", reloaded.GetString("rewriter.provider"))
	assert.Equal(t, 50, reloaded.GetInt("rewrite.batch_size"))
	assert.True(t, reloaded.GetBool("rewrite.only_completed"))
}

func TestConfigStore_MissingKeysHaveZeroValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_TypeMismatchesDegradeGracefully(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	store.Set("key", "not a number")
	assert.Zero(t, store.GetInt("key"))
	assert.False(t, store.GetBool("key"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	config := `
[rewriter]
provider = "openai"
model = "gpt-4o-mini"

[paths]
canonical = "out/canonical.json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("rewriter.provider"))
	assert.Equal(t, "gpt-4o-mini", store.GetString("rewriter.model"))
	assert.Equal(t, "out/canonical.json", store.GetString("paths.canonical"))
}

func TestConfigStore_SavedFileHasRestrictedPermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	store.Set("rewriter.api_key", "secret")
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
