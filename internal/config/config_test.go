package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minions/pkg/core"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage.Adapter)
	assert.Equal(t, DefaultPath, cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := writeConfig(t, dir, `
storage:
  adapter: yaml
  path: data
  read_only: true
logging:
  level: debug
types:
  - id: recipe
    name: Recipe
    slug: recipe
    icon: "🍲"
    schema:
      - name: servings
        type: number
        required: true
        validation:
          min: 1
      - name: cuisine
        type: select
        options: [thai, italian]
        defaultValue: thai
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "yaml", cfg.Storage.Adapter)
	assert.True(t, cfg.Storage.ReadOnly)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.ResolvePath(dir))

	require.Len(t, cfg.Types, 1)
	recipe := cfg.Types[0]
	assert.Equal(t, "recipe", recipe.Slug)
	require.Len(t, recipe.Schema, 2)
	assert.Equal(t, core.FieldNumber, recipe.Schema[0].Type)
	assert.True(t, recipe.Schema[0].Required)
	require.NotNil(t, recipe.Schema[0].Validation)
	require.NotNil(t, recipe.Schema[0].Validation.Min)
	assert.Equal(t, 1.0, *recipe.Schema[0].Validation.Min)
	assert.Equal(t, []string{"thai", "italian"}, recipe.Schema[1].Options)
	assert.Equal(t, "thai", recipe.Schema[1].DefaultValue)

	t.Run("Explicit File", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Storage.Adapter)
	})
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeConfig(t, dir, "storage:\n  adapter: yaml\n")

	t.Setenv("MINIONS_STORAGE_ADAPTER", "memory")
	t.Setenv("MINIONS_LOGGING_FORMAT", "json")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Adapter)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"Unknown Adapter", "storage:\n  adapter: s3\n", "Adapter"},
		{"Bad Level", "logging:\n  level: loud\n", "Level"},
		{"Type Without Slug", "types:\n  - id: x\n    name: X\n", "types[0]"},
		{"Unknown Field Type", "types:\n  - id: x\n    name: X\n    slug: x\n    schema:\n      - name: a\n        type: blob\n", "unknown field type"},
		{"Malformed YAML", "storage: [\n", "reading config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)
			_, err := Load("", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_MemoryNeedsNoPath(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Adapter: "memory"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Adapter = "json"
	assert.Error(t, cfg.Validate())
}
