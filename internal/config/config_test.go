package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.True(t, cfg.Diagnostics.Syntax)
	assert.True(t, cfg.Diagnostics.Promotion)
	assert.Equal(t, 1000, cfg.MaxDocuments)
}

func TestLoadWorkspace(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
diagnostics:
  promotion: false
max_documents: 25
`), 0o644))

	cfg := NewConfig()
	cfg.WorkspaceRoot = root
	require.NoError(t, cfg.LoadWorkspace())

	assert.True(t, cfg.Diagnostics.Syntax, "keys absent from the file keep their defaults")
	assert.False(t, cfg.Diagnostics.Promotion)
	assert.Equal(t, 25, cfg.MaxDocuments)
	assert.Equal(t, root, cfg.WorkspaceRoot)
}

func TestLoadMissingAndInvalid(t *testing.T) {
	root := t.TempDir()
	cfg := NewConfig()
	cfg.WorkspaceRoot = root
	require.NoError(t, cfg.Load("absent.yaml"))
	assert.Equal(t, NewConfig().MaxDocuments, cfg.MaxDocuments)

	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.yaml"), []byte("max_documents: [1"), 0o644))
	err := cfg.Load("bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")

	require.NoError(t, os.WriteFile(filepath.Join(root, "zero.yaml"), []byte("max_documents: 0"), 0o644))
	require.NoError(t, cfg.Load("zero.yaml"))
	assert.Equal(t, 1000, cfg.MaxDocuments)
}

func TestApplyInitializationOptions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "custom.yaml"), []byte("max_documents: 5\n"), 0o644))

	cfg := NewConfig()
	cfg.WorkspaceRoot = root
	require.NoError(t, cfg.ApplyInitializationOptions(map[string]any{
		"config_file":   "custom.yaml",
		"diagnostics":   map[string]any{"syntax": false},
		"max_documents": float64(7),
	}))
	assert.False(t, cfg.Diagnostics.Syntax)
	assert.True(t, cfg.Diagnostics.Promotion)
	assert.Equal(t, 7, cfg.MaxDocuments)

	require.NoError(t, cfg.ApplyInitializationOptions(map[string]any{"diagnostics": false, "max_documents": -1}))
	assert.False(t, cfg.Diagnostics.Promotion)
	assert.Equal(t, 7, cfg.MaxDocuments)

	require.NoError(t, cfg.ApplyInitializationOptions(nil))
}
