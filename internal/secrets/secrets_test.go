// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "  sk-abc123  \n")
				writeFile(t, dir, "other-key", "value")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "sk-abc123",
				"other-key":      "value",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "openai-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"openai-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "openai-api-key", "sk-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"openai-api-key": "sk-real",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIKeyEnvWins(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")

	got, err := APIKey(map[string]string{FileAPIKey: "sk-from-file"})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", got)
}

func TestAPIKeyFromSecretsDir(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	got, err := APIKey(map[string]string{FileAPIKey: "sk-from-file"})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", got)
}

func TestAPIKeyMissing(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := APIKey(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
