// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials for the pipeline. Keys
// come from the process environment, a local .env file loaded at startup,
// or a directory of plain-text files where the filename is the key name
// and the file contents (trimmed) are the value.
//
// Supported key file: openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvAPIKey is the environment variable holding the OpenAI API key.
const EnvAPIKey = "OPENAI_API_KEY"

// FileAPIKey is the key-file name for the OpenAI API key under the
// secrets directory.
const FileAPIKey = "openai-api-key"

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr but
// do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey resolves the OpenAI API key: the process environment wins (which
// includes values a .env file exported at startup), then the secrets map.
// Returns an error if neither has it; the pipeline refuses to start
// without a key.
func APIKey(loaded map[string]string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		return v, nil
	}
	if v, ok := loaded[FileAPIKey]; ok {
		return v, nil
	}
	return "", fmt.Errorf("missing API key: set %s or create .secrets/%s", EnvAPIKey, FileAPIKey)
}
