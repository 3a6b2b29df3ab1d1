// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "A simple sentence.",
			want:  "A simple sentence.",
		},
		{
			name:  "control characters dropped",
			input: "before\x01\x02after",
			want:  "beforeafter",
		},
		{
			name:  "space runs collapse",
			input: "too   many    spaces",
			want:  "too many spaces",
		},
		{
			// Tabs sit below the printable range and are dropped before
			// the collapse step, so they do not separate words.
			name:  "tabs vanish without separating",
			input: "spaces\t\tand tabs",
			want:  "spacesand tabs",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "   padded   ",
			want:  "padded",
		},
		{
			name:  "accented characters degrade to ASCII",
			input: "café naïve",
			want:  "cafe naive",
		},
		{
			name:  "non-Latin text dropped",
			input: "abc 日本語 def",
			want:  "abc def",
		},
		{
			name:  "newlines removed not spaced",
			input: "line1\nline2",
			want:  "line1line2",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.input)
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanInvariants(t *testing.T) {
	inputs := []string{
		"normal text",
		"with\ncontrol\rchars\x00and\x1fmore",
		"  spaced	out text  ",
		"åéîøü mixed with ASCII",
		strings.Repeat("word \n\t", 500),
	}

	for _, input := range inputs {
		got := Clean(input)
		for _, r := range got {
			if r < 32 {
				t.Errorf("Clean(%q) contains control rune %q", input, r)
			}
			if r > 126 {
				t.Errorf("Clean(%q) contains non-ASCII rune %q", input, r)
			}
		}
		if strings.Contains(got, "  ") {
			t.Errorf("Clean(%q) contains a whitespace run: %q", input, got)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("Clean(%q) not trimmed: %q", input, got)
		}
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "no-such.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractError, got %T", err)
	}
	if !strings.Contains(extractErr.Path, "no-such.pdf") {
		t.Errorf("error path = %q, want it to name the file", extractErr.Path)
	}
}

func TestExtractCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	if err := os.WriteFile(path, []byte("this is not a PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Extract(path)
	if err == nil {
		t.Fatal("expected error for corrupt file")
	}

	var extractErr *ExtractError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractError, got %T", err)
	}
	if extractErr.Path != path {
		t.Errorf("error path = %q, want %q", extractErr.Path, path)
	}
}
