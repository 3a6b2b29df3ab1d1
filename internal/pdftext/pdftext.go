// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the embedded text layer from PDF files and
// normalizes it for downstream analysis. Only the text layer is read;
// scanned (image-only) pages yield empty text and are not OCRed.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// ExtractError reports a failure to read or parse one PDF file. It carries
// the file path so batch callers can attribute the failure.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Extract reads every page of the PDF at path in order, concatenates the
// page texts with newlines, and returns the cleaned result. Extraction
// quality is delegated to the PDF library; pages without a text layer
// contribute nothing. Failures are not transient, so there is no retry.
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractError{Path: path, Err: err}
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var b strings.Builder

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", &ExtractError{Path: path, Err: fmt.Errorf("page %d: %w", i, err)}
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return Clean(b.String()), nil
}

// Clean normalizes extracted text: NFKD decomposition followed by a lossy
// projection onto printable ASCII (runes outside 32..126 are dropped, so
// accented and non-Latin text is irrecoverably degraded), then whitespace
// runs collapse to single spaces and the result is trimmed. Newlines fall
// in the dropped range, so page and line boundaries disappear here too.
func Clean(text string) string {
	decomposed := norm.NFKD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
