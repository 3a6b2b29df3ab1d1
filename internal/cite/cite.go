// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite renders APA 7th edition citations and the reviewed-papers
// bibliography from structured summaries. Pure string formatting; no
// external calls.
package cite

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/review-engine/pkg/types"
)

// particles are lowercase surname particles that bind to the final name
// token: "Ludwig van Beethoven" cites as "van Beethoven, L.".
var particles = map[string]bool{
	"van": true,
	"von": true,
	"de":  true,
	"du":  true,
}

// stopWords stay lowercase in APA title case unless they open the title.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "for": true, "nor": true,
	"on": true, "at": true, "to": true, "from": true, "by": true,
	"in": true, "of": true,
}

// Citation formats one summary as an APA-7 reference string:
// "<authors> (<year>). <title>.". With no authors it falls back to
// "Unknown. (<year>). <title>.". Deterministic for a given summary.
func Citation(summary types.PaperSummary) string {
	title := titleCase(summary.Title)

	if len(summary.Authors) == 0 {
		return fmt.Sprintf("Unknown. (%d). %s.", summary.Year, title)
	}

	formatted := make([]string, 0, len(summary.Authors))
	for _, author := range summary.Authors {
		formatted = append(formatted, formatAuthor(author))
	}

	return fmt.Sprintf("%s (%d). %s.", joinAuthors(formatted), summary.Year, title)
}

// formatAuthor converts a display name to "Surname, I." form. A lowercase
// particle in the second-to-last position joins the surname; all other
// leading tokens (minus particles) contribute one uppercase initial each,
// each carrying its own period and joined with ". ". Single-token names
// pass through verbatim.
func formatAuthor(author string) string {
	parts := strings.Fields(author)
	if len(parts) <= 1 {
		return author
	}

	surname := parts[len(parts)-1]
	if particles[strings.ToLower(parts[len(parts)-2])] {
		surname = parts[len(parts)-2] + " " + surname
	}

	var initials []string
	for _, name := range parts[:len(parts)-1] {
		if particles[strings.ToLower(name)] {
			continue
		}
		first, _ := utf8.DecodeRuneInString(name)
		initials = append(initials, strings.ToUpper(string(first))+".")
	}

	return fmt.Sprintf("%s, %s", surname, strings.Join(initials, ". "))
}

// joinAuthors combines formatted author strings: one stands alone, two are
// joined with "&", three or more are comma-separated with ", &" before the
// last.
func joinAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return "Unknown"
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " & " + authors[1]
	default:
		return strings.Join(authors[:len(authors)-1], ", ") + ", & " + authors[len(authors)-1]
	}
}

// titleCase capitalizes the first word and every non-stop word; stop words
// are lowercased unless they open the title. One trailing period is
// stripped so the citation's own terminal period is not doubled.
func titleCase(title string) string {
	words := strings.Fields(title)
	for i, word := range words {
		if i != 0 && stopWords[strings.ToLower(word)] {
			words[i] = strings.ToLower(word)
		} else {
			words[i] = capitalize(word)
		}
	}

	result := strings.Join(words, " ")
	return strings.TrimSuffix(result, ".")
}

// capitalize uppercases the first byte and lowercases the rest, matching
// the usual title-case word treatment.
func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// PaperList renders the bibliography section: a Markdown heading followed
// by one bulleted citation per summary, in input order. A summary whose
// citation cannot be formatted is replaced with an inline placeholder
// naming its title; the remaining entries still render.
func PaperList(summaries []types.PaperSummary) string {
	var b strings.Builder
	b.WriteString("## List of Reviewed Papers\n\n")

	for _, summary := range summaries {
		citation, err := safeCitation(summary)
		if err != nil {
			b.WriteString(fmt.Sprintf("- Error in citation: %s\n", summary.Title))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s\n", citation))
	}

	return b.String()
}

// safeCitation converts a formatting panic into an error so one malformed
// entry cannot abort the whole list.
func safeCitation(summary types.PaperSummary) (citation string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("formatting citation: %v", r)
		}
	}()
	return Citation(summary), nil
}
