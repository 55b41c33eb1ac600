package extract

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

// RuleExtractor splits a result title of the form
// "Name - Role - Company | Suffix" on the dash delimiter. It is O(1) and
// never fails, but breaks on unexpected title formats; segments it cannot
// recover default to the unknown sentinel.
type RuleExtractor struct{}

var titleCaser = cases.Title(language.English)

func (e *RuleExtractor) Extract(_ context.Context, hit serper.OrganicResult) model.CandidateIdentity {
	segments := strings.SplitN(hit.Title, "-", 3)

	identity := model.CandidateIdentity{
		Name:       model.Unknown,
		Role:       model.Unknown,
		Company:    model.Unknown,
		SourceLink: hit.Link,
		Snippet:    hit.Snippet,
	}

	if len(segments) > 0 {
		if name := normalizeSegment(segments[0]); name != "" {
			identity.Name = name
		}
	}
	if len(segments) > 1 {
		if role := normalizeSegment(segments[1]); role != "" {
			identity.Role = role
		}
	}
	if len(segments) > 2 {
		company := segments[2]
		// LinkedIn decorates the company segment with "| LinkedIn" etc.
		if idx := strings.Index(company, "|"); idx >= 0 {
			company = company[:idx]
		}
		if company = normalizeSegment(company); company != "" {
			identity.Company = company
		}
	}

	return identity
}

// normalizeSegment trims whitespace and tames all-caps segments
// ("MARIA REYES" → "Maria Reyes"). Mixed-case input is left alone so
// spellings like "McDonald" survive.
func normalizeSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !isShouty(s) {
		return s
	}
	return titleCaser.String(strings.ToLower(s))
}

func isShouty(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
