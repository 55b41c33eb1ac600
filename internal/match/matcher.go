// Package match queries the contact-enrichment provider for verified email
// addresses. Every provider failure is absorbed into a terminal per-candidate
// status; nothing here raises past the component boundary.
package match

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/apollo"
)

// Policy controls the fallback when domain resolution came up empty.
type Policy string

const (
	// PolicyDomainOnly matches on (name, domain) only; candidates without a
	// resolved domain report NOT_FOUND rather than risking a wrong-company hit.
	PolicyDomainOnly Policy = "domain_only"
	// PolicyDomainThenCompany falls back to (name, company) matching, which
	// is ambiguous across organizations sharing a name.
	PolicyDomainThenCompany Policy = "domain_then_company"
)

// Matcher performs single-contact matches against Apollo.
type Matcher struct {
	client apollo.Client
	policy Policy
}

// New creates a Matcher with the given fallback policy.
func New(client apollo.Client, policy Policy) (*Matcher, error) {
	switch policy {
	case PolicyDomainOnly, PolicyDomainThenCompany:
		return &Matcher{client: client, policy: policy}, nil
	default:
		return nil, eris.Errorf("match: unknown policy %q", policy)
	}
}

// Match looks up a verified email for the identity. Domain is the resolved
// company domain and may be empty; the (name, domain) key is preferred over
// (name, company) whenever it is available.
func (m *Matcher) Match(ctx context.Context, identity model.CandidateIdentity, domain string) model.MatchResult {
	first, last, ok := SplitName(identity.Name)
	if !ok {
		return model.MatchResult{Status: model.StatusSkipped}
	}

	req := apollo.MatchRequest{FirstName: first, LastName: last}
	switch {
	case domain != "":
		req.OrganizationDomain = domain
	case m.policy == PolicyDomainThenCompany && identity.CompanyKnown():
		req.OrganizationName = identity.Company
	case m.policy == PolicyDomainOnly && identity.CompanyKnown():
		// Company is known but unresolved; this policy refuses the
		// ambiguous company-name key.
		return model.MatchResult{Status: model.StatusNotFound}
	default:
		return model.MatchResult{Status: model.StatusSkipped}
	}

	resp, err := m.client.PeopleMatch(ctx, req)
	if err != nil {
		zap.L().Warn("match: provider error",
			zap.String("name", identity.Name),
			zap.Error(err),
		)
		return model.MatchResult{Status: model.StatusProviderError}
	}

	return fromPerson(resp.Person)
}

// fromPerson converts a provider person record into a MatchResult.
func fromPerson(p *apollo.Person) model.MatchResult {
	if p == nil {
		return model.MatchResult{Status: model.StatusNotFound}
	}
	result := model.MatchResult{PersonID: p.ID}
	if p.Email != "" {
		result.Email = p.Email
		result.Status = model.StatusMatched
	} else {
		result.Status = model.StatusMatchedNoEmail
	}
	return result
}

// SplitName splits a full name on whitespace into a first name and the
// remaining tokens joined as the last name. ok is false when the name is a
// sentinel or has no separable first token.
func SplitName(name string) (first, last string, ok bool) {
	if name == "" || name == model.Unknown || name == model.ExtractionFailed {
		return "", "", false
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}
