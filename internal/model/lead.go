package model

import "strings"

// Sentinel values for identity fields. Unknown means the source data did not
// contain the field; ExtractionFailed means the extraction step itself broke
// (malformed model reply, transport error). The two are counted separately.
const (
	Unknown          = "unknown"
	ExtractionFailed = "extraction_failed"
)

// TargetQuery describes the professional profile a pipeline run prospects for.
// Product and ValueProp describe what is being sold; they never influence the
// search, only the outreach drafts. Constructed once per run and never mutated.
type TargetQuery struct {
	Title     string `json:"title"`
	Industry  string `json:"industry"`
	Location  string `json:"location"`
	Count     int    `json:"count"`
	Product   string `json:"product,omitempty"`
	ValueProp string `json:"value_prop,omitempty"`
}

// CandidateIdentity is the structured identity extracted from a single search
// hit. Name, Role and Company are never empty: fields that could not be
// determined carry the Unknown sentinel, and a failed extraction carries
// ExtractionFailed in all three.
type CandidateIdentity struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Company    string `json:"company"`
	SourceLink string `json:"source_link"`
	Snippet    string `json:"snippet,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// CompanyKnown reports whether the identity carries a usable company name.
func (c CandidateIdentity) CompanyKnown() bool {
	return c.Company != "" && c.Company != Unknown && c.Company != ExtractionFailed
}

// Failed reports whether the identity is an extraction-failure placeholder.
func (c CandidateIdentity) Failed() bool {
	return c.Name == ExtractionFailed
}

// ResolvedDomain maps a company name to its canonical web host. Domain is
// empty when resolution failed or the company was unknown; callers treat an
// empty domain as "skip domain-based matching", not as an error.
type ResolvedDomain struct {
	Company string `json:"company"`
	Domain  string `json:"domain,omitempty"`
}

// MatchStatus is the terminal per-candidate outcome of contact matching.
type MatchStatus string

const (
	StatusMatched        MatchStatus = "matched"
	StatusMatchedNoEmail MatchStatus = "matched_no_email"
	StatusNotFound       MatchStatus = "not_found"
	StatusSkipped        MatchStatus = "skipped_missing_data"
	StatusProviderError  MatchStatus = "provider_error"
)

// statusRank orders statuses from least to most enriched for dedupe.
var statusRank = map[MatchStatus]int{
	StatusProviderError:  0,
	StatusSkipped:        1,
	StatusNotFound:       2,
	StatusMatchedNoEmail: 3,
	StatusMatched:        4,
}

// MatchResult is the outcome of one contact-enrichment lookup. Email is empty
// when the provider withheld it or found no contact.
type MatchResult struct {
	Email    string      `json:"email,omitempty"`
	Status   MatchStatus `json:"status"`
	PersonID string      `json:"person_id,omitempty"`
}

// EnrichedLead is the terminal, exported unit: one per unique identity.
type EnrichedLead struct {
	Name       string      `json:"name"`
	Role       string      `json:"role"`
	Company    string      `json:"company"`
	Domain     string      `json:"domain,omitempty"`
	Email      string      `json:"email,omitempty"`
	Status     MatchStatus `json:"status"`
	SourceLink string      `json:"source_link"`
	Snippet    string      `json:"snippet,omitempty"`
	PersonID   string      `json:"person_id,omitempty"`
	DraftEmail string      `json:"draft_email,omitempty"`
}

// CompanyKnown reports whether the lead carries a usable company name.
func (l EnrichedLead) CompanyKnown() bool {
	return l.Company != "" && l.Company != Unknown && l.Company != ExtractionFailed
}

// Key returns the dedupe key: the provider person ID when available,
// otherwise the (name, company) pair, case-insensitively.
func (l EnrichedLead) Key() string {
	if l.PersonID != "" {
		return "id:" + l.PersonID
	}
	return "nc:" + strings.ToLower(l.Name) + "|" + strings.ToLower(l.Company)
}

// Richer reports whether l carries more enrichment than other: a non-empty
// email wins, then the higher-ranked match status.
func (l EnrichedLead) Richer(other EnrichedLead) bool {
	if (l.Email != "") != (other.Email != "") {
		return l.Email != ""
	}
	return statusRank[l.Status] > statusRank[other.Status]
}
