package model

import "time"

// RunStatus tracks a pipeline run through its stages.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusSearching  RunStatus = "searching"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusResolving  RunStatus = "resolving"
	RunStatusMatching   RunStatus = "matching"
	RunStatusDeduping   RunStatus = "deduping"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run is a persisted record of one pipeline execution.
type Run struct {
	ID        string      `json:"id"`
	Target    TargetQuery `json:"target"`
	Status    RunStatus   `json:"status"`
	Result    *RunResult  `json:"result,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RunResult is the terminal output of a pipeline run.
type RunResult struct {
	Leads        []EnrichedLead `json:"leads"`
	RawHits      int            `json:"raw_hits"`
	Extracted    int            `json:"extracted"`
	Failed       int            `json:"extraction_failures"`
	Deduplicated int            `json:"deduplicated"`
	DurationMS   int64          `json:"duration_ms"`
}

// CountByStatus tallies leads per match status.
func (r *RunResult) CountByStatus() map[MatchStatus]int {
	counts := make(map[MatchStatus]int, len(r.Leads))
	for _, l := range r.Leads {
		counts[l.Status]++
	}
	return counts
}
