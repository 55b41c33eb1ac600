// Package store persists run history and enriched leads. The pipeline
// itself runs fully in memory; persistence is a host concern layered on by
// the CLI and server entrypoints, and every pipeline path works with a nil
// Store.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, target model.TargetQuery) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// InsertLeads persists the deduplicated leads of a completed run,
	// keyed by (run_id, dedupe_key) so re-saving a run is idempotent.
	InsertLeads(ctx context.Context, runID string, leads []model.EnrichedLead) error
	ListLeads(ctx context.Context, runID string) ([]model.EnrichedLead, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open selects a backend by driver name. Supported drivers are "sqlite"
// and "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
