package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testTarget() model.TargetQuery {
	return model.TargetQuery{
		Title:    "Logistics Manager",
		Industry: "Shipping",
		Location: "Houston",
		Count:    10,
	}
}

func TestSQLite_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testTarget())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusSearching))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusSearching, got.Status)
	assert.Equal(t, "Logistics Manager", got.Target.Title)
	assert.Nil(t, got.Result)

	result := &model.RunResult{
		Leads:      []model.EnrichedLead{{Name: "Maria Reyes", Status: model.StatusMatched}},
		RawHits:    3,
		Extracted:  3,
		DurationMS: 1200,
	}
	require.NoError(t, s.UpdateRunResult(ctx, run.ID, result))

	got, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Len(t, got.Result.Leads, 1)
	assert.Equal(t, 3, got.Result.RawHits)
}

func TestSQLite_UpdateMissingRun(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateRunStatus(context.Background(), "nope", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_GetMissingRun(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetRun(context.Background(), "nope")
	require.Error(t, err)
}

func TestSQLite_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateRun(ctx, testTarget())
	require.NoError(t, err)
	second, err := s.CreateRun(ctx, testTarget())
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, second.ID, model.RunStatusFailed))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, second.ID, failed[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_ = first
}

func TestSQLite_Leads(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, testTarget())
	require.NoError(t, err)

	leads := []model.EnrichedLead{
		{Name: "Maria Reyes", Role: "Logistics Manager", Company: "Gulf Shipping",
			Email: "maria@gulfshipping.com", Status: model.StatusMatched, PersonID: "p-1"},
		{Name: "John Smith", Role: "Operations Lead", Company: "Acme",
			Status: model.StatusNotFound},
	}
	require.NoError(t, s.InsertLeads(ctx, run.ID, leads))

	// Re-saving the same leads is idempotent.
	require.NoError(t, s.InsertLeads(ctx, run.ID, leads))

	got, err := s.ListLeads(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]model.EnrichedLead{}
	for _, l := range got {
		byName[l.Name] = l
	}
	assert.Equal(t, model.StatusMatched, byName["Maria Reyes"].Status)
	assert.Equal(t, "p-1", byName["Maria Reyes"].PersonID)
	assert.Equal(t, model.StatusNotFound, byName["John Smith"].Status)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
