package pipeline

import (
	"sync"

	"github.com/sells-group/prospect-cli/internal/model"
)

// ProgressFunc receives a monotonically increasing (completed, total) count
// for the per-item stages.
type ProgressFunc func(stage model.RunStatus, completed, total int)

// tracker serializes progress callbacks from concurrent workers.
type tracker struct {
	fn    ProgressFunc
	stage model.RunStatus
	total int

	mu   sync.Mutex
	done int
}

func newTracker(fn ProgressFunc, stage model.RunStatus, total int) *tracker {
	return &tracker{fn: fn, stage: stage, total: total}
}

func (t *tracker) step() {
	if t.fn == nil {
		return
	}
	t.mu.Lock()
	t.done++
	t.fn(t.stage, t.done, t.total)
	t.mu.Unlock()
}
