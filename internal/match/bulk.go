package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/apollo"
)

// DefaultBatchSize is the provider's payload cap per bulk call.
const DefaultBatchSize = 10

// BulkEnricher pushes many provider person IDs through the bulk-match
// endpoint in fixed-size batches and merges the results back by ID.
type BulkEnricher struct {
	client    apollo.Client
	batchSize int
}

// NewBulkEnricher creates a BulkEnricher. A batchSize of 0 or less uses
// DefaultBatchSize.
func NewBulkEnricher(client apollo.Client, batchSize int) *BulkEnricher {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BulkEnricher{client: client, batchSize: batchSize}
}

// Enrich submits the identifiers in sequential batches, each independently
// fallible. Identifiers from a failed batch fall back to NOT_FOUND while
// identifiers from succeeded batches keep their enrichment; no identifier is
// ever dropped from the merged result. Merging is keyed strictly by provider
// ID since batch responses need not preserve submission order.
func (b *BulkEnricher) Enrich(ctx context.Context, ids []string) map[string]model.MatchResult {
	merged := make(map[string]model.MatchResult, len(ids))

	for start := 0; start < len(ids); start += b.batchSize {
		end := min(start+b.batchSize, len(ids))
		batch := ids[start:end]

		details := make([]apollo.MatchDetail, len(batch))
		for i, id := range batch {
			details[i] = apollo.MatchDetail{ID: id}
		}

		resp, err := b.client.BulkMatch(ctx, apollo.BulkMatchRequest{Details: details})
		if err != nil {
			zap.L().Warn("match: bulk batch failed",
				zap.Int("batch_start", start),
				zap.Int("batch_size", len(batch)),
				zap.Error(err),
			)
			for _, id := range batch {
				merged[id] = model.MatchResult{Status: model.StatusNotFound}
			}
			continue
		}

		byID := make(map[string]apollo.Person, len(resp.Matches))
		for _, p := range resp.Matches {
			byID[p.ID] = p
		}

		for _, id := range batch {
			p, ok := byID[id]
			if !ok {
				merged[id] = model.MatchResult{Status: model.StatusNotFound}
				continue
			}
			merged[id] = fromPerson(&p)
		}
	}

	return merged
}
