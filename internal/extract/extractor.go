// Package extract turns raw search hits into structured candidate
// identities. Two interchangeable strategies exist: a deterministic
// delimiter split and a model-assisted extraction call.
package extract

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

// Strategy names accepted by New.
const (
	StrategyRule  = "rule"
	StrategyModel = "model"
)

// Extractor derives a CandidateIdentity from one search hit. Extraction
// never returns an error: failures are absorbed into the identity as the
// extraction-failed sentinel so they stay visible and countable.
type Extractor interface {
	Extract(ctx context.Context, hit serper.OrganicResult) model.CandidateIdentity
}

// New selects an extractor by strategy name. The anthropic client is only
// required for the model strategy.
func New(strategy string, ai anthropic.Client, modelID string) (Extractor, error) {
	switch strategy {
	case StrategyRule:
		return &RuleExtractor{}, nil
	case StrategyModel:
		if ai == nil {
			return nil, eris.New("extract: model strategy requires an anthropic client")
		}
		return &ModelExtractor{AI: ai, Model: modelID}, nil
	default:
		return nil, eris.Errorf("extract: unknown strategy %q", strategy)
	}
}
