// Package pipeline orchestrates the lead-enrichment stages: search,
// identity extraction, domain resolution, contact matching and dedupe.
// Only a failed search is run-fatal; every later stage degrades
// per-candidate.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/extract"
	"github.com/sells-group/prospect-cli/internal/match"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/resolve"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
	"github.com/sells-group/prospect-cli/pkg/apollo"
	"github.com/sells-group/prospect-cli/pkg/serper"
)

// Pipeline sequences the enrichment stages for one target query at a time.
// It is safe for concurrent Run calls: per-run state (the domain cache) is
// created inside Run.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store // nil disables run history
	search    serper.Client
	apollo    apollo.Client
	matcher   *match.Matcher
	bulk      *match.BulkEnricher
	extractor extract.Extractor
	drafter   *Drafter
	progress  ProgressFunc
}

// New wires a Pipeline from configuration. st may be nil when the host does
// not persist run history; ai may be nil unless the model extraction
// strategy or email drafting is enabled.
func New(
	cfg *config.Config,
	search serper.Client,
	apolloClient apollo.Client,
	ai anthropic.Client,
	st store.Store,
) (*Pipeline, error) {
	extractor, err := extract.New(cfg.Pipeline.Strategy, ai, cfg.Anthropic.HaikuModel)
	if err != nil {
		return nil, err
	}

	matcher, err := match.New(apolloClient, match.Policy(cfg.Pipeline.MatchPolicy))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		store:     st,
		search:    search,
		apollo:    apolloClient,
		matcher:   matcher,
		bulk:      match.NewBulkEnricher(apolloClient, cfg.Pipeline.BulkBatchSize),
		extractor: extractor,
	}

	if cfg.Pipeline.DraftEmails {
		if ai == nil {
			return nil, eris.New("pipeline: email drafting requires an anthropic client")
		}
		p.drafter = NewDrafter(ai, cfg.Anthropic.DraftModel)
	}

	return p, nil
}

// SetProgress registers a callback for stage completion counts. Must be set
// before Run; the callback may be invoked from multiple goroutines but never
// concurrently with itself.
func (p *Pipeline) SetProgress(fn ProgressFunc) {
	p.progress = fn
}

// Run executes the full pipeline for one target query. The returned error is
// non-nil only for a failed search or a persistence failure creating the run
// record; everything else surfaces as per-lead statuses.
func (p *Pipeline) Run(ctx context.Context, target model.TargetQuery) (*model.RunResult, error) {
	log := zap.L().With(
		zap.String("title", target.Title),
		zap.String("industry", target.Industry),
		zap.String("location", target.Location),
	)
	log.Info("pipeline: starting run")
	start := time.Now()

	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, target)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		log = log.With(zap.String("run_id", runID))
	}

	setStatus := func(status model.RunStatus) {
		if p.store == nil {
			return
		}
		if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}

	// SEARCHING is the only run-fatal stage.
	setStatus(model.RunStatusSearching)
	hits, err := p.runSearch(ctx, target)
	if err != nil {
		setStatus(model.RunStatusFailed)
		return nil, eris.Wrap(err, "pipeline: search")
	}
	if len(hits) == 0 {
		setStatus(model.RunStatusFailed)
		return nil, eris.New("pipeline: no results for target query")
	}
	log.Info("pipeline: search complete", zap.Int("hits", len(hits)))

	setStatus(model.RunStatusExtracting)
	identities := p.extractAll(ctx, hits)

	domains := make([]string, len(identities))
	if p.cfg.Pipeline.ResolveDomains {
		setStatus(model.RunStatusResolving)
		resolver := resolve.New(p.search)
		for i, id := range identities {
			domains[i] = resolver.Resolve(ctx, id.Company).Domain
		}
	}

	setStatus(model.RunStatusMatching)
	results := p.matchAll(ctx, identities, domains)
	if p.cfg.Pipeline.UseBulkMatch {
		p.bulkRefine(ctx, results)
	}

	// Leads stay index-aligned with the raw hits until dedupe.
	leads := make([]model.EnrichedLead, len(identities))
	for i, id := range identities {
		leads[i] = model.EnrichedLead{
			Name:       id.Name,
			Role:       id.Role,
			Company:    id.Company,
			Domain:     domains[i],
			Email:      results[i].Email,
			Status:     results[i].Status,
			SourceLink: id.SourceLink,
			Snippet:    id.Snippet,
			PersonID:   results[i].PersonID,
		}
	}

	setStatus(model.RunStatusDeduping)
	deduped, removed := Dedupe(leads)

	if p.drafter != nil {
		p.drafter.DraftAll(ctx, target, deduped)
	}

	extracted, failed := 0, 0
	for _, id := range identities {
		if id.Failed() {
			failed++
		} else {
			extracted++
		}
	}

	result := &model.RunResult{
		Leads:        deduped,
		RawHits:      len(hits),
		Extracted:    extracted,
		Failed:       failed,
		Deduplicated: removed,
		DurationMS:   time.Since(start).Milliseconds(),
	}

	if p.store != nil {
		if err := p.store.UpdateRunResult(ctx, runID, result); err != nil {
			log.Warn("pipeline: failed to save run result", zap.Error(err))
		}
		if err := p.store.InsertLeads(ctx, runID, deduped); err != nil {
			log.Warn("pipeline: failed to save leads", zap.Error(err))
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("leads", len(deduped)),
		zap.Int("deduplicated", removed),
		zap.Int("extraction_failures", failed),
		zap.Int64("duration_ms", result.DurationMS),
	)

	return result, nil
}

// runSearch issues the target search, optionally wrapped in a bounded retry.
func (p *Pipeline) runSearch(ctx context.Context, target model.TargetQuery) ([]serper.OrganicResult, error) {
	count := target.Count
	if count <= 0 {
		count = p.cfg.Pipeline.ResultCount
	}
	req := serper.SearchRequest{Query: buildQuery(target), Num: count}

	call := func(ctx context.Context) (*serper.SearchResponse, error) {
		return p.search.Search(ctx, req)
	}

	var resp *serper.SearchResponse
	var err error
	if retries := p.cfg.Pipeline.SearchRetries; retries > 0 {
		resp, err = resilience.DoVal(ctx, resilience.RetryConfig{
			MaxAttempts: retries + 1,
			OnRetry:     resilience.RetryLogger("serper", "search"),
		}, call)
	} else {
		resp, err = call(ctx)
	}
	if err != nil {
		return nil, err
	}
	return resp.Organic, nil
}

// buildQuery combines the site-scope filter with the quoted non-empty target
// terms.
func buildQuery(target model.TargetQuery) string {
	parts := []string{"site:linkedin.com/in/"}
	for _, term := range []string{target.Title, target.Industry, target.Location} {
		if term != "" {
			parts = append(parts, `"`+term+`"`)
		}
	}
	return strings.Join(parts, " ")
}

// extractAll runs the extractor over every hit with bounded concurrency,
// reassembling results positionally.
func (p *Pipeline) extractAll(ctx context.Context, hits []serper.OrganicResult) []model.CandidateIdentity {
	identities := make([]model.CandidateIdentity, len(hits))
	tracker := newTracker(p.progress, model.RunStatusExtracting, len(hits))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, hit := range hits {
		g.Go(func() error {
			identities[i] = p.extractor.Extract(gCtx, hit)
			tracker.step()
			return nil
		})
	}
	_ = g.Wait()

	return identities
}

// matchAll runs the single-contact matcher over every identity with bounded
// concurrency, reassembling results positionally.
func (p *Pipeline) matchAll(ctx context.Context, identities []model.CandidateIdentity, domains []string) []model.MatchResult {
	results := make([]model.MatchResult, len(identities))
	tracker := newTracker(p.progress, model.RunStatusMatching, len(identities))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, id := range identities {
		g.Go(func() error {
			results[i] = p.matcher.Match(gCtx, id, domains[i])
			tracker.step()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// bulkRefine re-enriches every matched person ID through the bulk endpoint.
// The bulk outcome is authoritative for the IDs submitted: a candidate the
// provider no longer returns drops to NOT_FOUND but keeps its fields.
func (p *Pipeline) bulkRefine(ctx context.Context, results []model.MatchResult) {
	var ids []string
	for _, r := range results {
		if r.PersonID != "" {
			ids = append(ids, r.PersonID)
		}
	}
	if len(ids) == 0 {
		return
	}

	enriched := p.bulk.Enrich(ctx, ids)
	for i := range results {
		id := results[i].PersonID
		if id == "" {
			continue
		}
		refreshed, ok := enriched[id]
		if !ok {
			continue
		}
		results[i].Status = refreshed.Status
		if refreshed.Email != "" {
			results[i].Email = refreshed.Email
		}
	}
}

func (p *Pipeline) workers() int {
	if p.cfg.Pipeline.MaxWorkers > 0 {
		return p.cfg.Pipeline.MaxWorkers
	}
	return 1
}
