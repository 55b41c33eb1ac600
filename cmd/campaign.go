package main

import (
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/campaign"
	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

var campaignOut string

var campaignCmd = &cobra.Command{
	Use:   "campaign <file>",
	Short: "Run every target in a campaign YAML file",
	Long:  "Runs the enrichment pipeline for each target in the campaign, bounded by pipeline.max_concurrent_targets, and merges all leads into one output.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := campaign.Load(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := initPipeline(st)
		if err != nil {
			return err
		}

		log := zap.L().With(zap.String("campaign", c.Name))
		log.Info("campaign starting", zap.Int("targets", len(c.Targets)))

		queries := c.Queries()
		for i := range queries {
			if queries[i].Product == "" {
				queries[i].Product = cfg.Pipeline.Product
			}
			if queries[i].ValueProp == "" {
				queries[i].ValueProp = cfg.Pipeline.ValueProp
			}
		}
		perTarget := make([][]model.EnrichedLead, len(queries))
		var failedMu sync.Mutex
		var failed []string

		g, gCtx := errgroup.WithContext(ctx)
		limit := cfg.Pipeline.MaxConcurrentTargets
		if limit <= 0 {
			limit = 1
		}
		g.SetLimit(limit)

		for i, target := range queries {
			g.Go(func() error {
				result, runErr := p.Run(gCtx, target)
				if runErr != nil {
					// One dead target does not sink the campaign.
					log.Error("campaign target failed",
						zap.String("title", target.Title),
						zap.Error(runErr),
					)
					failedMu.Lock()
					failed = append(failed, target.Title)
					failedMu.Unlock()
					return nil
				}
				perTarget[i] = result.Leads
				return nil
			})
		}
		_ = g.Wait()

		var merged []model.EnrichedLead
		for _, leads := range perTarget {
			merged = append(merged, leads...)
		}
		// Targets in a campaign often overlap, so dedupe across them too.
		merged, collapsed := pipeline.Dedupe(merged)

		log.Info("campaign complete",
			zap.Int("leads", len(merged)),
			zap.Int("cross_target_duplicates", collapsed),
			zap.Strings("failed_targets", failed),
		)

		out := campaignOut
		if out == "" {
			out = c.Output
		}
		if out != "" {
			if err := export.WriteXLSX(out, merged); err != nil {
				return err
			}
			log.Info("spreadsheet written", zap.String("path", out))
		}

		if len(failed) == len(queries) {
			return eris.New("campaign: every target failed")
		}
		return nil
	},
}

func init() {
	campaignCmd.Flags().StringVar(&campaignOut, "out", "", "output XLSX path (overrides the campaign file's output)")
	rootCmd.AddCommand(campaignCmd)
}
