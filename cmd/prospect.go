package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
	"github.com/sells-group/prospect-cli/internal/model"
)

var (
	prospectTitle     string
	prospectIndustry  string
	prospectLocation  string
	prospectCount     int
	prospectProduct   string
	prospectValueProp string
	prospectOut       string
	prospectPushSF    bool
)

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Run the enrichment pipeline for a single target profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := initPipeline(st)
		if err != nil {
			return err
		}
		p.SetProgress(func(stage model.RunStatus, completed, total int) {
			fmt.Fprintf(os.Stderr, "\r%s %d/%d", stage, completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		})

		target := model.TargetQuery{
			Title:     prospectTitle,
			Industry:  prospectIndustry,
			Location:  prospectLocation,
			Count:     prospectCount,
			Product:   prospectProduct,
			ValueProp: prospectValueProp,
		}
		if target.Product == "" {
			target.Product = cfg.Pipeline.Product
		}
		if target.ValueProp == "" {
			target.ValueProp = cfg.Pipeline.ValueProp
		}

		result, err := p.Run(ctx, target)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		counts := result.CountByStatus()
		zap.L().Info("prospecting complete",
			zap.Int("leads", len(result.Leads)),
			zap.Int("matched", counts[model.StatusMatched]),
			zap.Int("deduplicated", result.Deduplicated),
			zap.Int64("duration_ms", result.DurationMS),
		)

		if prospectOut != "" {
			if err := export.WriteXLSX(prospectOut, result.Leads); err != nil {
				return err
			}
			zap.L().Info("spreadsheet written", zap.String("path", prospectOut))
		}

		if prospectPushSF {
			sf, err := initSalesforce()
			if err != nil {
				return err
			}
			pushed, err := export.PushLeads(ctx, sf, result.Leads)
			if err != nil {
				return err
			}
			zap.L().Info("salesforce push complete",
				zap.Int("pushed", pushed.Pushed),
				zap.Int("failed", pushed.Failed),
				zap.Int("skipped", pushed.Skipped),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	prospectCmd.Flags().StringVar(&prospectTitle, "title", "", "target job title (required)")
	prospectCmd.Flags().StringVar(&prospectIndustry, "industry", "", "target industry")
	prospectCmd.Flags().StringVar(&prospectLocation, "location", "", "target location")
	prospectCmd.Flags().IntVar(&prospectCount, "count", 0, "search result cap (default from config)")
	prospectCmd.Flags().StringVar(&prospectProduct, "product", "", "product name for outreach drafts (default from config)")
	prospectCmd.Flags().StringVar(&prospectValueProp, "value-prop", "", "value proposition for outreach drafts (default from config)")
	prospectCmd.Flags().StringVar(&prospectOut, "out", "", "write leads to an XLSX file")
	prospectCmd.Flags().BoolVar(&prospectPushSF, "push-sf", false, "push matched leads to Salesforce")
	_ = prospectCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(prospectCmd)
}
