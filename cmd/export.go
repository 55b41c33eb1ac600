package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export the leads of a stored run to an XLSX spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		leads, err := st.ListLeads(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "export: load leads")
		}
		if len(leads) == 0 {
			return eris.Errorf("export: run %s has no stored leads", args[0])
		}

		if err := export.WriteXLSX(exportOut, leads); err != nil {
			return err
		}

		zap.L().Info("spreadsheet written",
			zap.String("path", exportOut),
			zap.Int("leads", len(leads)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "leads.xlsx", "output XLSX path")
	rootCmd.AddCommand(exportCmd)
}
