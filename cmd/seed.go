package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/ingest"
)

var seedCmd = &cobra.Command{
	Use:   "seed <reference-workbook.xlsx>",
	Short: "Load country/region reference rows from a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		rows, err := ingest.ReadReferenceWorkbook(args[0])
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.Errorf("no reference rows found in %s", args[0])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.SeedCountryRows(ctx, rows)
		if err != nil {
			return err
		}

		zap.L().Info("reference data seeded",
			zap.String("source", args[0]),
			zap.Int64("rows", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
