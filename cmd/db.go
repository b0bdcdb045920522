package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/dataquality-cli/internal/ingest"
)

var (
	dbLimit  int
	dbOutput string
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Validate and match records read from the customer master table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		defer printLog(e)

		limit := dbLimit
		if limit <= 0 {
			limit = cfg.Batch.Limit
		}
		output := dbOutput
		if output == "" {
			output = cfg.Report.OutputPath
		}

		src := &ingest.TableSource{Target: e.Store, Limit: limit}
		_, err = runAndReport(ctx, e, src, output, "DB")
		return err
	},
}

func init() {
	dbCmd.Flags().IntVar(&dbLimit, "limit", 0, "max rows to read from the master table (default from config)")
	dbCmd.Flags().StringVar(&dbOutput, "output", "", "report workbook path (default from config)")
	rootCmd.AddCommand(dbCmd)
}
