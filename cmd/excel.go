package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/dataquality-cli/internal/ingest"
)

var (
	excelInput  string
	excelOutput string
)

var excelCmd = &cobra.Command{
	Use:   "excel",
	Short: "Validate and match records from a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()
		defer printLog(e)

		input := excelInput
		if input == "" {
			input = cfg.Input.ExcelPath
		}
		output := excelOutput
		if output == "" {
			output = cfg.Report.OutputPath
		}

		src := &ingest.XLSXSource{Path: input, Headers: configuredHeaders()}
		_, err = runAndReport(ctx, e, src, output, "Excel")
		return err
	},
}

func init() {
	excelCmd.Flags().StringVar(&excelInput, "input", "", "input workbook path (default from config)")
	excelCmd.Flags().StringVar(&excelOutput, "output", "", "report workbook path (default from config)")
	rootCmd.AddCommand(excelCmd)
}
