package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/ingest"
	"github.com/sells-group/dataquality-cli/internal/pipeline"
	"github.com/sells-group/dataquality-cli/internal/report"
)

// runAndReport executes one batch and writes the workbook report. Mode
// names the command for log-stream messages.
func runAndReport(ctx context.Context, e *env, src pipeline.Source, outPath, mode string) (*pipeline.Report, error) {
	rep, err := e.Orchestrator.Run(ctx, src)
	if err != nil {
		e.Log.Pushf("%s mode failed: %v", mode, err)
		e.Log.Push("No report generated due to error.")
		return nil, err
	}

	if err := report.WriteXLSX(rep, outPath); err != nil {
		e.Log.Pushf("%s mode failed: %v", mode, err)
		e.Log.Push("No report generated due to error.")
		return nil, err
	}

	e.Log.Pushf("Report generated at %s", outPath)
	e.Log.Pushf("%s mode completed", mode)

	zap.L().Info("run complete",
		zap.String("run_id", rep.RunID),
		zap.String("mode", mode),
		zap.Int("records", rep.Totals.Records),
		zap.Int("valid", rep.Totals.Valid),
		zap.Int("invalid", rep.Totals.Invalid),
		zap.Int("inserts", rep.Totals.Inserts),
		zap.Int("updates", rep.Totals.Updates),
		zap.Int("failures", rep.Totals.Failures))

	return rep, nil
}

// printLog drains the event stream to stdout after a CLI run.
func printLog(e *env) {
	for _, ev := range e.Log.Drain() {
		fmt.Printf("[%s] %s\n", ev.At.Format("15:04:05"), ev.Message)
	}
}

func configuredHeaders() ingest.Headers {
	return ingest.Headers{
		Name:    cfg.Input.Headers.Name,
		Address: cfg.Input.Headers.Address,
		City:    cfg.Input.Headers.City,
		Postal:  cfg.Input.Headers.Postal,
		Country: cfg.Input.Headers.Country,
		Region:  cfg.Input.Headers.Region,
		DUNS:    cfg.Input.Headers.DUNS,
	}
}
