// Package pipeline orchestrates the per-record flow: validate, fuzzy
// match against the customer master, and upsert the outcome.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/logstream"
	"github.com/sells-group/dataquality-cli/internal/match"
	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/refdata"
	"github.com/sells-group/dataquality-cli/internal/validate"
)

// Source yields the input records for one run.
type Source interface {
	Records(ctx context.Context) ([]model.InputRecord, error)
}

// FieldTotals counts pass and fail verdicts for one field across a run.
type FieldTotals struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// Totals aggregates one run's counters.
type Totals struct {
	Records    int `json:"records"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
	Inserts    int `json:"inserts"`
	Updates    int `json:"updates"`
	Failures   int `json:"failures"`

	Name    FieldTotals `json:"name"`
	Address FieldTotals `json:"address"`
	Region  FieldTotals `json:"region"`
	Postal  FieldTotals `json:"postal"`
}

// Report is the full outcome of one run: one row per unique business key
// in first-seen order, plus the aggregate totals.
type Report struct {
	RunID  string            `json:"run_id"`
	Rows   []model.ReportRow `json:"rows"`
	Totals Totals            `json:"totals"`
}

// Orchestrator wires the validators, matcher, and upsert engine into a
// single batch run.
type Orchestrator struct {
	Validator *validate.Validator
	Resolver  *match.Resolver
	Engine    *Engine
	Log       *logstream.Stream
}

// Run processes every record from the source. Individual record failures
// never abort the batch; only a source read error or context cancellation
// does.
func (o *Orchestrator) Run(ctx context.Context, src Source) (*Report, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read source records")
	}

	report := &Report{RunID: uuid.NewString()}
	seen := make(map[string]bool, len(records))

	o.Log.Pushf("Processing %d records", len(records))

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: run cancelled")
		}

		report.Totals.Records++

		outcome := o.Validator.Validate(ctx, rec)
		tally(&report.Totals, outcome)

		result, remarks := o.matchRecord(ctx, rec, outcome)

		// Only valid records reach the customer master.
		if outcome.Status == model.StatusValid {
			switch o.Engine.Apply(ctx, rec, result, outcome.Status, remarks) {
			case model.ActionInsert:
				report.Totals.Inserts++
			case model.ActionUpdate:
				report.Totals.Updates++
			case model.ActionNone:
				report.Totals.Failures++
			}
		}

		// Dedup governs report emission only; the upsert above already ran.
		key := businessKey(rec, outcome.FinalAddress)
		if seen[key] {
			report.Totals.Duplicates++
			zap.L().Debug("pipeline: duplicate business key, report row skipped", zap.String("name", rec.Name))
			continue
		}
		seen[key] = true

		report.Rows = append(report.Rows, model.ReportRow{
			MatchedID:     result.MatchedID,
			Name:          rec.Name,
			FinalAddress:  outcome.FinalAddress,
			City:          rec.City,
			Region:        rec.Region,
			Country:       rec.Country,
			Postal:        rec.Postal,
			ExternalID:    result.MatchedExternalID,
			NameStatus:    outcome.Name.Status,
			AddressStatus: outcome.Address.Status,
			RegionStatus:  outcome.Region.Status,
			PostalStatus:  outcome.Postal.Status,
			RecordStatus:  outcome.Status,
			Remarks:       remarks,
		})
	}

	o.Log.Pushf("Run %s complete: %d valid, %d invalid, %d duplicates",
		report.RunID, report.Totals.Valid, report.Totals.Invalid, report.Totals.Duplicates)
	return report, nil
}

// matchRecord runs the fuzzy match for valid records and folds the match
// outcome into the remarks. Invalid records skip matching; a failed
// candidate lookup degrades to "not attempted" with the upsert still
// going ahead.
func (o *Orchestrator) matchRecord(ctx context.Context, rec model.InputRecord, outcome model.ValidationOutcome) (model.MatchResult, string) {
	if outcome.Status != model.StatusValid {
		return model.MatchResult{MatchedExternalID: rec.ExternalID}, outcome.Remarks
	}

	candidates, err := o.Resolver.Resolve(ctx, rec.Country, rec.Postal)
	if err != nil {
		zap.L().Warn("pipeline: candidate lookup failed", zap.String("name", rec.Name), zap.Error(err))
		o.Log.Pushf("Candidate lookup failed for '%s', match not attempted", rec.Name)
		return model.MatchResult{MatchedExternalID: rec.ExternalID}, "Fuzzy match not attempted (candidate lookup failed)"
	}

	result := match.Best(rec, outcome.FinalAddress, candidates)
	if result.Matched() {
		return result, fmt.Sprintf("Record exists (fuzzy match) | Score: %.2f%%", result.Score)
	}
	return result, "Record doesn't exist (no fuzzy match)"
}

func tally(t *Totals, outcome model.ValidationOutcome) {
	bump := func(ft *FieldTotals, ok bool) {
		if ok {
			ft.Pass++
		} else {
			ft.Fail++
		}
	}
	bump(&t.Name, outcome.Name.OK())
	bump(&t.Address, outcome.Address.OK())
	bump(&t.Region, outcome.Region.OK())
	bump(&t.Postal, outcome.Postal.OK())

	if outcome.Status == model.StatusValid {
		t.Valid++
	} else {
		t.Invalid++
	}
}

// businessKey joins the collapse-normalized identifying fields with
// pipes. Two records with the same key are the same business entity for
// the duration of one run.
func businessKey(rec model.InputRecord, finalAddress string) string {
	return refdata.Collapse(rec.Name) + "|" +
		refdata.Collapse(finalAddress) + "|" +
		refdata.Collapse(rec.City) + "|" +
		refdata.Collapse(rec.Region) + "|" +
		refdata.Collapse(rec.Country) + "|" +
		refdata.NormalizePostal(rec.Postal)
}
