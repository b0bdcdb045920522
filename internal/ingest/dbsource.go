package ingest

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/store"
)

// TableSource reads input records straight from the customer master
// table, capped at Limit rows per run.
type TableSource struct {
	Target store.TargetStore
	Limit  int
}

// Records reads up to Limit master rows.
func (s *TableSource) Records(ctx context.Context) ([]model.InputRecord, error) {
	records, err := s.Target.SourceRecords(ctx, s.Limit)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read master rows")
	}
	return records, nil
}
