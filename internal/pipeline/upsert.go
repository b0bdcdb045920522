package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/dataquality-cli/internal/logstream"
	"github.com/sells-group/dataquality-cli/internal/model"
	"github.com/sells-group/dataquality-cli/internal/store"
)

// Engine decides between updating an existing result row and inserting a
// new one. Persistence failures are absorbed: the record's action becomes
// ActionNone, the failure goes to the log stream, and the batch continues.
type Engine struct {
	Results store.ResultStore
	Log     *logstream.Stream
}

// Apply persists one record's outcome. The existence check matches on the
// full input tuple, so a record differing in any field from a prior run
// inserts a fresh row.
func (e *Engine) Apply(ctx context.Context, rec model.InputRecord, match model.MatchResult, status model.Status, remarks string) model.UpsertAction {
	id, found, err := e.Results.FindExisting(ctx, rec)
	if err != nil {
		zap.L().Error("pipeline: result lookup failed", zap.String("name", rec.Name), zap.Error(err))
		e.Log.Pushf("Error checking existing result for '%s': %v", rec.Name, err)
		return model.ActionNone
	}

	if found {
		if err := e.Results.UpdateResult(ctx, id, rec, match.MatchedID, match.MatchedExternalID, status, remarks); err != nil {
			zap.L().Error("pipeline: result update failed", zap.Int("id", id), zap.Error(err))
			e.Log.Pushf("Error updating result for '%s': %v", rec.Name, err)
			return model.ActionNone
		}
		return model.ActionUpdate
	}

	if err := e.Results.InsertResult(ctx, rec, match.MatchedID, match.MatchedExternalID, status, remarks); err != nil {
		zap.L().Error("pipeline: result insert failed", zap.String("name", rec.Name), zap.Error(err))
		e.Log.Pushf("Error inserting result for '%s': %v", rec.Name, err)
		return model.ActionNone
	}
	return model.ActionInsert
}
