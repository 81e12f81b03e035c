package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/sportspredict/internal/ingest"
	"github.com/hibiken/asynq"
)

// Importer runs one batch import.
type Importer interface {
	Import(ctx context.Context, batch ingest.Batch) (ingest.Summary, error)
}

// RegisterImportHandler routes TaskImport to importer. Call before Start.
func (j *JobService) RegisterImportHandler(importer Importer) {
	j.mux.HandleFunc(TaskImport, func(ctx context.Context, t *asynq.Task) error {
		return j.handleImportTask(ctx, t, importer)
	})
}

func (j *JobService) handleImportTask(ctx context.Context, t *asynq.Task, importer Importer) error {
	var batch ingest.Batch
	if err := json.Unmarshal(t.Payload(), &batch); err != nil {
		// A payload that does not decode never will; skip retries.
		return fmt.Errorf("failed to unmarshal import payload: %v: %w", err, asynq.SkipRetry)
	}

	taskID, _ := asynq.GetTaskID(ctx)
	log := j.logger.With().Str("type", TaskImport).Str("task_id", taskID).Logger()

	log.Info().
		Int("events", len(batch.Events)).
		Int("predictions", len(batch.Predictions)).
		Msg("processing import task")

	summary, err := importer.Import(ctx, batch)
	if err != nil {
		log.Error().Err(err).Msg("import task failed")
		return err
	}

	if w := t.ResultWriter(); w != nil {
		if result, err := json.Marshal(summary); err == nil {
			if _, err := w.Write(result); err != nil {
				log.Warn().Err(err).Msg("failed to write import result")
			}
		}
	}

	log.Info().
		Int("errors", len(summary.Errors)).
		Msg("import task finished")

	return nil
}
