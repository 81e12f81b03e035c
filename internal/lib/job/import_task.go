package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/sportspredict/internal/ingest"
	"github.com/hibiken/asynq"
)

// TaskImport is the asynq type of a batch import.
const TaskImport = "ingest:batch"

const importTimeout = 10 * time.Minute

// NewImportTask serializes batch into an import task. Imports are idempotent,
// so a retry after a partial run only finds the already stored rows.
func NewImportTask(batch ingest.Batch) (*asynq.Task, error) {
	payload, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import payload: %w", err)
	}

	return asynq.NewTask(
		TaskImport,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(importTimeout),
	), nil
}

// EnqueueImport queues batch for a worker.
func (j *JobService) EnqueueImport(ctx context.Context, batch ingest.Batch) (*asynq.TaskInfo, error) {
	task, err := NewImportTask(batch)
	if err != nil {
		return nil, err
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue import: %w", err)
	}

	j.logger.Info().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Int("events", len(batch.Events)).
		Int("predictions", len(batch.Predictions)).
		Msg("import enqueued")

	return info, nil
}
