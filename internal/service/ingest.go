package service

import (
	"context"

	"github.com/deppfellow/sportspredict/internal/ingest"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// ImportEnqueuer hands a batch to the background workers.
type ImportEnqueuer interface {
	EnqueueImport(ctx context.Context, batch ingest.Batch) (*asynq.TaskInfo, error)
}

// ImportAccepted is the response to an enqueued import.
type ImportAccepted struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
}

// IngestService runs batch imports synchronously (CLI, job workers) or queues
// them (API).
type IngestService struct {
	runner   *ingest.Runner
	enqueuer ImportEnqueuer
}

// NewIngestService builds the service. enqueuer may be nil when there is no
// job queue, in which case Enqueue fails.
func NewIngestService(store ingest.Store, enqueuer ImportEnqueuer, logger *zerolog.Logger) *IngestService {
	return &IngestService{
		runner:   ingest.NewRunner(store, logger),
		enqueuer: enqueuer,
	}
}

// Import runs batch to completion and returns its summary.
func (s *IngestService) Import(ctx context.Context, batch ingest.Batch) (ingest.Summary, error) {
	return s.runner.Run(ctx, batch)
}

// Enqueue queues the request body for a background worker.
func (s *IngestService) Enqueue(ctx context.Context, req *model.ImportRequest) (model.DataResponse[ImportAccepted], error) {
	if s.enqueuer == nil {
		return model.DataResponse[ImportAccepted]{}, errImportQueueUnavailable
	}

	info, err := s.enqueuer.EnqueueImport(ctx, batchFromRequest(req))
	if err != nil {
		return model.DataResponse[ImportAccepted]{}, err
	}

	return model.DataResponse[ImportAccepted]{
		Data: ImportAccepted{TaskID: info.ID, Queue: info.Queue},
	}, nil
}

func batchFromRequest(req *model.ImportRequest) ingest.Batch {
	return ingest.Batch{
		Events:      ingest.DecodeRecords(req.Events),
		Predictions: ingest.DecodeRecords(req.Predictions),
	}
}
