// Package service holds the business logic between the handlers and the
// repositories.
//
// It turns loosely typed request input into validated filters, calls the
// data access layer and shapes the results. Input errors are raised here,
// before any store access, as 400 field errors. Storage errors pass through
// unchanged for the global error handler to map.
package service

import (
	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/repository"
	"github.com/deppfellow/sportspredict/internal/server"
)

var errImportQueueUnavailable = errs.NewServiceUnavailableError("Import queue is not available")

type Services struct {
	Events      *EventService
	Predictions *PredictionService
	Archive     *ArchiveService
	Ingest      *IngestService
}

// ingestStore joins the two repositories into the store the import runner
// expects.
type ingestStore struct {
	*repository.EventRepository
	*repository.PredictionRepository
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	var enqueuer ImportEnqueuer
	if s.Job != nil {
		enqueuer = s.Job
	}

	return &Services{
		Events:      NewEventService(repos.Events, repos.Predictions),
		Predictions: NewPredictionService(repos.Predictions),
		Archive:     NewArchiveService(repos.Events, s.Config.Archive.RetentionDays, s.Logger),
		Ingest:      NewIngestService(ingestStore{repos.Events, repos.Predictions}, enqueuer, s.Logger),
	}
}
