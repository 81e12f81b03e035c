package service

import (
	"context"
	"time"

	"github.com/deppfellow/sportspredict/internal/metrics"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/rs/zerolog"
)

// EventArchiver flags stale events as archived.
type EventArchiver interface {
	ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ArchiveResult is the outcome of one sweep.
type ArchiveResult struct {
	Archived      int64     `json:"archived"`
	Cutoff        time.Time `json:"cutoff"`
	RetentionDays int       `json:"retention_days"`
}

// ArchiveService runs the archival sweep. The scheduler, the archive command
// and the admin endpoint all go through Run.
type ArchiveService struct {
	events        EventArchiver
	retentionDays int
	logger        *zerolog.Logger
	now           func() time.Time
}

func NewArchiveService(events EventArchiver, retentionDays int, logger *zerolog.Logger) *ArchiveService {
	return &ArchiveService{
		events:        events,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Cutoff is now minus retentionDays whole days, in UTC.
func Cutoff(now time.Time, retentionDays int) time.Time {
	return now.UTC().AddDate(0, 0, -retentionDays)
}

// Run archives every unarchived event dated before the cutoff. A
// retentionDays of zero uses the configured default. Re-running with nothing
// newly eligible archives 0 rows.
func (s *ArchiveService) Run(ctx context.Context, retentionDays int) (ArchiveResult, error) {
	if retentionDays == 0 {
		retentionDays = s.retentionDays
	}

	result := ArchiveResult{
		Cutoff:        Cutoff(s.now(), retentionDays),
		RetentionDays: retentionDays,
	}

	archived, err := s.events.ArchiveOlderThan(ctx, result.Cutoff)
	if err != nil {
		metrics.ArchiveRuns.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error().
			Err(err).
			Time("cutoff", result.Cutoff).
			Int("retention_days", retentionDays).
			Msg("archival sweep failed")
		return ArchiveResult{}, err
	}
	result.Archived = archived

	metrics.ArchiveRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.ArchivedEvents.Add(float64(archived))

	s.logger.Info().
		Int64("archived", archived).
		Time("cutoff", result.Cutoff).
		Int("retention_days", retentionDays).
		Msg("archival sweep finished")

	return result, nil
}

// Trigger is the on-demand entry point behind POST /api/admin/archive.
func (s *ArchiveService) Trigger(ctx context.Context, req *model.ArchiveRequest) (model.DataResponse[ArchiveResult], error) {
	var fe fieldErrors
	days, ok := positiveInt(req.RetentionDays)
	if !ok {
		fe.add("retentionDays", "must be a positive integer")
	}
	if err := fe.err(); err != nil {
		return model.DataResponse[ArchiveResult]{}, err
	}

	result, err := s.Run(ctx, days)
	if err != nil {
		return model.DataResponse[ArchiveResult]{}, err
	}
	return model.DataResponse[ArchiveResult]{Data: result}, nil
}
