package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/sportspredict/internal/metrics"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

const (
	KindEvent      = "event"
	KindPrediction = "prediction"
)

// Batch is one import: events first, then predictions that may point back at
// them by position.
type Batch struct {
	Events      []Record `json:"events"`
	Predictions []Record `json:"predictions"`
}

// RecordError describes one skipped record.
type RecordError struct {
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", e.Kind, e.Index, e.Reason)
}

// Summary is the outcome of a batch.
type Summary struct {
	EventsCreated       int           `json:"events_created"`
	EventsExisting      int           `json:"events_existing"`
	PredictionsCreated  int           `json:"predictions_created"`
	PredictionsExisting int           `json:"predictions_existing"`
	Errors              []RecordError `json:"errors"`
}

// Store is the data access the runner needs. Both creates are
// conflict-as-success: an existing row is returned with created=false.
type Store interface {
	CreateEvent(ctx context.Context, ev model.NewEvent) (model.Event, bool, error)
	GetEventByRef(ctx context.Context, ref string) (model.Event, error)
	CreatePrediction(ctx context.Context, p model.NewPrediction) (model.Prediction, bool, error)
}

type Runner struct {
	store  Store
	logger *zerolog.Logger
}

func NewRunner(store Store, logger *zerolog.Logger) *Runner {
	return &Runner{store: store, logger: logger}
}

// Run imports batch. It only returns an error when ctx ends; every
// per-record failure is collected in the summary instead.
func (r *Runner) Run(ctx context.Context, batch Batch) (Summary, error) {
	summary := Summary{Errors: []RecordError{}}

	// eventIDs[i] is the stored id of batch.Events[i], or 0 if it failed.
	eventIDs := make([]int64, len(batch.Events))

	for i, rec := range batch.Events {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import aborted after %d of %d events: %w", i, len(batch.Events), err)
		}

		event, created, err := r.importEvent(ctx, rec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, fmt.Errorf("import aborted after %d of %d events: %w", i, len(batch.Events), ctxErr)
			}
			r.skip(&summary, KindEvent, i, err)
			continue
		}

		eventIDs[i] = event.ID
		if created {
			summary.EventsCreated++
			metrics.IngestRecords.WithLabelValues(KindEvent, "created").Inc()
		} else {
			summary.EventsExisting++
			metrics.IngestRecords.WithLabelValues(KindEvent, "existing").Inc()
		}
	}

	for i, rec := range batch.Predictions {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import aborted after %d of %d predictions: %w", i, len(batch.Predictions), err)
		}

		created, err := r.importPrediction(ctx, rec, eventIDs)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, fmt.Errorf("import aborted after %d of %d predictions: %w", i, len(batch.Predictions), ctxErr)
			}
			r.skip(&summary, KindPrediction, i, err)
			continue
		}

		if created {
			summary.PredictionsCreated++
			metrics.IngestRecords.WithLabelValues(KindPrediction, "created").Inc()
		} else {
			summary.PredictionsExisting++
			metrics.IngestRecords.WithLabelValues(KindPrediction, "existing").Inc()
		}
	}

	r.logger.Info().
		Int("events_created", summary.EventsCreated).
		Int("events_existing", summary.EventsExisting).
		Int("predictions_created", summary.PredictionsCreated).
		Int("predictions_existing", summary.PredictionsExisting).
		Int("errors", len(summary.Errors)).
		Msg("import finished")

	return summary, nil
}

func (r *Runner) importEvent(ctx context.Context, rec Record) (model.Event, bool, error) {
	in, err := DecodeEvent(rec)
	if err != nil {
		return model.Event{}, false, err
	}
	return r.store.CreateEvent(ctx, in.NewEvent())
}

func (r *Runner) importPrediction(ctx context.Context, rec Record, eventIDs []int64) (bool, error) {
	in, err := DecodePrediction(rec)
	if err != nil {
		return false, err
	}

	eventID, err := r.resolveEvent(ctx, in, eventIDs)
	if err != nil {
		return false, err
	}

	_, created, err := r.store.CreatePrediction(ctx, in.NewPrediction(eventID))
	return created, err
}

func (r *Runner) resolveEvent(ctx context.Context, in PredictionInput, eventIDs []int64) (int64, error) {
	if in.EventRef != "" {
		event, err := r.store.GetEventByRef(ctx, in.EventRef)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("no event with event_ref %s", in.EventRef)
		}
		if err != nil {
			return 0, err
		}
		return event.ID, nil
	}

	idx := *in.EventIndex
	if idx >= len(eventIDs) {
		return 0, fmt.Errorf("event_index %d is out of range (batch has %d events)", idx, len(eventIDs))
	}
	if eventIDs[idx] == 0 {
		return 0, fmt.Errorf("event_index %d refers to an event that failed to import", idx)
	}
	return eventIDs[idx], nil
}

func (r *Runner) skip(summary *Summary, kind string, index int, err error) {
	recErr := RecordError{Kind: kind, Index: index, Reason: err.Error()}
	summary.Errors = append(summary.Errors, recErr)
	metrics.IngestRecords.WithLabelValues(kind, metrics.ResultError).Inc()

	r.logger.Warn().
		Str("kind", kind).
		Int("index", index).
		Err(err).
		Msg("skipping record")
}
