package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/sportspredict/internal/ingest"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/service/servicetest"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	batch ingest.Batch
	err   error
}

func (f *fakeEnqueuer) EnqueueImport(_ context.Context, batch ingest.Batch) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batch = batch
	return &asynq.TaskInfo{ID: "task-1", Queue: "default"}, nil
}

func newIngestService(store ingest.Store, enqueuer ImportEnqueuer) *IngestService {
	logger := zerolog.Nop()
	return NewIngestService(store, enqueuer, &logger)
}

func TestIngestService_Import(t *testing.T) {
	store := servicetest.New()
	svc := newIngestService(store, nil)

	batch := ingest.Batch{
		Events: []ingest.Record{
			{"sport": "Football", "participants": []any{"Manchester United", "Liverpool"}, "date": "2026-01-15T15:00:00Z"},
		},
		Predictions: []ingest.Record{
			{"event_index": float64(0), "predicted_outcome": "Draw", "confidence": 40.0},
		},
	}

	summary, err := svc.Import(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EventsCreated)
	assert.Equal(t, 1, summary.PredictionsCreated)
	assert.Empty(t, summary.Errors)

	require.Len(t, store.Events, 1)
	assert.Equal(t, "a89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788", store.Events[0].EventRef)
	assert.Equal(t, "unknown", store.Predictions[0].ModelVersion)
}

func TestIngestService_Enqueue(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	svc := newIngestService(servicetest.New(), enqueuer)

	res, err := svc.Enqueue(context.Background(), &model.ImportRequest{
		Events: []json.RawMessage{json.RawMessage(`{"sport":"Tennis"}`), json.RawMessage(`42`)},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportAccepted{TaskID: "task-1", Queue: "default"}, res.Data)
	require.Len(t, enqueuer.batch.Events, 2)
	assert.Equal(t, "Tennis", enqueuer.batch.Events[0]["sport"])
	assert.Nil(t, enqueuer.batch.Events[1])
	assert.Empty(t, enqueuer.batch.Predictions)
}

func TestIngestService_EnqueueWithoutQueue(t *testing.T) {
	_, err := newIngestService(servicetest.New(), nil).Enqueue(context.Background(), &model.ImportRequest{
		Events: []json.RawMessage{json.RawMessage(`{"sport":"Tennis"}`)},
	})
	requireHTTPStatus(t, err, http.StatusServiceUnavailable)
}

func TestIngestService_EnqueueError(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	_, err := newIngestService(servicetest.New(), &fakeEnqueuer{err: boom}).Enqueue(context.Background(), &model.ImportRequest{
		Predictions: []json.RawMessage{json.RawMessage(`{"event_index":0}`)},
	})
	assert.ErrorIs(t, err, boom)
}
