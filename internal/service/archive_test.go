package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/service/servicetest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArchiveService(store EventArchiver) *ArchiveService {
	logger := zerolog.Nop()
	svc := NewArchiveService(store, 30, &logger)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestCutoff(t *testing.T) {
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC), Cutoff(now, 30))
}

func TestArchiveService_Monotonic(t *testing.T) {
	store := servicetest.New()
	old := store.AddEvent(model.Event{HomeTeam: "A", AwayTeam: "B", EventDate: testNow.AddDate(0, 0, -31)})
	edge := store.AddEvent(model.Event{HomeTeam: "C", AwayTeam: "D", EventDate: testNow.AddDate(0, 0, -30)})
	recent := store.AddEvent(model.Event{HomeTeam: "E", AwayTeam: "F", EventDate: testNow.AddDate(0, 0, -1)})
	svc := newArchiveService(store)

	res, err := svc.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Archived)
	assert.Equal(t, 30, res.RetentionDays)
	assert.Equal(t, testNow.AddDate(0, 0, -30), res.Cutoff)

	archived := map[int64]bool{}
	for _, e := range store.Events {
		archived[e.ID] = e.IsArchived
	}
	assert.True(t, archived[old.ID])
	assert.False(t, archived[edge.ID])
	assert.False(t, archived[recent.ID])

	again, err := svc.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, again.Archived)
}

func TestArchiveService_ExplicitRetention(t *testing.T) {
	store := servicetest.New()
	store.AddEvent(model.Event{HomeTeam: "A", AwayTeam: "B", EventDate: testNow.AddDate(0, 0, -3)})

	res, err := newArchiveService(store).Trigger(context.Background(), &model.ArchiveRequest{RetentionDays: "2"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Data.Archived)
	assert.Equal(t, 2, res.Data.RetentionDays)
}

func TestArchiveService_TriggerRejectsZero(t *testing.T) {
	_, err := newArchiveService(servicetest.New()).Trigger(context.Background(), &model.ArchiveRequest{RetentionDays: "0"})
	httpErr := requireHTTPStatus(t, err, 400)
	assert.Equal(t, "retentionDays", httpErr.Errors[0].Field)
}

type failingArchiver struct{ err error }

func (f failingArchiver) ArchiveOlderThan(context.Context, time.Time) (int64, error) {
	return 0, f.err
}

func TestArchiveService_StorageError(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := newArchiveService(failingArchiver{err: boom}).Run(context.Background(), 0)
	assert.ErrorIs(t, err, boom)
}
