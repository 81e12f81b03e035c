// Package servicetest provides an in-memory store for tests of the service
// and handler layers.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemStore implements the service store interfaces in memory. It applies
// filters and ordering the way the SQL does. It is not safe for concurrent use.
type MemStore struct {
	Events      []model.Event
	Predictions []model.Prediction

	// ListErr, when set, fails every list call.
	ListErr error

	nextEventID int64
	nextPredID  int64
}

func New() *MemStore {
	return &MemStore{}
}

func notFound(table string) error {
	return fmt.Errorf("failed to collect row from table:%s: %w", table, pgx.ErrNoRows)
}

// AddEvent stores ev with the next id.
func (m *MemStore) AddEvent(ev model.Event) model.Event {
	m.nextEventID++
	ev.ID = m.nextEventID
	if ev.Status == "" {
		ev.Status = model.EventStatusScheduled
	}
	ev.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, int(ev.ID), time.UTC)
	m.Events = append(m.Events, ev)
	return ev
}

// AddPrediction stores p with the next id.
func (m *MemStore) AddPrediction(p model.Prediction) model.Prediction {
	m.nextPredID++
	p.ID = m.nextPredID
	p.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, int(p.ID), time.UTC)
	m.Predictions = append(m.Predictions, p)
	return p
}

func (m *MemStore) eventByID(id int64) (*model.Event, bool) {
	for i := range m.Events {
		if m.Events[i].ID == id {
			return &m.Events[i], true
		}
	}
	return nil, false
}

func (m *MemStore) CreateEvent(_ context.Context, ev model.NewEvent) (model.Event, bool, error) {
	for _, e := range m.Events {
		if e.EventRef == ev.EventRef {
			return e, false, nil
		}
	}
	return m.AddEvent(model.Event{
		EventRef: ev.EventRef, Sport: ev.Sport, League: ev.League,
		HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam, EventDate: ev.EventDate,
		Venue: ev.Venue, Status: ev.Status,
	}), true, nil
}

func (m *MemStore) GetEventByID(_ context.Context, id int64) (model.Event, error) {
	if e, ok := m.eventByID(id); ok {
		return *e, nil
	}
	return model.Event{}, notFound("events")
}

func (m *MemStore) GetEventByRef(_ context.Context, ref string) (model.Event, error) {
	for _, e := range m.Events {
		if e.EventRef == ref {
			return e, nil
		}
	}
	return model.Event{}, notFound("events")
}

func matchesEvent(e model.Event, sport, league, team string, dates model.DateRange, includeArchived bool) bool {
	if sport != "" && e.Sport != sport {
		return false
	}
	if league != "" && e.League != league {
		return false
	}
	if team != "" {
		t := strings.ToLower(team)
		if !strings.Contains(strings.ToLower(e.HomeTeam), t) && !strings.Contains(strings.ToLower(e.AwayTeam), t) {
			return false
		}
	}
	if dates.From != nil && e.EventDate.Before(*dates.From) {
		return false
	}
	if dates.To != nil && e.EventDate.After(*dates.To) {
		return false
	}
	return includeArchived || !e.IsArchived
}

func paginate[T any](all []T, p model.PageRequest) []T {
	start := min(p.Offset(), len(all))
	end := min(start+p.Limit, len(all))
	return all[start:end]
}

func (m *MemStore) ListEvents(_ context.Context, f model.EventFilter, p model.PageRequest) ([]model.Event, int64, error) {
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	var matched []model.Event
	for _, e := range m.Events {
		if !matchesEvent(e, f.Sport, f.League, f.Team, f.Dates, f.IncludeArchived) {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		if f.When == model.WhenUpcoming && e.EventDate.Before(f.Now) {
			continue
		}
		if f.When == model.WhenPast && !e.EventDate.Before(f.Now) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if f.When == model.WhenUpcoming {
			return matched[i].EventDate.Before(matched[j].EventDate)
		}
		return matched[i].EventDate.After(matched[j].EventDate)
	})

	return paginate(matched, p), int64(len(matched)), nil
}

func (m *MemStore) UpdateEvent(_ context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	e, ok := m.eventByID(id)
	if !ok {
		return model.Event{}, notFound("events")
	}
	if patch.League != nil {
		e.League = *patch.League
	}
	if patch.Venue != nil {
		e.Venue = patch.Venue
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	return *e, nil
}

func (m *MemStore) DeleteEvent(_ context.Context, id int64) (bool, error) {
	for i, e := range m.Events {
		if e.ID == id {
			m.Events = append(m.Events[:i], m.Events[i+1:]...)
			kept := m.Predictions[:0]
			for _, p := range m.Predictions {
				if p.EventID != id {
					kept = append(kept, p)
				}
			}
			m.Predictions = kept
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ArchiveOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for i := range m.Events {
		if !m.Events[i].IsArchived && m.Events[i].EventDate.Before(cutoff) {
			m.Events[i].IsArchived = true
			n++
		}
	}
	return n, nil
}

func (m *MemStore) LatestForEvents(_ context.Context, ids []int64) (map[int64]model.Prediction, error) {
	latest := map[int64]model.Prediction{}
	for _, id := range ids {
		e, ok := m.eventByID(id)
		if !ok || e.IsArchived {
			continue
		}
		for _, p := range m.Predictions {
			if p.EventID != id {
				continue
			}
			if cur, ok := latest[id]; !ok || p.CreatedAt.After(cur.CreatedAt) {
				latest[id] = p
			}
		}
	}
	return latest, nil
}

func (m *MemStore) CreatePrediction(_ context.Context, np model.NewPrediction) (model.Prediction, bool, error) {
	if _, ok := m.eventByID(np.EventID); !ok {
		return model.Prediction{}, false, fmt.Errorf("failed to execute create prediction query: %w", &pgconn.PgError{
			Code:           "23503",
			TableName:      "predictions",
			ColumnName:     "event_id",
			ConstraintName: "predictions_event_id_fkey",
		})
	}
	for _, p := range m.Predictions {
		if p.EventID == np.EventID {
			return p, false, nil
		}
	}
	return m.AddPrediction(model.Prediction{
		EventID: np.EventID, PredictionType: np.PredictionType, PredictedValue: np.PredictedValue,
		ConfidenceScore: np.ConfidenceScore, Reasoning: np.Reasoning, ModelVersion: np.ModelVersion,
	}), true, nil
}

func (m *MemStore) GetPredictionByID(_ context.Context, id int64) (model.Prediction, error) {
	for _, p := range m.Predictions {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Prediction{}, notFound("predictions")
}

func (m *MemStore) ListPredictions(_ context.Context, f model.PredictionFilter, p model.PageRequest) ([]model.Prediction, int64, error) {
	if m.ListErr != nil {
		return nil, 0, m.ListErr
	}

	var matched []model.Prediction
	for _, pred := range m.Predictions {
		e, _ := m.eventByID(pred.EventID)
		if !matchesEvent(*e, f.Sport, f.League, f.Team, f.Dates, f.IncludeArchived) {
			continue
		}
		if f.PredictionType != nil && pred.PredictionType != *f.PredictionType {
			continue
		}
		if f.MinConfidence != nil && pred.ConfidenceScore < *f.MinConfidence {
			continue
		}
		pred.Event = &model.EventSummary{
			Sport: e.Sport, League: e.League, HomeTeam: e.HomeTeam, AwayTeam: e.AwayTeam,
			EventDate: e.EventDate, Status: e.Status, IsArchived: e.IsArchived,
		}
		matched = append(matched, pred)
	}

	return paginate(matched, p), int64(len(matched)), nil
}

func (m *MemStore) UpdatePrediction(_ context.Context, id int64, patch model.PredictionPatch) (model.Prediction, error) {
	for i := range m.Predictions {
		if m.Predictions[i].ID != id {
			continue
		}
		p := &m.Predictions[i]
		if patch.PredictionType != nil {
			p.PredictionType = *patch.PredictionType
		}
		if patch.PredictedValue != nil {
			p.PredictedValue = *patch.PredictedValue
		}
		if patch.ConfidenceScore != nil {
			p.ConfidenceScore = *patch.ConfidenceScore
		}
		if patch.Reasoning != nil {
			p.Reasoning = *patch.Reasoning
		}
		if patch.ModelVersion != nil {
			p.ModelVersion = *patch.ModelVersion
		}
		return *p, nil
	}
	return model.Prediction{}, notFound("predictions")
}

func (m *MemStore) DeletePrediction(_ context.Context, id int64) (bool, error) {
	for i, p := range m.Predictions {
		if p.ID == id {
			m.Predictions = append(m.Predictions[:i], m.Predictions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
