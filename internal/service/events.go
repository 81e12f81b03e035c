package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/eventref"
	"github.com/deppfellow/sportspredict/internal/model"
)

// EventStore is the event data access the service needs.
type EventStore interface {
	CreateEvent(ctx context.Context, ev model.NewEvent) (model.Event, bool, error)
	GetEventByID(ctx context.Context, id int64) (model.Event, error)
	ListEvents(ctx context.Context, filter model.EventFilter, page model.PageRequest) ([]model.Event, int64, error)
	UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)
}

// LatestPredictionStore finds the latest non-archived prediction per event.
type LatestPredictionStore interface {
	LatestForEvents(ctx context.Context, eventIDs []int64) (map[int64]model.Prediction, error)
}

type EventService struct {
	events      EventStore
	predictions LatestPredictionStore
	now         func() time.Time
}

func NewEventService(events EventStore, predictions LatestPredictionStore) *EventService {
	return &EventService{
		events:      events,
		predictions: predictions,
		now:         time.Now,
	}
}

// CreateResult carries a created or pre-existing row. Created decides the
// response status.
type CreateResult[T any] struct {
	model.DataResponse[T]
	Created bool `json:"-"`
}

func (r CreateResult[T]) StatusCode() int {
	if r.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

// Filter validates q into an EventFilter and page.
func (s *EventService) Filter(q *model.EventQuery) (model.EventFilter, model.PageRequest, error) {
	var fe fieldErrors

	filter := model.EventFilter{
		Sport:           strings.TrimSpace(q.Sport),
		League:          strings.TrimSpace(q.League),
		Team:            strings.TrimSpace(q.Team),
		IncludeArchived: parseBool(q.IncludeArchived),
		Now:             s.now().UTC(),
	}

	if raw := strings.TrimSpace(q.Status); raw != "" {
		if status, err := model.ParseEventStatus(raw); err != nil {
			fe.add("status", err.Error())
		} else {
			filter.Status = &status
		}
	}

	when, err := model.ParseTemporalBucket(q.When)
	if err != nil {
		fe.add("when", err.Error())
	}
	filter.When = when

	filter.Dates = parseDateRange(q.StartDate, q.EndDate, &fe)
	page := parsePage(q.Page, q.Limit, &fe)

	return filter, page, fe.err()
}

// List returns a page of events. With includePredictions every event carries
// its latest non-archived prediction, or null.
func (s *EventService) List(ctx context.Context, q *model.EventQuery) (model.PaginatedResponse[model.EventWithPrediction], error) {
	filter, page, err := s.Filter(q)
	if err != nil {
		return model.PaginatedResponse[model.EventWithPrediction]{}, err
	}

	events, total, err := s.events.ListEvents(ctx, filter, page)
	if err != nil {
		return model.PaginatedResponse[model.EventWithPrediction]{}, err
	}

	data, err := s.attach(ctx, events, parseBool(q.IncludePredictions))
	if err != nil {
		return model.PaginatedResponse[model.EventWithPrediction]{}, err
	}

	return model.PaginatedResponse[model.EventWithPrediction]{
		Data:       data,
		Pagination: model.NewPagination(page, total),
	}, nil
}

// attach looks the predictions up in one query for the whole page.
func (s *EventService) attach(ctx context.Context, events []model.Event, include bool) ([]model.EventWithPrediction, error) {
	out := make([]model.EventWithPrediction, len(events))
	for i, ev := range events {
		out[i] = model.EventWithPrediction{Event: ev, Attached: include}
	}
	if !include || len(events) == 0 {
		return out, nil
	}

	ids := make([]int64, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}

	latest, err := s.predictions.LatestForEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range out {
		if p, ok := latest[out[i].ID]; ok {
			out[i].Prediction = &p
		}
	}
	return out, nil
}

func (s *EventService) Get(ctx context.Context, req *model.GetEventRequest) (model.DataResponse[model.EventWithPrediction], error) {
	event, err := s.events.GetEventByID(ctx, req.ID)
	if err != nil {
		return model.DataResponse[model.EventWithPrediction]{}, err
	}

	data, err := s.attach(ctx, []model.Event{event}, parseBool(req.IncludePredictions))
	if err != nil {
		return model.DataResponse[model.EventWithPrediction]{}, err
	}

	return model.DataResponse[model.EventWithPrediction]{Data: data[0]}, nil
}

// Create stores the event, or returns the stored one when the same fixture
// already exists.
func (s *EventService) Create(ctx context.Context, req *model.CreateEventRequest) (CreateResult[model.Event], error) {
	status := model.EventStatusScheduled
	if req.Status != nil {
		status = model.EventStatus(*req.Status)
	}

	eventDate := req.EventDate.UTC()
	ev := model.NewEvent{
		EventRef:  eventref.Compute(req.Sport, req.HomeTeam, req.AwayTeam, eventDate),
		Sport:     req.Sport,
		League:    req.League,
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		EventDate: eventDate,
		Venue:     req.Venue,
		Status:    status,
	}

	event, created, err := s.events.CreateEvent(ctx, ev)
	if err != nil {
		return CreateResult[model.Event]{}, err
	}

	return CreateResult[model.Event]{
		DataResponse: model.DataResponse[model.Event]{Data: event},
		Created:      created,
	}, nil
}

func (s *EventService) Update(ctx context.Context, req *model.UpdateEventRequest) (model.DataResponse[model.Event], error) {
	event, err := s.events.UpdateEvent(ctx, req.ID, req.Patch())
	if err != nil {
		return model.DataResponse[model.Event]{}, err
	}
	return model.DataResponse[model.Event]{Data: event}, nil
}

func (s *EventService) Delete(ctx context.Context, req *model.IDRequest) error {
	found, err := s.events.DeleteEvent(ctx, req.ID)
	if err != nil {
		return err
	}
	if !found {
		code := "EVENT_NOT_FOUND"
		return errs.NewNotFoundError("Event not found", true, &code)
	}
	return nil
}
