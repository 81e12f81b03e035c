package handler

import (
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	Handler
	events *service.EventService
}

func NewEventHandler(s *server.Server, events *service.EventService) *EventHandler {
	return &EventHandler{
		Handler: NewHandler(s),
		events:  events,
	}
}

func (h *EventHandler) ListEvents(c echo.Context, q *model.EventQuery) (model.PaginatedResponse[model.EventWithPrediction], error) {
	return h.events.List(c.Request().Context(), q)
}

func (h *EventHandler) GetEvent(c echo.Context, req *model.GetEventRequest) (model.DataResponse[model.EventWithPrediction], error) {
	return h.events.Get(c.Request().Context(), req)
}

func (h *EventHandler) CreateEvent(c echo.Context, req *model.CreateEventRequest) (service.CreateResult[model.Event], error) {
	return h.events.Create(c.Request().Context(), req)
}

func (h *EventHandler) UpdateEvent(c echo.Context, req *model.UpdateEventRequest) (model.DataResponse[model.Event], error) {
	return h.events.Update(c.Request().Context(), req)
}

func (h *EventHandler) DeleteEvent(c echo.Context, req *model.IDRequest) error {
	return h.events.Delete(c.Request().Context(), req)
}
