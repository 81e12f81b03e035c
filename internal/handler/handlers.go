package handler

import (
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
)

// Handlers groups every HTTP handler for the router.
type Handlers struct {
	Events      *EventHandler
	Predictions *PredictionHandler
	Admin       *AdminHandler
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Events:      NewEventHandler(s, services.Events),
		Predictions: NewPredictionHandler(s, services.Predictions),
		Admin:       NewAdminHandler(s, services.Ingest, services.Archive),
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
	}
}
