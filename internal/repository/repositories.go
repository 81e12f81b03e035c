// Package repository holds the SQL for events and predictions.
//
// Every method bounds its own database round-trip with the configured query
// timeout. Missing rows surface as pgx.ErrNoRows wrapped with
// "table:<name>:" so sqlerr.HandleError can name the entity in a 404.
package repository

import (
	"github.com/deppfellow/sportspredict/internal/server"
)

type Repositories struct {
	Events      *EventRepository
	Predictions *PredictionRepository
}

func NewRepositories(s *server.Server) *Repositories {
	queryTimeout := s.Config.Database.QueryTimeout
	return &Repositories{
		Events:      NewEventRepository(s.DB.Pool, queryTimeout, s.Config.Archive.Timeout),
		Predictions: NewPredictionRepository(s.DB.Pool, queryTimeout),
	}
}
