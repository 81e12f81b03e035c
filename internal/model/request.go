package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/deppfellow/sportspredict/internal/validation"
)

// CreateEventRequest is POST /api/events.
type CreateEventRequest struct {
	Sport     string    `json:"sport" validate:"required,max=100"`
	League    string    `json:"league" validate:"required,max=100"`
	HomeTeam  string    `json:"home_team" validate:"required,max=200"`
	AwayTeam  string    `json:"away_team" validate:"required,max=200,nefield=HomeTeam"`
	EventDate time.Time `json:"event_date" validate:"required"`
	Venue     *string   `json:"venue" validate:"omitempty,max=200"`
	Status    *string   `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE COMPLETED POSTPONED CANCELLED"`
}

// Validate trims the identity fields first, so they hash the same way as
// imported records and blank names fail required.
func (r *CreateEventRequest) Validate() error {
	r.Sport = strings.TrimSpace(r.Sport)
	r.League = strings.TrimSpace(r.League)
	r.HomeTeam = strings.TrimSpace(r.HomeTeam)
	r.AwayTeam = strings.TrimSpace(r.AwayTeam)

	if err := validate.Struct(r); err != nil {
		return err
	}
	if strings.EqualFold(r.HomeTeam, r.AwayTeam) {
		return validation.CustomValidationErrors{
			{Field: "away_team", Message: "must differ from home_team"},
		}
	}
	return nil
}

// UpdateEventRequest is PATCH /api/events/:id. Only non-identity fields are
// accepted, so event_ref keeps matching the stored row.
type UpdateEventRequest struct {
	ID     int64   `param:"id" json:"-" validate:"required,min=1"`
	League *string `json:"league" validate:"omitempty,min=1,max=100"`
	Venue  *string `json:"venue" validate:"omitempty,max=200"`
	Status *string `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE COMPLETED POSTPONED CANCELLED"`
}

func (r *UpdateEventRequest) Validate() error {
	return validate.Struct(r)
}

// Patch converts the request into a store patch. Validate must have passed.
func (r *UpdateEventRequest) Patch() EventPatch {
	patch := EventPatch{League: r.League, Venue: r.Venue}
	if r.Status != nil {
		s := EventStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

// CreatePredictionRequest is POST /api/predictions.
type CreatePredictionRequest struct {
	EventID         int64    `json:"event_id" validate:"required,min=1"`
	PredictionType  string   `json:"prediction_type" validate:"required,oneof=WINNER SCORE OVER_UNDER"`
	PredictedValue  string   `json:"predicted_value" validate:"required,max=500"`
	ConfidenceScore *float64 `json:"confidence_score" validate:"required,min=0,max=100"`
	Reasoning       string   `json:"reasoning" validate:"max=5000"`
	ModelVersion    string   `json:"model_version" validate:"required,max=100"`
}

func (r *CreatePredictionRequest) Validate() error {
	return validate.Struct(r)
}

func (r *CreatePredictionRequest) NewPrediction() NewPrediction {
	return NewPrediction{
		EventID:         r.EventID,
		PredictionType:  PredictionType(r.PredictionType),
		PredictedValue:  r.PredictedValue,
		ConfidenceScore: *r.ConfidenceScore,
		Reasoning:       r.Reasoning,
		ModelVersion:    r.ModelVersion,
	}
}

// UpdatePredictionRequest is PATCH /api/predictions/:id.
type UpdatePredictionRequest struct {
	ID              int64    `param:"id" json:"-" validate:"required,min=1"`
	PredictionType  *string  `json:"prediction_type" validate:"omitempty,oneof=WINNER SCORE OVER_UNDER"`
	PredictedValue  *string  `json:"predicted_value" validate:"omitempty,min=1,max=500"`
	ConfidenceScore *float64 `json:"confidence_score" validate:"omitempty,min=0,max=100"`
	Reasoning       *string  `json:"reasoning" validate:"omitempty,max=5000"`
	ModelVersion    *string  `json:"model_version" validate:"omitempty,min=1,max=100"`
}

func (r *UpdatePredictionRequest) Validate() error {
	return validate.Struct(r)
}

func (r *UpdatePredictionRequest) Patch() PredictionPatch {
	patch := PredictionPatch{
		PredictedValue:  r.PredictedValue,
		ConfidenceScore: r.ConfidenceScore,
		Reasoning:       r.Reasoning,
		ModelVersion:    r.ModelVersion,
	}
	if r.PredictionType != nil {
		t := PredictionType(*r.PredictionType)
		patch.PredictionType = &t
	}
	return patch
}

// ImportRequest is POST /api/imports. Records are loosely structured and
// decoded by the ingestion pipeline, not by the binder.
type ImportRequest struct {
	Events      []json.RawMessage `json:"events"`
	Predictions []json.RawMessage `json:"predictions"`
}

func (r *ImportRequest) Validate() error {
	if len(r.Events) == 0 && len(r.Predictions) == 0 {
		return validation.CustomValidationErrors{
			{Field: "events", Message: "at least one event or prediction record is required"},
		}
	}
	return nil
}
