package model

import "github.com/deppfellow/sportspredict/internal/validation"

var validate = validation.NewValidator()

// EventQuery carries the raw query string of GET /api/events.
//
// Values are kept as strings so the service layer can reject malformed input
// with a precise field error instead of the binder's generic one.
type EventQuery struct {
	Sport              string `query:"sport"`
	League             string `query:"league"`
	Team               string `query:"team"`
	StartDate          string `query:"startDate"`
	EndDate            string `query:"endDate"`
	Status             string `query:"status"`
	When               string `query:"when"`
	IncludePredictions string `query:"includePredictions" validate:"omitempty,boolean"`
	IncludeArchived    string `query:"includeArchived" validate:"omitempty,boolean"`
	Page               string `query:"page"`
	Limit              string `query:"limit"`
}

func (q *EventQuery) Validate() error {
	return validate.Struct(q)
}

// PredictionQuery carries the raw query string of GET /api/predictions.
type PredictionQuery struct {
	Sport           string `query:"sport"`
	League          string `query:"league"`
	Team            string `query:"team"`
	StartDate       string `query:"startDate"`
	EndDate         string `query:"endDate"`
	PredictionType  string `query:"predictionType"`
	MinConfidence   string `query:"minConfidence"`
	IncludeArchived string `query:"includeArchived" validate:"omitempty,boolean"`
	Page            string `query:"page"`
	Limit           string `query:"limit"`
}

func (q *PredictionQuery) Validate() error {
	return validate.Struct(q)
}

// GetEventRequest is GET /api/events/:id.
type GetEventRequest struct {
	ID                 int64  `param:"id" json:"-" validate:"required,min=1"`
	IncludePredictions string `query:"includePredictions" validate:"omitempty,boolean"`
}

func (r *GetEventRequest) Validate() error {
	return validate.Struct(r)
}

// IDRequest addresses a single row by its surrogate id.
type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *IDRequest) Validate() error {
	return validate.Struct(r)
}

// ArchiveRequest is POST /api/admin/archive. An empty RetentionDays uses the
// configured default.
type ArchiveRequest struct {
	RetentionDays string `query:"retentionDays" validate:"omitempty,number"`
}

func (r *ArchiveRequest) Validate() error {
	return validate.Struct(r)
}
