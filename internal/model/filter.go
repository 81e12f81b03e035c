package model

import "time"

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest is a validated, 1-indexed page selection.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset is the number of ordered rows that precede this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the pagination block returned with every list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the pagination block for a page of a result set
// holding total matching rows. TotalPages is ceil(total / limit).
func NewPagination(req PageRequest, total int64) Pagination {
	totalPages := 0
	if req.Limit > 0 {
		totalPages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PaginatedResponse is the list envelope: {data, pagination}.
type PaginatedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// DataResponse is the detail envelope: {data}.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// DateRange bounds event_date inclusively. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// EventFilter is the strongly-typed form of an event list query.
// Zero values mean "no constraint", except When which must be set.
type EventFilter struct {
	Sport           string
	League          string
	Team            string
	Status          *EventStatus
	When            TemporalBucket
	Dates           DateRange
	IncludeArchived bool

	// Now is the instant the temporal bucket is evaluated against.
	Now time.Time
}

// PredictionFilter is the strongly-typed form of a prediction list query.
type PredictionFilter struct {
	Sport           string
	League          string
	Team            string
	PredictionType  *PredictionType
	MinConfidence   *float64
	Dates           DateRange
	IncludeArchived bool
}
