package model

import (
	"fmt"
	"strings"
)

// EventStatus is the lifecycle state of an event.
//
// The set is closed: only the constants below are valid, and every switch
// over an EventStatus lists all of them.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusLive      EventStatus = "LIVE"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusPostponed EventStatus = "POSTPONED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// EventStatuses lists every valid EventStatus in declaration order.
var EventStatuses = []EventStatus{
	EventStatusScheduled,
	EventStatusLive,
	EventStatusCompleted,
	EventStatusPostponed,
	EventStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusScheduled, EventStatusLive, EventStatusCompleted, EventStatusPostponed, EventStatusCancelled:
		return true
	}
	return false
}

// ParseEventStatus converts raw input into an EventStatus.
// Matching ignores case and surrounding whitespace.
func ParseEventStatus(raw string) (EventStatus, error) {
	s := EventStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown event status %q (must be one of: %s)", raw, joinValues(EventStatuses))
	}
	return s, nil
}

// PredictionType is the kind of outcome a prediction describes.
type PredictionType string

const (
	PredictionTypeWinner    PredictionType = "WINNER"
	PredictionTypeScore     PredictionType = "SCORE"
	PredictionTypeOverUnder PredictionType = "OVER_UNDER"
)

// PredictionTypes lists every valid PredictionType in declaration order.
var PredictionTypes = []PredictionType{
	PredictionTypeWinner,
	PredictionTypeScore,
	PredictionTypeOverUnder,
}

// Valid reports whether t is one of the known prediction types.
func (t PredictionType) Valid() bool {
	switch t {
	case PredictionTypeWinner, PredictionTypeScore, PredictionTypeOverUnder:
		return true
	}
	return false
}

// ParsePredictionType converts raw input into a PredictionType.
func ParsePredictionType(raw string) (PredictionType, error) {
	t := PredictionType(strings.ToUpper(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown prediction type %q (must be one of: %s)", raw, joinValues(PredictionTypes))
	}
	return t, nil
}

// TemporalBucket partitions events relative to the current instant.
type TemporalBucket string

const (
	WhenUpcoming TemporalBucket = "upcoming"
	WhenPast     TemporalBucket = "past"
	WhenAll      TemporalBucket = "all"
)

// TemporalBuckets lists every valid TemporalBucket.
var TemporalBuckets = []TemporalBucket{WhenUpcoming, WhenPast, WhenAll}

func (w TemporalBucket) Valid() bool {
	switch w {
	case WhenUpcoming, WhenPast, WhenAll:
		return true
	}
	return false
}

// ParseTemporalBucket converts raw input into a TemporalBucket.
// Empty input means WhenAll.
func ParseTemporalBucket(raw string) (TemporalBucket, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return WhenAll, nil
	}
	w := TemporalBucket(trimmed)
	if !w.Valid() {
		return "", fmt.Errorf("unknown when value %q (must be one of: %s)", raw, joinValues(TemporalBuckets))
	}
	return w, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
