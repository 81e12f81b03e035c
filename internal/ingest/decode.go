// Package ingest imports loosely structured event and prediction records.
//
// Each record is decoded into a canonical shape by trying the accepted field
// layouts in a fixed priority order. A record matching none of them, or
// missing a required field, becomes a RecordError; it is logged and skipped
// and never aborts the batch.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/sportspredict/internal/eventref"
	"github.com/deppfellow/sportspredict/internal/model"
)

// Record is one raw JSON object from a source. An array element that is not
// an object decodes to a nil Record, so the rest of the batch keeps its
// position and the element is rejected on its own.
type Record map[string]any

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			*r = nil
			return nil
		}
		return err
	}
	*r = Record(fields)
	return nil
}

// DecodeRecords unmarshals each raw element into a Record, keeping order.
func DecodeRecords(raw []json.RawMessage) []Record {
	records := make([]Record, len(raw))
	for i, msg := range raw {
		if err := json.Unmarshal(msg, &records[i]); err != nil {
			records[i] = nil
		}
	}
	return records
}

var (
	ErrUnrecognizedShape = errors.New("unrecognized shape: no home/away fields, participants list or event name")
	ErrNotObject         = errors.New("unrecognized shape: not a JSON object")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidField      = errors.New("invalid field")
)

// Field aliases, most specific first.
var (
	sportKeys       = []string{"sport", "sport_type", "sportType"}
	leagueKeys      = []string{"league", "competition", "tournament"}
	dateKeys        = []string{"event_date", "eventDate", "date", "start_time", "startTime", "commence_time"}
	venueKeys       = []string{"venue", "location"}
	statusKeys      = []string{"status"}
	homeKeys        = []string{"home_team", "homeTeam", "home"}
	awayKeys        = []string{"away_team", "awayTeam", "away"}
	participantKeys = []string{"participants", "teams"}
	eventNameKeys   = []string{"event_name", "eventName", "name", "title"}

	eventRefKeys   = []string{"event_ref", "eventRef", "event_reference"}
	eventIndexKeys = []string{"event_index", "eventIndex"}
	valueKeys      = []string{"predicted_value", "predicted_outcome", "predictedOutcome", "prediction", "outcome"}
	typeKeys       = []string{"prediction_type", "predictionType", "type"}
	confidenceKeys = []string{"confidence_score", "confidenceScore", "confidence"}
	reasoningKeys  = []string{"reasoning", "rationale", "explanation"}
	modelKeys      = []string{"model_version", "modelVersion", "model"}
)

const DefaultModelVersion = "unknown"

// EventInput is a decoded event record.
type EventInput struct {
	Ref       string
	Sport     string
	League    string
	HomeTeam  string
	AwayTeam  string
	EventDate time.Time
	Venue     *string
	Status    model.EventStatus
}

func (in EventInput) NewEvent() model.NewEvent {
	return model.NewEvent{
		EventRef:  in.Ref,
		Sport:     in.Sport,
		League:    in.League,
		HomeTeam:  in.HomeTeam,
		AwayTeam:  in.AwayTeam,
		EventDate: in.EventDate,
		Venue:     in.Venue,
		Status:    in.Status,
	}
}

// teamShape is one accepted layout for the two sides of a fixture. present
// is false when the record does not use this layout at all.
type teamShape struct {
	name    string
	resolve func(Record) (home, away string, present bool, err error)
}

var teamShapes = []teamShape{
	{name: "home/away fields", resolve: teamsFromHomeAway},
	{name: "participants list", resolve: teamsFromParticipants},
	{name: "event name", resolve: teamsFromEventName},
}

func teamsFromHomeAway(rec Record) (string, string, bool, error) {
	home, hasHome := firstString(rec, homeKeys)
	away, hasAway := firstString(rec, awayKeys)
	switch {
	case !hasHome && !hasAway:
		return "", "", false, nil
	case !hasHome:
		return "", "", true, fmt.Errorf("%w: home_team", ErrMissingField)
	case !hasAway:
		return "", "", true, fmt.Errorf("%w: away_team", ErrMissingField)
	}
	return home, away, true, nil
}

func teamsFromParticipants(rec Record) (string, string, bool, error) {
	raw, key, ok := first(rec, participantKeys)
	if !ok {
		return "", "", false, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return "", "", true, fmt.Errorf("%w: %s must be a list", ErrInvalidField, key)
	}

	names := make([]string, 0, len(list))
	for _, item := range list {
		if name := participantName(item); name != "" {
			names = append(names, name)
		}
	}
	if len(names) != 2 {
		return "", "", true, fmt.Errorf("%w: %s must name exactly two teams, got %d", ErrInvalidField, key, len(names))
	}
	return names[0], names[1], true, nil
}

// participantName accepts "Lakers" or {"name": "Lakers"}.
func participantName(item any) string {
	switch v := item.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if name, ok := firstString(Record(v), []string{"name", "team"}); ok {
			return name
		}
	}
	return ""
}

var versusPattern = regexp.MustCompile(`(?i)\s+(?:vs\.?|v\.?)\s+`)

func teamsFromEventName(rec Record) (string, string, bool, error) {
	name, ok := firstString(rec, eventNameKeys)
	if !ok {
		return "", "", false, nil
	}

	parts := versusPattern.Split(name, -1)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", true, fmt.Errorf("%w: event name %q is not of the form \"Home vs Away\"", ErrInvalidField, name)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true, nil
}

// DecodeEvent turns rec into an EventInput and computes its reference.
func DecodeEvent(rec Record) (EventInput, error) {
	if rec == nil {
		return EventInput{}, ErrNotObject
	}

	var in EventInput

	var matched bool
	for _, shape := range teamShapes {
		home, away, present, err := shape.resolve(rec)
		if !present {
			continue
		}
		if err != nil {
			return EventInput{}, fmt.Errorf("%s: %w", shape.name, err)
		}
		in.HomeTeam, in.AwayTeam = home, away
		matched = true
		break
	}
	if !matched {
		return EventInput{}, ErrUnrecognizedShape
	}
	if strings.EqualFold(in.HomeTeam, in.AwayTeam) {
		return EventInput{}, fmt.Errorf("%w: home_team and away_team must differ", ErrInvalidField)
	}

	sport, ok := firstString(rec, sportKeys)
	if !ok {
		return EventInput{}, fmt.Errorf("%w: sport", ErrMissingField)
	}
	in.Sport = sport

	rawDate, ok := firstString(rec, dateKeys)
	if !ok {
		return EventInput{}, fmt.Errorf("%w: event_date", ErrMissingField)
	}
	date, err := eventref.ParseDate(rawDate)
	if err != nil {
		return EventInput{}, err
	}
	in.EventDate = date

	in.League, _ = firstString(rec, leagueKeys)

	if venue, ok := firstString(rec, venueKeys); ok {
		in.Venue = &venue
	}

	in.Status = model.EventStatusScheduled
	if rawStatus, ok := firstString(rec, statusKeys); ok {
		status, err := model.ParseEventStatus(rawStatus)
		if err != nil {
			return EventInput{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		in.Status = status
	}

	in.Ref = eventref.Compute(in.Sport, in.HomeTeam, in.AwayTeam, in.EventDate)
	return in, nil
}

// PredictionInput is a decoded prediction record. Exactly one of EventRef and
// EventIndex identifies the owning event.
type PredictionInput struct {
	EventRef        string
	EventIndex      *int
	PredictionType  model.PredictionType
	PredictedValue  string
	ConfidenceScore float64
	Reasoning       string
	ModelVersion    string
}

func (in PredictionInput) NewPrediction(eventID int64) model.NewPrediction {
	return model.NewPrediction{
		EventID:         eventID,
		PredictionType:  in.PredictionType,
		PredictedValue:  in.PredictedValue,
		ConfidenceScore: in.ConfidenceScore,
		Reasoning:       in.Reasoning,
		ModelVersion:    in.ModelVersion,
	}
}

// DecodePrediction turns rec into a PredictionInput. An explicit event
// reference wins over a positional index.
func DecodePrediction(rec Record) (PredictionInput, error) {
	if rec == nil {
		return PredictionInput{}, ErrNotObject
	}

	var in PredictionInput

	if ref, ok := firstString(rec, eventRefKeys); ok {
		ref = strings.ToLower(ref)
		if !eventref.Valid(ref) {
			return PredictionInput{}, fmt.Errorf("%w: event_ref %q is not a %d character hex digest", ErrInvalidField, ref, eventref.Length)
		}
		in.EventRef = ref
	} else if raw, key, ok := first(rec, eventIndexKeys); ok {
		idx, err := toInt(raw)
		if err != nil || idx < 0 {
			return PredictionInput{}, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidField, key)
		}
		in.EventIndex = &idx
	} else {
		return PredictionInput{}, fmt.Errorf("%w: event_ref or event_index", ErrMissingField)
	}

	value, ok := firstString(rec, valueKeys)
	if !ok {
		return PredictionInput{}, fmt.Errorf("%w: predicted_value", ErrMissingField)
	}
	in.PredictedValue = value

	in.PredictionType = model.PredictionTypeWinner
	if rawType, ok := firstString(rec, typeKeys); ok {
		t, err := model.ParsePredictionType(rawType)
		if err != nil {
			return PredictionInput{}, fmt.Errorf("%w: %v", ErrInvalidField, err)
		}
		in.PredictionType = t
	}

	raw, key, ok := first(rec, confidenceKeys)
	if !ok {
		return PredictionInput{}, fmt.Errorf("%w: confidence_score", ErrMissingField)
	}
	score, err := toFloat(raw)
	if err != nil || !model.ConfidenceInRange(score) {
		return PredictionInput{}, fmt.Errorf("%w: %s must be a number between %g and %g", ErrInvalidField, key, model.MinConfidence, model.MaxConfidence)
	}
	in.ConfidenceScore = score

	in.Reasoning, _ = firstString(rec, reasoningKeys)

	in.ModelVersion = DefaultModelVersion
	if mv, ok := firstString(rec, modelKeys); ok {
		in.ModelVersion = mv
	}

	return in, nil
}

// first returns the value of the first key present with a non-null value.
func first(rec Record, keys []string) (any, string, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			return v, k, true
		}
	}
	return nil, "", false
}

// firstString is first restricted to non-blank strings. Numbers are accepted
// and formatted, so {"model": 2} reads as "2".
func firstString(rec Record, keys []string) (string, bool) {
	for _, k := range keys {
		switch v := rec[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return f, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer")
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}
