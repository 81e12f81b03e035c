package ingest

import (
	"testing"
	"time"

	"github.com/deppfellow/sportspredict/internal/eventref"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manUtdLiverpoolRef = "a89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788"

func TestDecodeEvent_Shapes(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{
			name: "explicit home and away",
			rec: Record{
				"sport": "Football", "league": "Premier League",
				"home_team": "Manchester United", "away_team": "Liverpool",
				"event_date": "2026-01-15T15:00:00Z",
			},
		},
		{
			name: "camel case aliases",
			rec: Record{
				"sportType": "Football", "competition": "Premier League",
				"homeTeam": "Manchester United", "awayTeam": "Liverpool",
				"startTime": "2026-01-15T15:00:00.000Z",
			},
		},
		{
			name: "participants list",
			rec: Record{
				"sport": "Football", "league": "Premier League",
				"participants": []any{"Manchester United", "Liverpool"},
				"date":         "2026-01-15T15:00:00Z",
			},
		},
		{
			name: "participant objects",
			rec: Record{
				"sport": "Football",
				"teams": []any{map[string]any{"name": "Manchester United"}, map[string]any{"name": "Liverpool"}},
				"date":  "2026-01-15T16:00:00+01:00",
			},
		},
		{
			name: "event name",
			rec: Record{
				"sport": "Football", "tournament": "Premier League",
				"event_name":    "Manchester United vs Liverpool",
				"commence_time": "2026-01-15T15:00:00Z",
			},
		},
		{
			name: "event name with v.",
			rec: Record{
				"sport": "Football",
				"title": "Manchester United v. Liverpool",
				"date":  "2026-01-15T15:00:00Z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := DecodeEvent(tt.rec)
			require.NoError(t, err)

			assert.Equal(t, "Manchester United", in.HomeTeam)
			assert.Equal(t, "Liverpool", in.AwayTeam)
			assert.Equal(t, time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC), in.EventDate)
			assert.Equal(t, manUtdLiverpoolRef, in.Ref)
			assert.Equal(t, model.EventStatusScheduled, in.Status)
		})
	}
}

func TestDecodeEvent_HomeAwayWinsOverEventName(t *testing.T) {
	in, err := DecodeEvent(Record{
		"sport":      "Football",
		"home":       "Arsenal",
		"away":       "Chelsea",
		"event_name": "Liverpool vs Everton",
		"date":       "2026-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", in.HomeTeam)
	assert.Equal(t, "Chelsea", in.AwayTeam)
}

func TestDecodeEvent_OptionalFields(t *testing.T) {
	in, err := DecodeEvent(Record{
		"sport": "Tennis", "home": "Alcaraz", "away": "Sinner",
		"date": "2026-07-12T14:00:00Z", "location": "Wimbledon", "status": "live",
	})
	require.NoError(t, err)

	require.NotNil(t, in.Venue)
	assert.Equal(t, "Wimbledon", *in.Venue)
	assert.Equal(t, model.EventStatusLive, in.Status)
	assert.Equal(t, "", in.League)
}

func TestDecodeEvent_Errors(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"not an object", nil, ErrNotObject},
		{"no team shape", Record{"sport": "Football", "date": "2026-01-15"}, ErrUnrecognizedShape},
		{"same teams", Record{"sport": "Football", "home_team": "Arsenal", "away_team": "Arsenal", "date": "2026-01-15"}, ErrInvalidField},
		{"same teams by name", Record{"sport": "Football", "event_name": "arsenal vs Arsenal", "date": "2026-01-15"}, ErrInvalidField},
		{"only home", Record{"sport": "Football", "home": "A", "date": "2026-01-15"}, ErrMissingField},
		{"three participants", Record{"sport": "Football", "participants": []any{"A", "B", "C"}, "date": "2026-01-15"}, ErrInvalidField},
		{"unsplittable name", Record{"sport": "Football", "name": "Grand Final", "date": "2026-01-15"}, ErrInvalidField},
		{"missing sport", Record{"home": "A", "away": "B", "date": "2026-01-15"}, ErrMissingField},
		{"missing date", Record{"sport": "Football", "home": "A", "away": "B"}, ErrMissingField},
		{"bad date", Record{"sport": "Football", "home": "A", "away": "B", "date": "soon"}, eventref.ErrInvalidDate},
		{"bad status", Record{"sport": "Football", "home": "A", "away": "B", "date": "2026-01-15", "status": "HALFTIME"}, ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent(tt.rec)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodePrediction(t *testing.T) {
	in, err := DecodePrediction(Record{
		"eventRef":          manUtdLiverpoolRef,
		"predicted_outcome": "Manchester United",
		"confidence":        72.5,
		"rationale":         "home form",
		"model":             "v2.1",
	})
	require.NoError(t, err)

	assert.Equal(t, manUtdLiverpoolRef, in.EventRef)
	assert.Nil(t, in.EventIndex)
	assert.Equal(t, "Manchester United", in.PredictedValue)
	assert.Equal(t, model.PredictionTypeWinner, in.PredictionType)
	assert.Equal(t, 72.5, in.ConfidenceScore)
	assert.Equal(t, "home form", in.Reasoning)
	assert.Equal(t, "v2.1", in.ModelVersion)
}

func TestDecodePrediction_IndexAndDefaults(t *testing.T) {
	in, err := DecodePrediction(Record{
		"event_index":      float64(2),
		"prediction":       "Over 2.5",
		"type":             "over_under",
		"confidence_score": "64",
	})
	require.NoError(t, err)

	require.NotNil(t, in.EventIndex)
	assert.Equal(t, 2, *in.EventIndex)
	assert.Equal(t, model.PredictionTypeOverUnder, in.PredictionType)
	assert.Equal(t, 64.0, in.ConfidenceScore)
	assert.Equal(t, DefaultModelVersion, in.ModelVersion)
}

func TestDecodePrediction_Errors(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"not an object", nil, ErrNotObject},
		{"no event link", Record{"outcome": "A", "confidence": 50.0}, ErrMissingField},
		{"short ref", Record{"event_ref": "abc", "outcome": "A", "confidence": 50.0}, ErrInvalidField},
		{"negative index", Record{"event_index": float64(-1), "outcome": "A", "confidence": 50.0}, ErrInvalidField},
		{"fractional index", Record{"event_index": 1.5, "outcome": "A", "confidence": 50.0}, ErrInvalidField},
		{"no value", Record{"event_index": float64(0), "confidence": 50.0}, ErrMissingField},
		{"no confidence", Record{"event_index": float64(0), "outcome": "A"}, ErrMissingField},
		{"confidence 150", Record{"event_index": float64(0), "outcome": "A", "confidence": 150.0}, ErrInvalidField},
		{"confidence text", Record{"event_index": float64(0), "outcome": "A", "confidence": "high"}, ErrInvalidField},
		{"bad type", Record{"event_index": float64(0), "outcome": "A", "confidence": 50.0, "type": "EXACT"}, ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePrediction(tt.rec)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
