package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/deppfellow/sportspredict/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventStatus(t *testing.T) {
	s, err := ParseEventStatus("  live ")
	require.NoError(t, err)
	assert.Equal(t, EventStatusLive, s)

	_, err = ParseEventStatus("FINISHED")
	assert.ErrorContains(t, err, "SCHEDULED, LIVE, COMPLETED, POSTPONED, CANCELLED")
}

func TestParsePredictionType(t *testing.T) {
	p, err := ParsePredictionType("over_under")
	require.NoError(t, err)
	assert.Equal(t, PredictionTypeOverUnder, p)

	_, err = ParsePredictionType("EXACT")
	assert.Error(t, err)
}

func TestParseTemporalBucket(t *testing.T) {
	w, err := ParseTemporalBucket("")
	require.NoError(t, err)
	assert.Equal(t, WhenAll, w)

	w, err = ParseTemporalBucket("Upcoming")
	require.NoError(t, err)
	assert.Equal(t, WhenUpcoming, w)

	_, err = ParseTemporalBucket("tomorrow")
	assert.Error(t, err)
}

func TestConfidenceInRange(t *testing.T) {
	assert.True(t, ConfidenceInRange(0))
	assert.True(t, ConfidenceInRange(100))
	assert.False(t, ConfidenceInRange(-0.01))
	assert.False(t, ConfidenceInRange(100.5))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total      int64
		limit      int
		totalPages int
	}{
		{total: 0, limit: 20, totalPages: 0},
		{total: 1, limit: 20, totalPages: 1},
		{total: 20, limit: 20, totalPages: 1},
		{total: 21, limit: 20, totalPages: 2},
		{total: 11, limit: 5, totalPages: 3},
	}

	for _, tt := range tests {
		p := NewPagination(PageRequest{Page: 1, Limit: tt.limit}, tt.total)
		assert.Equal(t, tt.totalPages, p.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
	}

	assert.Equal(t, 40, PageRequest{Page: 3, Limit: 20}.Offset())
}

func TestEventWithPrediction_MarshalJSON(t *testing.T) {
	event := Event{ID: 7, Sport: "Football", EventDate: time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)}

	plain, err := json.Marshal(EventWithPrediction{Event: event})
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "prediction")
	assert.Contains(t, string(plain), `"event_date":"2026-01-15T15:00:00Z"`)

	empty, err := json.Marshal(EventWithPrediction{Event: event, Attached: true})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"prediction":null`)

	withPrediction, err := json.Marshal(EventWithPrediction{
		Event:      event,
		Prediction: &Prediction{ID: 3, EventID: 7, PredictedValue: "Draw"},
		Attached:   true,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(withPrediction, &decoded))
	assert.Equal(t, float64(7), decoded["id"])
	assert.Equal(t, "Draw", decoded["prediction"].(map[string]any)["predicted_value"])
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, EventPatch{}.Empty())
	league := "Serie A"
	assert.False(t, EventPatch{League: &league}.Empty())
	assert.True(t, PredictionPatch{}.Empty())
}

func TestCreateEventRequest_Validate(t *testing.T) {
	date := time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)

	req := &CreateEventRequest{Sport: " Football ", League: "Premier League", HomeTeam: "Arsenal\t", AwayTeam: " Chelsea", EventDate: date}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Football", req.Sport)
	assert.Equal(t, "Arsenal", req.HomeTeam)
	assert.Equal(t, "Chelsea", req.AwayTeam)

	blank := &CreateEventRequest{Sport: "   ", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "Chelsea", EventDate: date}
	assert.Error(t, blank.Validate())

	same := &CreateEventRequest{Sport: "Football", League: "Premier League", HomeTeam: "Arsenal", AwayTeam: "arsenal ", EventDate: date}
	var custom validation.CustomValidationErrors
	require.ErrorAs(t, same.Validate(), &custom)
	assert.Equal(t, "away_team", custom[0].Field)
}
