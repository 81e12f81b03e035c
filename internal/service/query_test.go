package service

import (
	"testing"
	"time"

	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		want      model.PageRequest
		badFields []string
	}{
		{name: "defaults", want: model.PageRequest{Page: 1, Limit: 20}},
		{name: "explicit", page: "3", limit: "5", want: model.PageRequest{Page: 3, Limit: 5}},
		{name: "limit clamped", limit: "500", want: model.PageRequest{Page: 1, Limit: 100}},
		{name: "zero page", page: "0", want: model.PageRequest{Page: 1, Limit: 20}, badFields: []string{"page"}},
		{name: "negative limit", limit: "-5", want: model.PageRequest{Page: 1, Limit: 20}, badFields: []string{"limit"}},
		{name: "not numbers", page: "two", limit: "1.5", want: model.PageRequest{Page: 1, Limit: 20}, badFields: []string{"page", "limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fe fieldErrors
			got := parsePage(tt.page, tt.limit, &fe)
			assert.Equal(t, tt.want, got)

			var fields []string
			for _, e := range fe {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.badFields, fields)
		})
	}
}

func TestParseDateRange(t *testing.T) {
	var fe fieldErrors
	dates := parseDateRange("2026-01-01", "2026-01-31", &fe)
	require.Empty(t, fe)

	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *dates.From)
	assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999000, time.UTC), *dates.To)

	dates = parseDateRange("2026-01-15T16:00:00+01:00", "", &fe)
	require.Empty(t, fe)
	assert.Equal(t, time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC), *dates.From)
	assert.Nil(t, dates.To)
}

func TestParseDateRange_Errors(t *testing.T) {
	var fe fieldErrors
	parseDateRange("yesterday", "2026-02-30", &fe)
	require.Len(t, fe, 2)
	assert.Equal(t, "startDate", fe[0].Field)
	assert.Equal(t, "endDate", fe[1].Field)

	fe = nil
	parseDateRange("2026-02-01", "2026-01-01", &fe)
	require.Len(t, fe, 1)
	assert.Equal(t, "must not be before startDate", fe[0].Error)
}

func TestParseConfidence(t *testing.T) {
	var fe fieldErrors
	assert.Nil(t, parseConfidence("", &fe))
	assert.Equal(t, 70.0, *parseConfidence("70", &fe))
	assert.Equal(t, 0.0, *parseConfidence("0", &fe))
	require.Empty(t, fe)

	for _, raw := range []string{"150", "-1", "NaN", "high"} {
		fe = nil
		assert.Nil(t, parseConfidence(raw, &fe), raw)
		assert.Len(t, fe, 1, raw)
	}
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool(""))
	assert.False(t, parseBool("false"))
}
