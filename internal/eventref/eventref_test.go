package eventref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownVectors(t *testing.T) {
	tests := []struct {
		name  string
		sport string
		home  string
		away  string
		date  time.Time
		want  string
	}{
		{
			name:  "football",
			sport: "Football",
			home:  "Manchester United",
			away:  "Liverpool",
			date:  time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC),
			want:  "a89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788",
		},
		{
			name:  "basketball",
			sport: "Basketball",
			home:  "Lakers",
			away:  "Celtics",
			date:  time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC),
			want:  "8e16c98d2ee938ea34394ef3afed93a4be54af9f0b9a924fe428fc1f31f2013f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.sport, tt.home, tt.away, tt.date)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, Length)
			assert.True(t, Valid(got))
		})
	}
}

func TestCompute_NormalizesToUTC(t *testing.T) {
	utc := time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)
	cet := utc.In(time.FixedZone("CET", 3600))

	assert.Equal(t,
		Compute("Football", "Manchester United", "Liverpool", utc),
		Compute("Football", "Manchester United", "Liverpool", cet),
	)
}

func TestCompute_TeamOrderMatters(t *testing.T) {
	date := time.Date(2026, 1, 15, 15, 0, 0, 0, time.UTC)

	assert.NotEqual(t,
		Compute("Football", "Manchester United", "Liverpool", date),
		Compute("Football", "Liverpool", "Manchester United", date),
	)
}

func TestFromISO(t *testing.T) {
	want := "a89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788"

	for _, in := range []string{
		"2026-01-15T15:00:00Z",
		"2026-01-15T15:00:00.000Z",
		"2026-01-15T16:00:00+01:00",
		"2026-01-15T15:00:00",
	} {
		got, err := FromISO("Football", "Manchester United", "Liverpool", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFromISO_InvalidDate(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2026-13-45", "15/01/2026"} {
		_, err := FromISO("Football", "A", "B", in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrInvalidDate)
	}
}

func TestParseDate_DateOnly(t *testing.T) {
	got, err := ParseDate("2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("ABC"))
	assert.False(t, Valid("A89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788"))
	assert.True(t, Valid("a89410892eb2d90b1f2aaaf58bece39f8584877e7259de793e54327a956e8788"))
}
