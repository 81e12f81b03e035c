// Package eventref derives the content-addressed identifier of an event.
//
// The reference is the lowercase hex SHA-256 of
// "sport|homeTeam|awayTeam|isoTimestamp", where isoTimestamp is the event
// instant in UTC with millisecond precision. The same fixture always hashes
// to the same reference, which makes event creation idempotent.
package eventref

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Length is the number of hex characters in a reference.
const Length = sha256.Size * 2

// TimestampLayout is the canonical form of the event date inside the hash input.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidDate is returned when an event date cannot be parsed into an instant.
var ErrInvalidDate = errors.New("invalid event date")

// Compute returns the reference for the given fixture.
func Compute(sport, homeTeam, awayTeam string, eventDate time.Time) string {
	input := strings.Join([]string{
		sport,
		homeTeam,
		awayTeam,
		eventDate.UTC().Format(TimestampLayout),
	}, "|")

	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// FromISO is Compute for a date given as text. It accepts RFC 3339 with or
// without fractional seconds.
func FromISO(sport, homeTeam, awayTeam, eventDate string) (string, error) {
	t, err := ParseDate(eventDate)
	if err != nil {
		return "", err
	}
	return Compute(sport, homeTeam, awayTeam, t), nil
}

// ParseDate parses an event date. Accepted layouts, in order: RFC 3339
// (with optional fractional seconds), a zone-less "2006-01-02T15:04:05"
// read as UTC, and a bare "2006-01-02" read as UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Valid reports whether ref has the shape of a reference.
func Valid(ref string) bool {
	if len(ref) != Length {
		return false
	}
	for _, r := range ref {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f') {
			return false
		}
	}
	return true
}
