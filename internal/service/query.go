package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/model"
)

// fieldErrors collects query problems so a request reports all of them at
// once.
type fieldErrors []errs.FieldError

func (f *fieldErrors) add(field, msg string) {
	*f = append(*f, errs.FieldError{Field: field, Error: msg})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return errs.NewFieldValidationError(f...)
}

// parsePage applies the defaults and clamps limit to model.MaxLimit. Values
// that are not positive integers are rejected rather than defaulted.
func parsePage(rawPage, rawLimit string, fe *fieldErrors) model.PageRequest {
	page := model.PageRequest{Page: model.DefaultPage, Limit: model.DefaultLimit}

	if n, ok := positiveInt(rawPage); !ok {
		fe.add("page", "must be a positive integer")
	} else if n > 0 {
		page.Page = n
	}

	if n, ok := positiveInt(rawLimit); !ok {
		fe.add("limit", "must be a positive integer")
	} else if n > 0 {
		page.Limit = min(n, model.MaxLimit)
	}

	return page
}

// positiveInt returns 0, true for empty input.
func positiveInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// parseDateRange reads startDate/endDate. Both accept RFC 3339 or a bare
// YYYY-MM-DD; a bare endDate covers the whole UTC day.
func parseDateRange(rawStart, rawEnd string, fe *fieldErrors) model.DateRange {
	var dates model.DateRange

	if rawStart = strings.TrimSpace(rawStart); rawStart != "" {
		if t, ok := parseInstant(rawStart, false); ok {
			dates.From = &t
		} else {
			fe.add("startDate", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
	}

	if rawEnd = strings.TrimSpace(rawEnd); rawEnd != "" {
		if t, ok := parseInstant(rawEnd, true); ok {
			dates.To = &t
		} else {
			fe.add("endDate", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		}
	}

	if dates.From != nil && dates.To != nil && dates.From.After(*dates.To) {
		fe.add("endDate", "must not be before startDate")
	}

	return dates
}

func parseInstant(raw string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if endOfDay {
			// timestamptz has microsecond precision
			t = t.Add(24*time.Hour - time.Microsecond)
		}
		return t, true
	}
	return time.Time{}, false
}

// parseBool accepts what strconv.ParseBool accepts. Empty is false.
func parseBool(raw string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(raw))
	return b
}

func parseConfidence(raw string, fe *fieldErrors) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || !model.ConfidenceInRange(v) {
		fe.add("minConfidence", "must be a number between 0 and 100")
		return nil
	}
	return &v
}
