package model

import (
	"encoding/json"
	"time"
)

// Event is a single fixture between two teams.
//
// EventRef is derived from (sport, home team, away team, event date) and is
// never updated after the row is created.
type Event struct {
	ID         int64       `json:"id" db:"id"`
	EventRef   string      `json:"event_ref" db:"event_ref"`
	Sport      string      `json:"sport" db:"sport"`
	League     string      `json:"league" db:"league"`
	HomeTeam   string      `json:"home_team" db:"home_team"`
	AwayTeam   string      `json:"away_team" db:"away_team"`
	EventDate  time.Time   `json:"event_date" db:"event_date"`
	Venue      *string     `json:"venue" db:"venue"`
	Status     EventStatus `json:"status" db:"status"`
	IsArchived bool        `json:"is_archived" db:"is_archived"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// NewEvent is the input to an event insert. EventRef must already be computed.
type NewEvent struct {
	EventRef  string
	Sport     string
	League    string
	HomeTeam  string
	AwayTeam  string
	EventDate time.Time
	Venue     *string
	Status    EventStatus
}

// EventPatch carries the fields a partial update may change. Nil means
// "leave as is". Identity fields are absent.
type EventPatch struct {
	League *string
	Venue  *string
	Status *EventStatus
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.League == nil && p.Venue == nil && p.Status == nil
}

// EventWithPrediction is an event as returned by the event endpoints.
//
// When Attached is set the latest non-archived prediction is written under
// "prediction", as null when there is none. Otherwise the key is absent.
type EventWithPrediction struct {
	Event
	Prediction *Prediction
	Attached   bool
}

func (e EventWithPrediction) MarshalJSON() ([]byte, error) {
	if !e.Attached {
		return json.Marshal(e.Event)
	}
	return json.Marshal(struct {
		Event
		Prediction *Prediction `json:"prediction"`
	}{e.Event, e.Prediction})
}

// EventSummary is the slice of an event shown next to a prediction.
type EventSummary struct {
	Sport      string      `json:"sport"`
	League     string      `json:"league"`
	HomeTeam   string      `json:"home_team"`
	AwayTeam   string      `json:"away_team"`
	EventDate  time.Time   `json:"event_date"`
	Status     EventStatus `json:"status"`
	IsArchived bool        `json:"is_archived"`
}
