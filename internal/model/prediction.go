package model

import "time"

const (
	MinConfidence = 0.0
	MaxConfidence = 100.0
)

// Prediction is a model's forecast for one event. An event owns at most one
// prediction; deleting the event deletes it.
type Prediction struct {
	ID              int64          `json:"id" db:"id"`
	EventID         int64          `json:"event_id" db:"event_id"`
	PredictionType  PredictionType `json:"prediction_type" db:"prediction_type"`
	PredictedValue  string         `json:"predicted_value" db:"predicted_value"`
	ConfidenceScore float64        `json:"confidence_score" db:"confidence_score"`
	Reasoning       string         `json:"reasoning" db:"reasoning"`
	ModelVersion    string         `json:"model_version" db:"model_version"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`

	// Event is populated by list and detail reads that join the owning event.
	Event *EventSummary `json:"event,omitempty" db:"-"`
}

type NewPrediction struct {
	EventID         int64
	PredictionType  PredictionType
	PredictedValue  string
	ConfidenceScore float64
	Reasoning       string
	ModelVersion    string
}

type PredictionPatch struct {
	PredictionType  *PredictionType
	PredictedValue  *string
	ConfidenceScore *float64
	Reasoning       *string
	ModelVersion    *string
}

func (p PredictionPatch) Empty() bool {
	return p.PredictionType == nil &&
		p.PredictedValue == nil &&
		p.ConfidenceScore == nil &&
		p.Reasoning == nil &&
		p.ModelVersion == nil
}

// ConfidenceInRange reports whether score lies in [MinConfidence, MaxConfidence].
// NaN is out of range.
func ConfidenceInRange(score float64) bool {
	return score >= MinConfidence && score <= MaxConfidence
}
