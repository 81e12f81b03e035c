package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const predictionReturning = `id, event_id, prediction_type, predicted_value, confidence_score::float8 AS confidence_score,
	reasoning, model_version, created_at, updated_at`

const predictionColumns = `p.id, p.event_id, p.prediction_type, p.predicted_value, p.confidence_score::float8 AS confidence_score,
	p.reasoning, p.model_version, p.created_at, p.updated_at`

const predictionWithEventColumns = predictionColumns + `,
	e.sport, e.league, e.home_team, e.away_team, e.event_date, e.status, e.is_archived`

const predictionFrom = ` FROM predictions p JOIN events e ON e.id = p.event_id`

type PredictionRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewPredictionRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *PredictionRepository {
	return &PredictionRepository{
		pool:         pool,
		queryTimeout: queryTimeout,
	}
}

type insertedPrediction struct {
	model.Prediction
	Inserted bool `db:"inserted"`
}

// scanPredictionWithEvent reads a row selected with predictionWithEventColumns.
func scanPredictionWithEvent(row pgx.CollectableRow) (model.Prediction, error) {
	var (
		p  model.Prediction
		ev model.EventSummary
	)

	err := row.Scan(
		&p.ID, &p.EventID, &p.PredictionType, &p.PredictedValue, &p.ConfidenceScore,
		&p.Reasoning, &p.ModelVersion, &p.CreatedAt, &p.UpdatedAt,
		&ev.Sport, &ev.League, &ev.HomeTeam, &ev.AwayTeam, &ev.EventDate, &ev.Status, &ev.IsArchived,
	)
	if err != nil {
		return model.Prediction{}, err
	}

	p.Event = &ev
	return p, nil
}

// CreatePrediction inserts np unless the event already has a prediction, in
// which case the stored one is returned. created reports which happened.
func (r *PredictionRepository) CreatePrediction(ctx context.Context, np model.NewPrediction) (_ model.Prediction, created bool, _ error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	stmt := `
	WITH ins AS (
		INSERT INTO predictions (event_id, prediction_type, predicted_value, confidence_score, reasoning, model_version)
		VALUES (@event_id, @prediction_type, @predicted_value, @confidence_score, @reasoning, @model_version)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING ` + predictionReturning + `, TRUE AS inserted
	)
	SELECT * FROM ins
	UNION ALL
	SELECT ` + predictionReturning + `, FALSE AS inserted
	FROM predictions
	WHERE event_id = @event_id AND NOT EXISTS (SELECT 1 FROM ins)
	LIMIT 1`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"event_id":         np.EventID,
		"prediction_type":  string(np.PredictionType),
		"predicted_value":  np.PredictedValue,
		"confidence_score": np.ConfidenceScore,
		"reasoning":        np.Reasoning,
		"model_version":    np.ModelVersion,
	})
	if err != nil {
		return model.Prediction{}, false, fmt.Errorf("failed to execute create prediction query for event_id=%d: %w", np.EventID, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[insertedPrediction])
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.getPredictionBy(ctx, "p.event_id = @event_id", pgx.NamedArgs{"event_id": np.EventID})
		return existing, false, err
	}
	if err != nil {
		return model.Prediction{}, false, fmt.Errorf("failed to collect row from table:predictions: %w", err)
	}

	return row.Prediction, row.Inserted, nil
}

// GetPredictionByID returns the prediction with its event summary, archived or not.
func (r *PredictionRepository) GetPredictionByID(ctx context.Context, id int64) (model.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.getPredictionBy(ctx, "p.id = @id", pgx.NamedArgs{"id": id})
}

func (r *PredictionRepository) getPredictionBy(ctx context.Context, cond string, args pgx.NamedArgs) (model.Prediction, error) {
	stmt := `SELECT ` + predictionWithEventColumns + predictionFrom + ` WHERE ` + cond

	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to execute get prediction query: %w", err)
	}

	prediction, err := pgx.CollectOneRow(rows, scanPredictionWithEvent)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to collect row from table:predictions: %w", err)
	}

	return prediction, nil
}

// ListPredictions returns one page of predictions matching filter and the
// total number of matches, read from the same snapshot.
func (r *PredictionRepository) ListPredictions(ctx context.Context, filter model.PredictionFilter, page model.PageRequest) ([]model.Prediction, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	where := buildPredictionWhere(filter)
	countStmt := `SELECT COUNT(*)` + predictionFrom + where.String()
	listStmt := `SELECT ` + predictionWithEventColumns + predictionFrom + where.String() +
		predictionOrderBy + pageArgs(where.args, page)

	var (
		predictions []model.Prediction
		total       int64
	)

	err := pgx.BeginTxFunc(ctx, r.pool, readSnapshot, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countStmt, where.args).Scan(&total); err != nil {
			return fmt.Errorf("failed to count predictions: %w", err)
		}

		rows, err := tx.Query(ctx, listStmt, where.args)
		if err != nil {
			return fmt.Errorf("failed to execute list predictions query: %w", err)
		}

		predictions, err = pgx.CollectRows(rows, scanPredictionWithEvent)
		if err != nil {
			return fmt.Errorf("failed to collect rows from table:predictions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return predictions, total, nil
}

// LatestForEvents returns, per event id, the most recent prediction of every
// unarchived event in eventIDs. Events without one are absent from the map.
func (r *PredictionRepository) LatestForEvents(ctx context.Context, eventIDs []int64) (map[int64]model.Prediction, error) {
	latest := make(map[int64]model.Prediction, len(eventIDs))
	if len(eventIDs) == 0 {
		return latest, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	stmt := `
	SELECT DISTINCT ON (p.event_id) ` + predictionColumns + predictionFrom + `
	WHERE p.event_id = ANY(@event_ids) AND e.is_archived = FALSE
	ORDER BY p.event_id, p.created_at DESC, p.id DESC`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{"event_ids": eventIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to execute latest predictions query: %w", err)
	}

	predictions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Prediction])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:predictions: %w", err)
	}

	for _, p := range predictions {
		latest[p.EventID] = p
	}
	return latest, nil
}

// UpdatePrediction applies the non-nil fields of patch. An empty patch returns
// the current row unchanged.
func (r *PredictionRepository) UpdatePrediction(ctx context.Context, id int64, patch model.PredictionPatch) (model.Prediction, error) {
	if patch.Empty() {
		return r.GetPredictionByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	set := newSetClause()
	if patch.PredictionType != nil {
		set.set("prediction_type", string(*patch.PredictionType))
	}
	if patch.PredictedValue != nil {
		set.set("predicted_value", *patch.PredictedValue)
	}
	if patch.ConfidenceScore != nil {
		set.set("confidence_score", *patch.ConfidenceScore)
	}
	if patch.Reasoning != nil {
		set.set("reasoning", *patch.Reasoning)
	}
	if patch.ModelVersion != nil {
		set.set("model_version", *patch.ModelVersion)
	}
	set.args["id"] = id

	stmt := `UPDATE predictions SET ` + set.String() + ` WHERE id = @id RETURNING ` + predictionReturning

	rows, err := r.pool.Query(ctx, stmt, set.args)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to execute update prediction query for prediction_id=%d: %w", id, err)
	}

	prediction, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Prediction])
	if err != nil {
		return model.Prediction{}, fmt.Errorf("failed to collect row from table:predictions: %w", err)
	}

	return prediction, nil
}

func (r *PredictionRepository) DeletePrediction(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM predictions WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete prediction_id=%d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}
