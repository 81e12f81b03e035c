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

const eventColumns = `e.id, e.event_ref, e.sport, e.league, e.home_team, e.away_team,
	e.event_date, e.venue, e.status, e.is_archived, e.created_at, e.updated_at`

const eventReturning = `id, event_ref, sport, league, home_team, away_team,
	event_date, venue, status, is_archived, created_at, updated_at`

type EventRepository struct {
	pool           *pgxpool.Pool
	queryTimeout   time.Duration
	archiveTimeout time.Duration
}

func NewEventRepository(pool *pgxpool.Pool, queryTimeout, archiveTimeout time.Duration) *EventRepository {
	return &EventRepository{
		pool:           pool,
		queryTimeout:   queryTimeout,
		archiveTimeout: archiveTimeout,
	}
}

type insertedEvent struct {
	model.Event
	Inserted bool `db:"inserted"`
}

// CreateEvent inserts ev unless an event with the same event_ref exists, in
// which case the stored row is returned. created reports which happened.
//
// The insert and the read-back are one statement. If a concurrent insert
// commits between the statement snapshot and the conflict check, the
// statement returns nothing and the row is read again.
func (r *EventRepository) CreateEvent(ctx context.Context, ev model.NewEvent) (_ model.Event, created bool, _ error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	stmt := `
	WITH ins AS (
		INSERT INTO events (event_ref, sport, league, home_team, away_team, event_date, venue, status)
		VALUES (@event_ref, @sport, @league, @home_team, @away_team, @event_date, @venue, @status)
		ON CONFLICT (event_ref) DO NOTHING
		RETURNING ` + eventReturning + `, TRUE AS inserted
	)
	SELECT * FROM ins
	UNION ALL
	SELECT ` + eventReturning + `, FALSE AS inserted
	FROM events
	WHERE event_ref = @event_ref AND NOT EXISTS (SELECT 1 FROM ins)
	LIMIT 1`

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"event_ref":  ev.EventRef,
		"sport":      ev.Sport,
		"league":     ev.League,
		"home_team":  ev.HomeTeam,
		"away_team":  ev.AwayTeam,
		"event_date": ev.EventDate.UTC(),
		"venue":      ev.Venue,
		"status":     string(ev.Status),
	})
	if err != nil {
		return model.Event{}, false, fmt.Errorf("failed to execute create event query for event_ref=%s: %w", ev.EventRef, err)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[insertedEvent])
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.getEventBy(ctx, "e.event_ref = @event_ref", pgx.NamedArgs{"event_ref": ev.EventRef})
		return existing, false, err
	}
	if err != nil {
		return model.Event{}, false, fmt.Errorf("failed to collect row from table:events: %w", err)
	}

	return row.Event, row.Inserted, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.getEventBy(ctx, "e.id = @id", pgx.NamedArgs{"id": id})
}

func (r *EventRepository) GetEventByRef(ctx context.Context, ref string) (model.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	return r.getEventBy(ctx, "e.event_ref = @event_ref", pgx.NamedArgs{"event_ref": ref})
}

func (r *EventRepository) getEventBy(ctx context.Context, cond string, args pgx.NamedArgs) (model.Event, error) {
	stmt := `SELECT ` + eventColumns + ` FROM events e WHERE ` + cond

	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to execute get event query: %w", err)
	}

	event, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to collect row from table:events: %w", err)
	}

	return event, nil
}

// ListEvents returns one page of events matching filter and the total number
// of matches. Page and count are read from the same snapshot.
func (r *EventRepository) ListEvents(ctx context.Context, filter model.EventFilter, page model.PageRequest) ([]model.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	where := buildEventWhere(filter)
	countStmt := `SELECT COUNT(*) FROM events e` + where.String()
	listStmt := `SELECT ` + eventColumns + ` FROM events e` + where.String() +
		eventOrderBy(filter.When) + pageArgs(where.args, page)

	var (
		events []model.Event
		total  int64
	)

	err := pgx.BeginTxFunc(ctx, r.pool, readSnapshot, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, countStmt, where.args).Scan(&total); err != nil {
			return fmt.Errorf("failed to count events: %w", err)
		}

		rows, err := tx.Query(ctx, listStmt, where.args)
		if err != nil {
			return fmt.Errorf("failed to execute list events query: %w", err)
		}

		events, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Event])
		if err != nil {
			return fmt.Errorf("failed to collect rows from table:events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// UpdateEvent applies the non-nil fields of patch. An empty patch returns the
// current row unchanged.
func (r *EventRepository) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (model.Event, error) {
	if patch.Empty() {
		return r.GetEventByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	set := newSetClause()
	if patch.League != nil {
		set.set("league", *patch.League)
	}
	if patch.Venue != nil {
		set.set("venue", *patch.Venue)
	}
	if patch.Status != nil {
		set.set("status", string(*patch.Status))
	}
	set.args["id"] = id

	stmt := `UPDATE events SET ` + set.String() + ` WHERE id = @id RETURNING ` + eventReturning

	rows, err := r.pool.Query(ctx, stmt, set.args)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to execute update event query for event_id=%d: %w", id, err)
	}

	event, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Event])
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to collect row from table:events: %w", err)
	}

	return event, nil
}

// ArchiveOlderThan flags every unarchived event dated before cutoff and
// returns how many rows changed. It is a single UPDATE, so concurrent readers
// see each row either before or after the sweep.
func (r *EventRepository) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.archiveTimeout)
	defer cancel()

	stmt := `
	UPDATE events
	SET is_archived = TRUE
	WHERE is_archived = FALSE AND event_date < @cutoff`

	tag, err := r.pool.Exec(ctx, stmt, pgx.NamedArgs{"cutoff": cutoff.UTC()})
	if err != nil {
		return 0, fmt.Errorf("failed to archive events before %s: %w", cutoff.UTC().Format(time.RFC3339), err)
	}

	return tag.RowsAffected(), nil
}

// DeleteEvent removes the event and, by cascade, its predictions. It reports
// whether a row existed.
func (r *EventRepository) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete event_id=%d: %w", id, err)
	}

	return tag.RowsAffected() > 0, nil
}

// readSnapshot makes the count and the page of a listing agree.
var readSnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}
