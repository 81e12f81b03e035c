package repository

import (
	"strings"

	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/jackc/pgx/v5"
)

// whereClause accumulates AND-ed conditions and their named arguments.
type whereClause struct {
	conds []string
	args  pgx.NamedArgs
}

func newWhereClause() *whereClause {
	return &whereClause{args: pgx.NamedArgs{}}
}

func (w *whereClause) add(cond string, args pgx.NamedArgs) {
	w.conds = append(w.conds, cond)
	for k, v := range args {
		w.args[k] = v
	}
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// addEventConditions adds the predicates shared by event and prediction
// listings. Both queries alias events as "e".
func (w *whereClause) addEventConditions(sport, league, team string, dates model.DateRange, includeArchived bool) {
	if !includeArchived {
		w.add("e.is_archived = FALSE", nil)
	}
	if sport != "" {
		w.add("e.sport = @sport", pgx.NamedArgs{"sport": sport})
	}
	if league != "" {
		w.add("e.league = @league", pgx.NamedArgs{"league": league})
	}
	if team != "" {
		w.add("(e.home_team ILIKE @team OR e.away_team ILIKE @team)",
			pgx.NamedArgs{"team": "%" + escapeLike(team) + "%"})
	}
	if dates.From != nil {
		w.add("e.event_date >= @start_date", pgx.NamedArgs{"start_date": dates.From.UTC()})
	}
	if dates.To != nil {
		w.add("e.event_date <= @end_date", pgx.NamedArgs{"end_date": dates.To.UTC()})
	}
}

func buildEventWhere(filter model.EventFilter) *whereClause {
	w := newWhereClause()
	w.addEventConditions(filter.Sport, filter.League, filter.Team, filter.Dates, filter.IncludeArchived)

	if filter.Status != nil {
		w.add("e.status = @status", pgx.NamedArgs{"status": string(*filter.Status)})
	}

	switch filter.When {
	case model.WhenUpcoming:
		w.add("e.event_date >= @now", pgx.NamedArgs{"now": filter.Now.UTC()})
	case model.WhenPast:
		w.add("e.event_date < @now", pgx.NamedArgs{"now": filter.Now.UTC()})
	case model.WhenAll:
	}

	return w
}

// eventOrderBy puts the soonest upcoming event first for the upcoming bucket
// and the most recent event first otherwise. id breaks ties so pages are stable.
func eventOrderBy(when model.TemporalBucket) string {
	switch when {
	case model.WhenUpcoming:
		return " ORDER BY e.event_date ASC, e.created_at DESC, e.id DESC"
	case model.WhenPast, model.WhenAll:
		return " ORDER BY e.event_date DESC, e.created_at DESC, e.id DESC"
	}
	return " ORDER BY e.event_date DESC, e.created_at DESC, e.id DESC"
}

func buildPredictionWhere(filter model.PredictionFilter) *whereClause {
	w := newWhereClause()
	w.addEventConditions(filter.Sport, filter.League, filter.Team, filter.Dates, filter.IncludeArchived)

	if filter.PredictionType != nil {
		w.add("p.prediction_type = @prediction_type",
			pgx.NamedArgs{"prediction_type": string(*filter.PredictionType)})
	}
	if filter.MinConfidence != nil {
		w.add("p.confidence_score >= @min_confidence",
			pgx.NamedArgs{"min_confidence": *filter.MinConfidence})
	}

	return w
}

const predictionOrderBy = " ORDER BY e.event_date DESC, p.created_at DESC, p.id DESC"

// pageArgs returns the LIMIT/OFFSET clause and adds its arguments to args.
func pageArgs(args pgx.NamedArgs, page model.PageRequest) string {
	args["limit"] = page.Limit
	args["offset"] = page.Offset()
	return " LIMIT @limit OFFSET @offset"
}

// setClause accumulates the assignments of a partial update.
type setClause struct {
	sets []string
	args pgx.NamedArgs
}

func newSetClause() *setClause {
	return &setClause{args: pgx.NamedArgs{}}
}

func (s *setClause) set(column string, value any) {
	s.sets = append(s.sets, column+" = @"+column)
	s.args[column] = value
}

func (s *setClause) empty() bool {
	return len(s.sets) == 0
}

func (s *setClause) String() string {
	return strings.Join(s.sets, ", ")
}
