// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package rsvpsql compiles the typed ReservationQuery and
// ReservationFilter request objects into parameterized calls against
// the stored functions rsvp.query and rsvp.filter.
package rsvpsql

import (
	"fmt"
	"time"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/jontk/reservation/pkg/logging"
)

// Statement is a parameterized SQL call ready for database/sql.
type Statement struct {
	SQL  string
	Args []any
}

// CompileQuery builds the `SELECT * FROM rsvp.query(...)` call for a
// time-window query. logger may be nil; when set, the
// compiled call is logged at debug level without parameter values.
func CompileQuery(q *rsvp.ReservationQuery, logger logging.Logger) Statement {
	stmt := Statement{
		SQL: "SELECT id, user_id, resource_id, lower(timespan), upper(timespan), status, note " +
			"FROM rsvp.query($1, $2, $3::tstzrange, $4::rsvp.reservation_status, $5, $6, $7)",
		Args: []any{
			nullableString(q.UserID),
			nullableString(q.ResourceID),
			rangeLiteral(q.Start),
			nullableStatus(q.Status),
			q.Page,
			q.Desc,
			q.PageSize,
		},
	}
	logCompiled(logger, "rsvp.query")
	return stmt
}

// CompileFilter builds the `SELECT * FROM rsvp.filter(...)` call for a
// cursor-paged filter. fetchSize is the number of rows to actually
// request from the stored function — page_size inflated by the
// manager with lookahead sentinels on one or both sides, not the
// caller-visible page size.
func CompileFilter(f *rsvp.ReservationFilter, fetchSize int, logger logging.Logger) Statement {
	stmt := Statement{
		SQL: "SELECT id, user_id, resource_id, lower(timespan), upper(timespan), status, note " +
			"FROM rsvp.filter($1, $2, $3::rsvp.reservation_status, $4, $5, $6)",
		Args: []any{
			nullableString(f.UserID),
			nullableString(f.ResourceID),
			nullableStatus(f.Status),
			nullableCursor(f.Cursor),
			f.Desc,
			fetchSize,
		},
	}
	logCompiled(logger, "rsvp.filter")
	return stmt
}

func logCompiled(logger logging.Logger, fn string) {
	if logger == nil {
		return
	}
	logger.Debug("compiled stored-function call", "function", fn)
}

// nullableString renders an empty filter field as SQL NULL, meaning
// "any".
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullableStatus renders StatusUnknown as SQL NULL ("any"); any other
// status is rendered as its lowercase enum name.
func nullableStatus(s rsvp.Status) any {
	if s == rsvp.StatusUnknown {
		return nil
	}
	return s.String()
}

func nullableCursor(cursor *int64) any {
	if cursor == nil {
		return nil
	}
	return *cursor
}

// rangeLiteral renders a tstzrange text literal: a missing time window
// is passed as the fully unbounded range.
func rangeLiteral(ts *rsvp.Timespan) string {
	if ts == nil {
		return "(,)"
	}
	return fmt.Sprintf("[%s,%s)", ts.Start.UTC().Format(time.RFC3339Nano), ts.End.UTC().Format(time.RFC3339Nano))
}
