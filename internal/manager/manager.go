// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package manager implements the reservation engine's core operations:
// reserve / change_status / update_note / delete / get / query / filter,
// against a pooled database connection.
package manager

import (
	"context"
	"time"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/jontk/reservation/internal/rsvpsql"
	rsvperrors "github.com/jontk/reservation/pkg/errors"
	"github.com/jontk/reservation/pkg/logging"
	"github.com/jontk/reservation/pkg/metrics"
	"github.com/jontk/reservation/pkg/pool"
)

// queryChannelCapacity is the bounded channel capacity between the
// query producer task and the RPC stream.
const queryChannelCapacity = 128

// Manager is the reservation engine. It owns the connection pool; every
// operation borrows it for a single bounded round-trip, except Query,
// which spawns a background producer task per call.
type Manager struct {
	pool    *pool.DB
	logger  logging.Logger
	metrics metrics.Collector
	clock   func() time.Time
}

// New builds a Manager over the given pool. A nil logger or collector
// defaults to no-ops.
func New(db *pool.DB, logger logging.Logger, collector metrics.Collector) *Manager {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if collector == nil {
		collector = metrics.NewInMemoryCollector()
	}
	return &Manager{pool: db, logger: logger, metrics: collector, clock: time.Now}
}

// QueryResult is one item on a Query stream: either a Reservation or a
// terminal error.
type QueryResult struct {
	Reservation rsvp.Reservation
	Err         error
}

const scanColumns = "id, user_id, resource_id, lower(timespan), upper(timespan), status, note"

func scanReservation(scan func(dest ...any) error) (rsvp.Reservation, error) {
	var (
		r         rsvp.Reservation
		statusStr string
		start     time.Time
		end       time.Time
	)
	if err := scan(&r.ID, &r.UserID, &r.ResourceID, &start, &end, &statusStr, &r.Note); err != nil {
		return rsvp.Reservation{}, err
	}
	r.Timespan = rsvp.ToTimespan(start, end)
	r.Status = rsvp.ParseStatus(statusStr)
	return r, nil
}

// Reserve validates r, inserts it, and on success returns r with its
// assigned id and PENDING status. On a range-exclusion violation it
// returns CONFLICT_RESERVATION with the parsed conflict detail.
func (m *Manager) Reserve(ctx context.Context, r rsvp.Reservation) (rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("Reserve")
	logger := logging.LogOperation(m.logger, "Reserve", "user_id", r.UserID, "resource_id", r.ResourceID)

	defer func() { logging.LogDuration(logger, start, "Reserve") }()

	if err := r.Validate(); err != nil {
		m.metrics.RecordError("Reserve", err)
		return rsvp.Reservation{}, err
	}

	const q = `INSERT INTO rsvp.reservations (user_id, resource_id, timespan, status, note)
		VALUES ($1, $2, tstzrange($3, $4, '[)'), 'pending', $5)
		RETURNING id`

	var id int64
	err := m.pool.Conn().QueryRowContext(ctx, q, r.UserID, r.ResourceID, r.Timespan.Start, r.Timespan.End, r.Note).Scan(&id)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		logging.LogError(logger, wrapped, "Reserve")
		m.metrics.RecordError("Reserve", wrapped)
		return rsvp.Reservation{}, wrapped
	}

	r.ID = id
	r.Status = rsvp.StatusPending
	m.metrics.RecordResult("Reserve", 0, time.Since(start))
	return r, nil
}

// ChangeStatus confirms a PENDING reservation. Confirming anything
// other than a PENDING reservation (including a second confirm of the
// same id) returns NOT_FOUND and leaves state unchanged.
func (m *Manager) ChangeStatus(ctx context.Context, id int64) (rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("ChangeStatus")
	logger := logging.LogOperation(m.logger, "ChangeStatus", "id", id)
	defer func() { logging.LogDuration(logger, start, "ChangeStatus") }()

	if err := rsvp.ValidateID(id); err != nil {
		m.metrics.RecordError("ChangeStatus", err)
		return rsvp.Reservation{}, err
	}

	q := `UPDATE rsvp.reservations SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + scanColumns

	row := m.pool.Conn().QueryRowContext(ctx, q, id)
	r, err := scanReservation(row.Scan)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("ChangeStatus", wrapped)
		return rsvp.Reservation{}, wrapped
	}
	m.metrics.RecordResult("ChangeStatus", 0, time.Since(start))
	return r, nil
}

// UpdateNote updates a reservation's note by id. NOT_FOUND if id does
// not exist.
func (m *Manager) UpdateNote(ctx context.Context, id int64, note string) (rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("UpdateNote")
	logger := logging.LogOperation(m.logger, "UpdateNote", "id", id)
	defer func() { logging.LogDuration(logger, start, "UpdateNote") }()

	if err := rsvp.ValidateID(id); err != nil {
		m.metrics.RecordError("UpdateNote", err)
		return rsvp.Reservation{}, err
	}

	q := `UPDATE rsvp.reservations SET note = $2 WHERE id = $1 RETURNING ` + scanColumns
	row := m.pool.Conn().QueryRowContext(ctx, q, id, note)
	r, err := scanReservation(row.Scan)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("UpdateNote", wrapped)
		return rsvp.Reservation{}, wrapped
	}
	m.metrics.RecordResult("UpdateNote", 0, time.Since(start))
	return r, nil
}

// Delete removes a reservation by id, returning the row as it existed.
// NOT_FOUND if absent.
func (m *Manager) Delete(ctx context.Context, id int64) (rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("Delete")
	logger := logging.LogOperation(m.logger, "Delete", "id", id)
	defer func() { logging.LogDuration(logger, start, "Delete") }()

	if err := rsvp.ValidateID(id); err != nil {
		m.metrics.RecordError("Delete", err)
		return rsvp.Reservation{}, err
	}

	q := `DELETE FROM rsvp.reservations WHERE id = $1 RETURNING ` + scanColumns
	row := m.pool.Conn().QueryRowContext(ctx, q, id)
	r, err := scanReservation(row.Scan)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Delete", wrapped)
		return rsvp.Reservation{}, wrapped
	}
	m.metrics.RecordResult("Delete", 0, time.Since(start))
	return r, nil
}

// Get fetches a reservation by id. NOT_FOUND if absent.
func (m *Manager) Get(ctx context.Context, id int64) (rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("Get")
	logger := logging.LogOperation(m.logger, "Get", "id", id)
	defer func() { logging.LogDuration(logger, start, "Get") }()

	if err := rsvp.ValidateID(id); err != nil {
		m.metrics.RecordError("Get", err)
		return rsvp.Reservation{}, err
	}

	q := `SELECT ` + scanColumns + ` FROM rsvp.reservations WHERE id = $1`
	row := m.pool.Conn().QueryRowContext(ctx, q, id)
	r, err := scanReservation(row.Scan)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Get", wrapped)
		return rsvp.Reservation{}, wrapped
	}
	m.metrics.RecordResult("Get", 0, time.Since(start))
	return r, nil
}

// Query compiles q and returns a receive-only channel that will emit
// each matching reservation in the database's emission order, or a
// single error item followed by close on failure. The call itself does
// not block on the database: a producer task is spawned and the
// channel handle is returned immediately.
func (m *Manager) Query(ctx context.Context, q rsvp.ReservationQuery) (<-chan QueryResult, error) {
	start := m.clock()
	m.metrics.RecordCall("Query")
	if err := q.Validate(); err != nil {
		m.metrics.RecordError("Query", err)
		return nil, err
	}
	q.Normalize()

	stmt := rsvpsql.CompileQuery(&q, m.logger)
	ch := make(chan QueryResult, queryChannelCapacity)

	go m.produceQuery(ctx, stmt, ch, start)
	return ch, nil
}

// produceQuery runs until rows are exhausted, a scan/query error occurs,
// or the consumer stops reading, and always records the call's
// completion so ActiveCalls for "Query" never stays inflated.
func (m *Manager) produceQuery(ctx context.Context, stmt rsvpsql.Statement, ch chan<- QueryResult, start time.Time) {
	defer close(ch)

	rows, err := m.pool.Conn().QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Query", wrapped)
		m.sendOrExit(ctx, ch, QueryResult{Err: wrapped})
		return
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			wrapped := rsvperrors.FromDBError(err)
			m.metrics.RecordError("Query", wrapped)
			m.sendOrExit(ctx, ch, QueryResult{Err: wrapped})
			return
		}
		if !m.sendOrExit(ctx, ch, QueryResult{Reservation: r}) {
			m.metrics.RecordResult("Query", 0, time.Since(start))
			return
		}
	}
	if err := rows.Err(); err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Query", wrapped)
		m.sendOrExit(ctx, ch, QueryResult{Err: wrapped})
		return
	}
	m.metrics.RecordResult("Query", 0, time.Since(start))
}

// sendOrExit delivers item to ch, observing ctx cancellation: dropping
// the consumer's channel read (client disconnect) terminates this
// producer within one pending send.
func (m *Manager) sendOrExit(ctx context.Context, ch chan<- QueryResult, item QueryResult) bool {
	select {
	case ch <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

// Filter validates and normalizes f, fetches up to page_size + 2 rows
// (one lookahead sentinel per side), and computes the pager from the
// sentinel rows.
func (m *Manager) Filter(ctx context.Context, f rsvp.ReservationFilter) (rsvp.FilterPager, []rsvp.Reservation, error) {
	start := m.clock()
	m.metrics.RecordCall("Filter")
	if err := f.Validate(); err != nil {
		m.metrics.RecordError("Filter", err)
		return rsvp.FilterPager{}, nil, err
	}
	f.Normalize()

	fetchSize := f.PageSize + 1
	if f.Cursor != nil {
		fetchSize++
	}

	stmt := rsvpsql.CompileFilter(&f, fetchSize, m.logger)
	rows, err := m.pool.Conn().QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Filter", wrapped)
		return rsvp.FilterPager{}, nil, wrapped
	}
	defer rows.Close()

	var scanned []rsvp.Reservation
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			wrapped := rsvperrors.FromDBError(err)
			m.metrics.RecordError("Filter", wrapped)
			return rsvp.FilterPager{}, nil, wrapped
		}
		scanned = append(scanned, r)
	}
	if err := rows.Err(); err != nil {
		wrapped := rsvperrors.FromDBError(err)
		m.metrics.RecordError("Filter", wrapped)
		return rsvp.FilterPager{}, nil, wrapped
	}

	pager, page := computePager(f, scanned)
	m.metrics.RecordResult("Filter", 0, time.Since(start))
	return pager, page, nil
}

// computePager implements the sentinel trick: the
// stored function is asked for up to page_size+2 rows, and the result
// is trimmed from each side to detect prev/next without a COUNT query.
func computePager(f rsvp.ReservationFilter, rows []rsvp.Reservation) (rsvp.FilterPager, []rsvp.Reservation) {
	var pager rsvp.FilterPager

	if f.Cursor != nil && len(rows) > 0 && rows[0].ID == *f.Cursor {
		prevID := rows[0].ID
		pager.Prev = &prevID
		rows = rows[1:]
	}

	if len(rows) > f.PageSize {
		nextID := rows[f.PageSize-1].ID
		pager.Next = &nextID
		rows = rows[:f.PageSize]
	}

	return pager, rows
}

