// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package rsvpsql

import (
	"testing"
	"time"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileQueryUnboundedWindowAndAnyStatus(t *testing.T) {
	q := &rsvp.ReservationQuery{PageSize: 10}
	stmt := CompileQuery(q, nil)

	require.Len(t, stmt.Args, 7)
	assert.Nil(t, stmt.Args[0])
	assert.Nil(t, stmt.Args[1])
	assert.Equal(t, "(,)", stmt.Args[2])
	assert.Nil(t, stmt.Args[3])
	assert.Contains(t, stmt.SQL, "rsvp.query")
}

func TestCompileQueryBoundedWindowAndStatus(t *testing.T) {
	start := time.Date(2022, 12, 25, 22, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 28, 19, 0, 0, 0, time.UTC)
	q := &rsvp.ReservationQuery{
		UserID:     "user_id_1",
		ResourceID: "ocean-view-room-713",
		Status:     rsvp.StatusPending,
		Start:      &rsvp.Timespan{Start: start, End: end},
		PageSize:   10,
	}
	stmt := CompileQuery(q, nil)

	assert.Equal(t, "user_id_1", stmt.Args[0])
	assert.Equal(t, "ocean-view-room-713", stmt.Args[1])
	assert.Equal(t, "[2022-12-25T22:00:00Z,2022-12-28T19:00:00Z)", stmt.Args[2])
	assert.Equal(t, "pending", stmt.Args[3])
}

func TestCompileFilterNoCursor(t *testing.T) {
	f := &rsvp.ReservationFilter{UserID: "filter_user_id", PageSize: 10}
	stmt := CompileFilter(f, 11, nil)

	require.Len(t, stmt.Args, 6)
	assert.Equal(t, "filter_user_id", stmt.Args[0])
	assert.Nil(t, stmt.Args[1])
	assert.Nil(t, stmt.Args[2])
	assert.Nil(t, stmt.Args[3])
	assert.Equal(t, 11, stmt.Args[5])
}

func TestCompileFilterWithCursor(t *testing.T) {
	cursor := int64(42)
	f := &rsvp.ReservationFilter{Cursor: &cursor, PageSize: 10}
	stmt := CompileFilter(f, 12, nil)

	assert.Equal(t, int64(42), stmt.Args[3])
	assert.Equal(t, 12, stmt.Args[5])
}
