// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"testing"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/stretchr/testify/assert"
)

func row(id int64) rsvp.Reservation {
	return rsvp.Reservation{ID: id}
}

func TestComputePagerFirstPageNoCursor(t *testing.T) {
	f := rsvp.ReservationFilter{PageSize: 2}
	rows := []rsvp.Reservation{row(1), row(2), row(3)}

	pager, page := computePager(f, rows)

	assert.Nil(t, pager.Prev)
	assert.NotNil(t, pager.Next)
	assert.Equal(t, int64(2), *pager.Next)
	assert.Equal(t, []rsvp.Reservation{row(1), row(2)}, page)
}

func TestComputePagerLastPageNoCursor(t *testing.T) {
	f := rsvp.ReservationFilter{PageSize: 2}
	rows := []rsvp.Reservation{row(1), row(2)}

	pager, page := computePager(f, rows)

	assert.Nil(t, pager.Prev)
	assert.Nil(t, pager.Next)
	assert.Equal(t, []rsvp.Reservation{row(1), row(2)}, page)
}

func TestComputePagerMiddlePageWithCursor(t *testing.T) {
	cursor := int64(2)
	f := rsvp.ReservationFilter{PageSize: 2, Cursor: &cursor}
	rows := []rsvp.Reservation{row(2), row(3), row(4), row(5)}

	pager, page := computePager(f, rows)

	assert.NotNil(t, pager.Prev)
	assert.Equal(t, int64(2), *pager.Prev)
	assert.NotNil(t, pager.Next)
	assert.Equal(t, int64(4), *pager.Next)
	assert.Equal(t, []rsvp.Reservation{row(3), row(4)}, page)
}

func TestComputePagerCursorMatchesNoRowsAfter(t *testing.T) {
	cursor := int64(5)
	f := rsvp.ReservationFilter{PageSize: 2, Cursor: &cursor}
	rows := []rsvp.Reservation{row(5)}

	pager, page := computePager(f, rows)

	assert.NotNil(t, pager.Prev)
	assert.Equal(t, int64(5), *pager.Prev)
	assert.Nil(t, pager.Next)
	assert.Empty(t, page)
}

func TestComputePagerTotalNeverPopulated(t *testing.T) {
	f := rsvp.ReservationFilter{PageSize: 2}
	pager, _ := computePager(f, []rsvp.Reservation{row(1)})
	assert.Nil(t, pager.Total)
}
