// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package rpcapi

import (
	"testing"
	"time"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/stretchr/testify/assert"
)

func TestFromDomainRoundTrip(t *testing.T) {
	start := time.Date(2022, 12, 25, 22, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 28, 19, 0, 0, 0, time.UTC)
	r := rsvp.Reservation{
		ID:         42,
		UserID:     "user_id_1",
		ResourceID: "ocean-view-room-713",
		Timespan:   rsvp.Timespan{Start: start, End: end},
		Status:     rsvp.StatusConfirmed,
		Note:       "hello",
	}

	wire := FromDomain(r)
	assert.Equal(t, int64(42), wire.ID)
	assert.Equal(t, StatusConfirmed, wire.Status)
	assert.Equal(t, start, wire.Start)
}

func TestQueryRequestToDomainUnboundedWindow(t *testing.T) {
	req := QueryRequest{UserID: "u", PageSize: 10}
	q := req.ToDomain()
	assert.Nil(t, q.Start)
}

func TestQueryRequestToDomainBoundedWindow(t *testing.T) {
	start := time.Date(2022, 12, 25, 22, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 28, 19, 0, 0, 0, time.UTC)
	req := QueryRequest{Start: start, End: end}
	q := req.ToDomain()
	if assert.NotNil(t, q.Start) {
		assert.Equal(t, start, q.Start.Start)
		assert.Equal(t, end, q.Start.End)
	}
}

func TestFilterRequestToDomain(t *testing.T) {
	cursor := int64(7)
	req := FilterRequest{UserID: "u", Cursor: &cursor, Status: StatusPending}
	f := req.ToDomain()
	assert.Equal(t, rsvp.StatusPending, f.Status)
	assert.Equal(t, &cursor, f.Cursor)
}

func TestFromDomainEvent(t *testing.T) {
	ev := rsvp.ReservationEvent{
		Kind:        rsvp.UpdateCreate,
		Reservation: rsvp.Reservation{ID: 1, UserID: "u", ResourceID: "r"},
	}
	resp := FromDomainEvent(ev)
	assert.Equal(t, UpdateTypeCreate, resp.UpdateType)
	assert.Equal(t, int64(1), resp.Reservation.ID)
}
