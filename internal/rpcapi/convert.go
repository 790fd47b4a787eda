// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package rpcapi

import "github.com/jontk/reservation/internal/rsvp"

func statusFromDomain(s rsvp.Status) Status {
	switch s {
	case rsvp.StatusPending:
		return StatusPending
	case rsvp.StatusConfirmed:
		return StatusConfirmed
	case rsvp.StatusBlocked:
		return StatusBlocked
	default:
		return StatusUnknown
	}
}

func statusToDomain(s Status) rsvp.Status {
	switch s {
	case StatusPending:
		return rsvp.StatusPending
	case StatusConfirmed:
		return rsvp.StatusConfirmed
	case StatusBlocked:
		return rsvp.StatusBlocked
	default:
		return rsvp.StatusUnknown
	}
}

// FromDomain renders a domain reservation as its wire representation.
func FromDomain(r rsvp.Reservation) Reservation {
	return Reservation{
		ID:         r.ID,
		UserID:     r.UserID,
		ResourceID: r.ResourceID,
		Start:      r.Timespan.Start,
		End:        r.Timespan.End,
		Status:     statusFromDomain(r.Status),
		Note:       r.Note,
	}
}

// ToDomain renders a ReserveRequest as a domain reservation ready for
// Manager.Reserve.
func (req ReserveRequest) ToDomain() rsvp.Reservation {
	return rsvp.Reservation{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Timespan:   rsvp.ToTimespan(req.Start, req.End),
		Note:       req.Note,
	}
}

// ToDomain renders a QueryRequest as a domain ReservationQuery. A zero
// Start/End pair is treated as an unbounded window.
func (req QueryRequest) ToDomain() rsvp.ReservationQuery {
	q := rsvp.ReservationQuery{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Status:     statusToDomain(req.Status),
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
		Desc:       req.Desc,
	}
	if !req.Start.IsZero() || !req.End.IsZero() {
		ts := rsvp.ToTimespan(req.Start, req.End)
		q.Start = &ts
	}
	return q
}

// ToDomain renders a FilterRequest as a domain ReservationFilter.
func (req FilterRequest) ToDomain() rsvp.ReservationFilter {
	return rsvp.ReservationFilter{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Status:     statusToDomain(req.Status),
		Cursor:     req.Cursor,
		PageSize:   int(req.PageSize),
		Desc:       req.Desc,
	}
}

func updateTypeFromDomain(k rsvp.UpdateKind) UpdateType {
	switch k {
	case rsvp.UpdateCreate:
		return UpdateTypeCreate
	case rsvp.UpdateUpdate:
		return UpdateTypeUpdate
	case rsvp.UpdateDelete:
		return UpdateTypeDelete
	default:
		return UpdateTypeUnknown
	}
}

// FromDomainEvent renders a domain change-notification event as its
// wire representation.
func FromDomainEvent(ev rsvp.ReservationEvent) ListenResponse {
	return ListenResponse{
		UpdateType:  updateTypeFromDomain(ev.Kind),
		Reservation: FromDomain(ev.Reservation),
	}
}
