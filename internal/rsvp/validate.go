// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package rsvp

import (
	"strconv"

	rsvperrors "github.com/jontk/reservation/pkg/errors"
)

const (
	defaultPageSize = 10
	minPageSize     = 10
	maxPageSize     = 100
)

// Validate checks a Reservation is well-formed: user_id non-empty,
// resource_id non-empty, timespan present and well-ordered.
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return rsvperrors.NewInvalid(rsvperrors.CodeInvalidUserID, "user_id", r.UserID, "user_id is required")
	}
	if r.ResourceID == "" {
		return rsvperrors.NewInvalid(rsvperrors.CodeInvalidResourceID, "resource_id", r.ResourceID, "resource_id is required")
	}
	return ValidateRange(r.Timespan.Start, r.Timespan.End)
}

// ValidateID checks a reservation id is a valid candidate for a
// single-id operation (get/confirm/delete/update_note).
func ValidateID(id int64) error {
	if id <= 0 {
		return rsvperrors.NewInvalid(rsvperrors.CodeInvalidReservationID, "id", strconv.FormatInt(id, 10), "reservation id must be greater than 0")
	}
	return nil
}

// Validate checks a ReservationQuery's optional time window: when Start
// is set, both bounds must be present and well-ordered.
func (q *ReservationQuery) Validate() error {
	if q.Start != nil {
		return ValidateRange(q.Start.Start, q.Start.End)
	}
	return nil
}

// Normalize defaults PageSize to 10 when unset.
func (q *ReservationQuery) Normalize() {
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.Page < 0 {
		q.Page = 0
	}
}

// Validate is a no-op placeholder kept for symmetry with the other
// request types; ReservationFilter has no fields that can be
// structurally invalid prior to normalization.
func (f *ReservationFilter) Validate() error {
	return nil
}

// Normalize clamps PageSize into [10, 100]. It is idempotent on
// already-normalized input: calling it twice leaves PageSize and the
// rest of the filter unchanged.
func (f *ReservationFilter) Normalize() {
	switch {
	case f.PageSize <= 0:
		f.PageSize = defaultPageSize
	case f.PageSize < minPageSize:
		f.PageSize = minPageSize
	case f.PageSize > maxPageSize:
		f.PageSize = maxPageSize
	}
}
