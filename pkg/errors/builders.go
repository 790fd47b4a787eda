// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"
)

// sqlstateExclusionViolation is the SQLSTATE raised when a GiST
// exclusion constraint rejects an insert (here, overlapping timespans
// on the same resource_id).
const sqlstateExclusionViolation = "23P01"

// FromDBError classifies a raw database/sql or lib/pq error into the
// closed taxonomy, per the mapping rule: exclusion-constraint violation
// on rsvp.reservations -> CONFLICT_RESERVATION, sql.ErrNoRows ->
// NOT_FOUND, anything else -> DB_ERROR.
func FromDBError(err error) *Error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, sql.ErrNoRows) {
		return NotFound("no matching reservation")
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		if pqErr.Code == sqlstateExclusionViolation && pqErr.Schema == "rsvp" && pqErr.Table == "reservations" {
			return NewConflict(ParseConflictDetail(pqErr.Detail))
		}
	}

	return New(CodeDBError, "database error").WithCause(err)
}
