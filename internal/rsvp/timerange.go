// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package rsvp holds the reservation engine's typed request model: the
// data classes, validators, and normalizers, independent of storage and
// transport.
package rsvp

import (
	"time"

	rsvperrors "github.com/jontk/reservation/pkg/errors"
)

// Timespan is a half-open UTC interval [Start, End).
type Timespan struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the interval.
func (ts Timespan) Contains(t time.Time) bool {
	return !t.Before(ts.Start) && t.Before(ts.End)
}

// Overlaps reports whether ts and other share any instant.
func (ts Timespan) Overlaps(other Timespan) bool {
	return ts.Start.Before(other.End) && other.Start.Before(ts.End)
}

// ValidateRange fails with INVALID_TIME if either endpoint is zero or
// start is not strictly before end, compared at second precision (the
// granularity tstzrange literals round-trip at).
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return rsvperrors.NewInvalid(rsvperrors.CodeInvalidTime, "timespan", "", "start and end are both required")
	}
	if !start.Truncate(time.Second).Before(end.Truncate(time.Second)) {
		return rsvperrors.NewInvalid(rsvperrors.CodeInvalidTime, "timespan", "", "start must be before end")
	}
	return nil
}

// ToTimespan converts start/end wall-clock timestamps into the
// half-open UTC interval the store persists, converting non-UTC inputs.
func ToTimespan(start, end time.Time) Timespan {
	return Timespan{Start: start.UTC(), End: end.UTC()}
}
