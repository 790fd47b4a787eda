// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"strings"
	"time"
)

// ParseConflictDetail decomposes the detail string PostgreSQL attaches
// to a GiST exclusion-constraint violation into the {new, old} window
// pair. The expected grammar is:
//
//	Key (resource_id, timespan)=(<rid>, ["<start>","<end>")) conflicts with existing key (resource_id, timespan)=(<rid>, ["<start>","<end>"))
//
// This is a small recursive-descent over that fixed grammar: each half
// is located by its "(resource_id, timespan)=(" anchor and scanned
// field by field. Any mismatch — a missing anchor, an unparsable
// timestamp, a malformed tuple — falls back to the unparsed variant
// that preserves the original string, per the conflict-parsing rule.
func ParseConflictDetail(detail string) *ConflictInfo {
	info := &ConflictInfo{Raw: detail}
	if detail == "" {
		return info
	}

	const conflictsMarker = "conflicts with existing key "
	idx := strings.Index(detail, conflictsMarker)
	if idx < 0 {
		return info
	}

	newHalf := detail[:idx]
	oldHalf := detail[idx+len(conflictsMarker):]

	newWindow, ok := parseConflictWindow(newHalf)
	if !ok {
		return info
	}
	oldWindow, ok := parseConflictWindow(oldHalf)
	if !ok {
		return info
	}

	info.Parsed = &ConflictWindows{New: newWindow, Old: oldWindow}
	return info
}

// parseConflictWindow extracts a single (resource_id, start, end) triple
// from one half of the detail string, of the form:
//
//	Key (resource_id, timespan)=(<rid>, ["<start>","<end>"))
func parseConflictWindow(half string) (ReservationWindow, bool) {
	const anchor = "(resource_id, timespan)=("
	start := strings.Index(half, anchor)
	if start < 0 {
		return ReservationWindow{}, false
	}
	rest := half[start+len(anchor):]

	// rest looks like: <rid>, ["<start>","<end>"))...
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return ReservationWindow{}, false
	}
	resourceID := strings.TrimSpace(rest[:comma])
	rest = rest[comma+1:]

	rangeStart := strings.IndexAny(rest, "[(")
	if rangeStart < 0 {
		return ReservationWindow{}, false
	}
	rest = rest[rangeStart+1:]

	rangeEnd := strings.IndexAny(rest, "])")
	if rangeEnd < 0 {
		return ReservationWindow{}, false
	}
	rangeBody := rest[:rangeEnd]

	parts := strings.SplitN(rangeBody, ",", 2)
	if len(parts) != 2 {
		return ReservationWindow{}, false
	}

	startTime, ok := parseConflictTimestamp(parts[0])
	if !ok {
		return ReservationWindow{}, false
	}
	endTime, ok := parseConflictTimestamp(parts[1])
	if !ok {
		return ReservationWindow{}, false
	}

	return ReservationWindow{
		ResourceID: resourceID,
		Start:      startTime,
		End:        endTime,
	}, true
}

// parseConflictTimestamp strips the quoting PostgreSQL puts around each
// tstzrange bound and parses it with the driver's textual timestamp
// layout.
func parseConflictTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	if s == "" {
		return time.Time{}, false
	}

	layouts := []string{
		"2006-01-02 15:04:05.999999-07",
		"2006-01-02 15:04:05-07",
		time.RFC3339Nano,
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
