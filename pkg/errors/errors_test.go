// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsOpaqueForDBErrors(t *testing.T) {
	a := New(CodeDBError, "boom").WithCause(sql.ErrConnDone)
	b := New(CodeDBError, "different message").WithCause(sql.ErrTxDone)

	assert.True(t, a.Is(b))
	assert.True(t, b.Is(a))
}

func TestErrorIsComparesInvalidPayload(t *testing.T) {
	a := NewInvalid(CodeInvalidUserID, "user_id", "", "user_id is required")
	b := NewInvalid(CodeInvalidUserID, "user_id", "", "user_id is required")
	c := NewInvalid(CodeInvalidUserID, "user_id", "somebody", "user_id is required")

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
}

func TestFromDBErrorNoRows(t *testing.T) {
	e := FromDBError(sql.ErrNoRows)
	require.NotNil(t, e)
	assert.Equal(t, CodeNotFound, e.Code)
}

func TestFromDBErrorExclusionViolation(t *testing.T) {
	detail := `Key (resource_id, timespan)=(ocean-view-room-713, ["2022-12-26 22:00:00+00","2022-12-30 19:00:00+00")) conflicts with existing key (resource_id, timespan)=(ocean-view-room-713, ["2022-12-25 22:00:00+00","2022-12-28 19:00:00+00"))`
	pqErr := &pq.Error{
		Code:   "23P01",
		Schema: "rsvp",
		Table:  "reservations",
		Detail: detail,
	}

	e := FromDBError(pqErr)
	require.NotNil(t, e)
	assert.Equal(t, CodeConflictReservation, e.Code)
	require.NotNil(t, e.Conflict)
	require.NotNil(t, e.Conflict.Parsed)
	assert.Equal(t, "ocean-view-room-713", e.Conflict.Parsed.New.ResourceID)
	assert.Equal(t, time.Date(2022, 12, 26, 22, 0, 0, 0, time.UTC), e.Conflict.Parsed.New.Start)
	assert.Equal(t, time.Date(2022, 12, 30, 19, 0, 0, 0, time.UTC), e.Conflict.Parsed.New.End)
	assert.Equal(t, time.Date(2022, 12, 25, 22, 0, 0, 0, time.UTC), e.Conflict.Parsed.Old.Start)
	assert.Equal(t, time.Date(2022, 12, 28, 19, 0, 0, 0, time.UTC), e.Conflict.Parsed.Old.End)
}

func TestFromDBErrorOtherPQErrorIsOpaque(t *testing.T) {
	pqErr := &pq.Error{Code: "42601", Message: "syntax error"}
	e := FromDBError(pqErr)
	require.NotNil(t, e)
	assert.Equal(t, CodeDBError, e.Code)
}

func TestParseConflictDetailFallsBackOnMismatch(t *testing.T) {
	raw := "something unexpected the driver never actually sends"
	info := ParseConflictDetail(raw)
	assert.Nil(t, info.Parsed)
	assert.Equal(t, raw, info.Raw)
}

func TestToGRPCStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"db error", New(CodeDBError, "x"), codes.Internal},
		{"conflict", NewConflict(&ConflictInfo{Raw: "x"}), codes.FailedPrecondition},
		{"not found", NotFound("x"), codes.NotFound},
		{"invalid time", NewInvalid(CodeInvalidTime, "start", "", "x"), codes.InvalidArgument},
		{"unknown", New(CodeUnknown, "x"), codes.Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(ToGRPCStatus(tc.err))
			require.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
		})
	}
}
