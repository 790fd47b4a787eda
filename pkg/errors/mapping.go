// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPCStatus maps a taxonomy Error to the gRPC status it should
// surface to an RPC caller: DB_ERROR/UNKNOWN -> internal/unknown,
// CONFLICT_RESERVATION -> failed-precondition, NOT_FOUND -> not-found,
// INVALID_* -> invalid-argument. Internal errors never leak schema
// details beyond a fixed "Database error" message.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !stderrors.As(err, &e) {
		return status.Error(codes.Unknown, err.Error())
	}

	switch e.Code {
	case CodeDBError, CodeConfigReadError, CodeConfigParseError:
		return status.Error(codes.Internal, "Database error")
	case CodeConflictReservation:
		return status.Error(codes.FailedPrecondition, e.Error())
	case CodeNotFound:
		return status.Error(codes.NotFound, e.Message)
	case CodeInvalidTime, CodeInvalidUserID, CodeInvalidResourceID, CodeInvalidReservationID:
		return status.Error(codes.InvalidArgument, e.Error())
	default:
		return status.Error(codes.Unknown, e.Error())
	}
}
