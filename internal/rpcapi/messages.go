// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package rpcapi defines the wire messages for the
// reservation.ReservationService gRPC service: the request/response
// envelopes for the six unary methods (reserve, confirm, update,
// cancel, get, filter) and two server-streaming methods (query,
// listen). Types here are plain Go structs rather than protoc-generated
// code; see reservation.proto at the repository root for the documented
// contract these mirror field-for-field.
package rpcapi

import "time"

// Status mirrors the wire enum reservation.Status.
type Status int32

const (
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusBlocked
)

// UpdateType mirrors the wire enum reservation.UpdateType.
type UpdateType int32

const (
	UpdateTypeUnknown UpdateType = iota
	UpdateTypeCreate
	UpdateTypeUpdate
	UpdateTypeDelete
)

// Reservation is the wire representation of a reservation row.
type Reservation struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     Status    `json:"status"`
	Note       string    `json:"note"`
}

// ReserveRequest carries the fields of a new reservation.
type ReserveRequest struct {
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Note       string    `json:"note"`
}

// ReserveResponse carries the persisted reservation.
type ReserveResponse struct {
	Reservation Reservation `json:"reservation"`
}

// ConfirmRequest names the reservation to confirm.
type ConfirmRequest struct {
	ID int64 `json:"id"`
}

// ConfirmResponse carries the confirmed reservation.
type ConfirmResponse struct {
	Reservation Reservation `json:"reservation"`
}

// UpdateRequest carries a new note for an existing reservation.
type UpdateRequest struct {
	ID   int64  `json:"id"`
	Note string `json:"note"`
}

// UpdateResponse carries the updated reservation.
type UpdateResponse struct {
	Reservation Reservation `json:"reservation"`
}

// CancelRequest names the reservation to delete.
type CancelRequest struct {
	ID int64 `json:"id"`
}

// CancelResponse carries the reservation as it existed before deletion.
type CancelResponse struct {
	Reservation Reservation `json:"reservation"`
}

// GetRequest names the reservation to fetch.
type GetRequest struct {
	ID int64 `json:"id"`
}

// GetResponse carries the fetched reservation.
type GetResponse struct {
	Reservation Reservation `json:"reservation"`
}

// QueryRequest is a time-window query, streamed back one reservation
// per response. A zero Start/End pair means an unbounded window.
type QueryRequest struct {
	UserID     string    `json:"user_id,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	Status     Status    `json:"status,omitempty"`
	Start      time.Time `json:"start,omitempty"`
	End        time.Time `json:"end,omitempty"`
	Page       int32     `json:"page,omitempty"`
	PageSize   int32     `json:"page_size,omitempty"`
	Desc       bool      `json:"desc,omitempty"`
}

// QueryResponse is a single item on a Query stream.
type QueryResponse struct {
	Reservation Reservation `json:"reservation"`
}

// FilterRequest is a cursor-paged filter with no time window.
type FilterRequest struct {
	UserID     string `json:"user_id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`
	Status     Status `json:"status,omitempty"`
	Cursor     *int64 `json:"cursor,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
	Desc       bool   `json:"desc,omitempty"`
}

// FilterResponse carries one page of results and the pager for the
// next/previous page.
type FilterResponse struct {
	Reservations []Reservation `json:"reservations"`
	Prev         *int64        `json:"prev,omitempty"`
	Next         *int64        `json:"next,omitempty"`
	Total        *int64        `json:"total,omitempty"`
}

// ListenRequest opens a change-notification stream. It carries no
// fields today; it exists so the method has a typed request envelope
// if filtering by resource_id is added later.
type ListenRequest struct{}

// ListenResponse is a single change-notification event.
type ListenResponse struct {
	UpdateType  UpdateType  `json:"update_type"`
	Reservation Reservation `json:"reservation"`
}
