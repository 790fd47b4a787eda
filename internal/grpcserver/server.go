// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package grpcserver implements reservation.ReservationService against
// a real google.golang.org/grpc.Server. It adapts internal/manager's
// Manager and internal/listen's Listener to the typed wire messages in
// internal/rpcapi.
package grpcserver

import (
	"context"

	"github.com/jontk/reservation/internal/listen"
	"github.com/jontk/reservation/internal/manager"
	"github.com/jontk/reservation/internal/rpcapi"
	"github.com/jontk/reservation/internal/rsvp"
	"github.com/jontk/reservation/internal/streaming"
	rsvperrors "github.com/jontk/reservation/pkg/errors"
)

// Server implements the ReservationService RPC methods described by
// ServiceDesc, bridging each call to the reservation manager or the
// change-notification listener.
type Server struct {
	manager  *manager.Manager
	listener *listen.Listener
}

// New builds a Server over the given manager and listener.
func New(mgr *manager.Manager, ln *listen.Listener) *Server {
	return &Server{manager: mgr, listener: ln}
}

func (s *Server) Reserve(ctx context.Context, req *rpcapi.ReserveRequest) (*rpcapi.ReserveResponse, error) {
	r, err := s.manager.Reserve(ctx, req.ToDomain())
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	return &rpcapi.ReserveResponse{Reservation: rpcapi.FromDomain(r)}, nil
}

func (s *Server) Confirm(ctx context.Context, req *rpcapi.ConfirmRequest) (*rpcapi.ConfirmResponse, error) {
	r, err := s.manager.ChangeStatus(ctx, req.ID)
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	return &rpcapi.ConfirmResponse{Reservation: rpcapi.FromDomain(r)}, nil
}

func (s *Server) Update(ctx context.Context, req *rpcapi.UpdateRequest) (*rpcapi.UpdateResponse, error) {
	r, err := s.manager.UpdateNote(ctx, req.ID, req.Note)
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	return &rpcapi.UpdateResponse{Reservation: rpcapi.FromDomain(r)}, nil
}

func (s *Server) Cancel(ctx context.Context, req *rpcapi.CancelRequest) (*rpcapi.CancelResponse, error) {
	r, err := s.manager.Delete(ctx, req.ID)
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	return &rpcapi.CancelResponse{Reservation: rpcapi.FromDomain(r)}, nil
}

func (s *Server) Get(ctx context.Context, req *rpcapi.GetRequest) (*rpcapi.GetResponse, error) {
	r, err := s.manager.Get(ctx, req.ID)
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	return &rpcapi.GetResponse{Reservation: rpcapi.FromDomain(r)}, nil
}

func (s *Server) Filter(ctx context.Context, req *rpcapi.FilterRequest) (*rpcapi.FilterResponse, error) {
	pager, rows, err := s.manager.Filter(ctx, req.ToDomain())
	if err != nil {
		return nil, rsvperrors.ToGRPCStatus(err)
	}
	wire := make([]rpcapi.Reservation, len(rows))
	for i, r := range rows {
		wire[i] = rpcapi.FromDomain(r)
	}
	return &rpcapi.FilterResponse{
		Reservations: wire,
		Prev:         pager.Prev,
		Next:         pager.Next,
		Total:        pager.Total,
	}, nil
}

// queryStream is the narrow grpc.ServerStream surface the Query and
// Listen handlers need; satisfied by *grpc.serverStream and by fakes
// in tests.
type queryStream interface {
	Context() context.Context
	SendMsg(m any) error
}

func (s *Server) Query(req *rpcapi.QueryRequest, stream queryStream) error {
	ctx := stream.Context()
	results, err := s.manager.Query(ctx, req.ToDomain())
	if err != nil {
		return rsvperrors.ToGRPCStatus(err)
	}
	return streaming.Adapt(ctx, results, func(r rsvp.Reservation) error {
		return stream.SendMsg(&rpcapi.QueryResponse{Reservation: rpcapi.FromDomain(r)})
	})
}

func (s *Server) Listen(req *rpcapi.ListenRequest, stream queryStream) error {
	ctx := stream.Context()
	events, cancel := s.listener.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			resp := rpcapi.FromDomainEvent(ev)
			if err := stream.SendMsg(&resp); err != nil {
				return err
			}
		}
	}
}
