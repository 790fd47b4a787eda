// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"github.com/jontk/reservation/internal/rpcapi"
)

// reservationServiceServer is the interface *Server satisfies; grpc.Server
// checks a registered implementation against ServiceDesc.HandlerType via
// this interface before accepting it.
type reservationServiceServer interface {
	Reserve(context.Context, *rpcapi.ReserveRequest) (*rpcapi.ReserveResponse, error)
	Confirm(context.Context, *rpcapi.ConfirmRequest) (*rpcapi.ConfirmResponse, error)
	Update(context.Context, *rpcapi.UpdateRequest) (*rpcapi.UpdateResponse, error)
	Cancel(context.Context, *rpcapi.CancelRequest) (*rpcapi.CancelResponse, error)
	Get(context.Context, *rpcapi.GetRequest) (*rpcapi.GetResponse, error)
	Filter(context.Context, *rpcapi.FilterRequest) (*rpcapi.FilterResponse, error)
	Query(*rpcapi.QueryRequest, queryStream) error
	Listen(*rpcapi.ListenRequest, queryStream) error
}

func unaryHandler(
	method func(reservationServiceServer, context.Context, any) (any, error),
	newReq func() any,
	fullMethod string,
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		impl := srv.(reservationServiceServer)
		if interceptor == nil {
			return method(impl, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(impl, ctx, req)
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes reservation.ReservationService for
// grpc.Server.RegisterService. Method and stream names match
// reservation.proto at the repository root.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "reservation.ReservationService",
	HandlerType: (*reservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Reserve",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Reserve(ctx, req.(*rpcapi.ReserveRequest))
				},
				func() any { return new(rpcapi.ReserveRequest) },
				"/reservation.ReservationService/Reserve",
			),
		},
		{
			MethodName: "Confirm",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Confirm(ctx, req.(*rpcapi.ConfirmRequest))
				},
				func() any { return new(rpcapi.ConfirmRequest) },
				"/reservation.ReservationService/Confirm",
			),
		},
		{
			MethodName: "Update",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Update(ctx, req.(*rpcapi.UpdateRequest))
				},
				func() any { return new(rpcapi.UpdateRequest) },
				"/reservation.ReservationService/Update",
			),
		},
		{
			MethodName: "Cancel",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Cancel(ctx, req.(*rpcapi.CancelRequest))
				},
				func() any { return new(rpcapi.CancelRequest) },
				"/reservation.ReservationService/Cancel",
			),
		},
		{
			MethodName: "Get",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Get(ctx, req.(*rpcapi.GetRequest))
				},
				func() any { return new(rpcapi.GetRequest) },
				"/reservation.ReservationService/Get",
			),
		},
		{
			MethodName: "Filter",
			Handler: unaryHandler(
				func(s reservationServiceServer, ctx context.Context, req any) (any, error) {
					return s.Filter(ctx, req.(*rpcapi.FilterRequest))
				},
				func() any { return new(rpcapi.FilterRequest) },
				"/reservation.ReservationService/Filter",
			),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Query",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				req := new(rpcapi.QueryRequest)
				if err := stream.RecvMsg(req); err != nil {
					return err
				}
				return srv.(reservationServiceServer).Query(req, stream)
			},
		},
		{
			StreamName:    "Listen",
			ServerStreams: true,
			Handler: func(srv any, stream grpc.ServerStream) error {
				req := new(rpcapi.ListenRequest)
				if err := stream.RecvMsg(req); err != nil {
					return err
				}
				return srv.(reservationServiceServer).Listen(req, stream)
			},
		},
	},
	Metadata: "reservation.proto",
}
