// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc"

	"github.com/jontk/reservation/pkg/logging"
	"github.com/jontk/reservation/pkg/metrics"
)

// UnaryLoggingInterceptor logs each unary call's method, duration, and
// outcome and records it via collector, using the same
// LogOperation/LogDuration pairing used by internal/manager.
func UnaryLoggingInterceptor(logger logging.Logger, collector metrics.Collector) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		opLogger := logging.LogOperation(logger, info.FullMethod)
		collector.RecordCall(info.FullMethod)

		resp, err := handler(ctx, req)

		if err != nil {
			logging.LogError(opLogger, err, info.FullMethod)
			collector.RecordError(info.FullMethod, err)
		} else {
			collector.RecordResult(info.FullMethod, 0, time.Since(start))
		}
		logging.LogDuration(opLogger, start, info.FullMethod)
		return resp, err
	}
}

// StreamLoggingInterceptor is the streaming counterpart of
// UnaryLoggingInterceptor, wrapping the stream's lifetime rather than a
// single request/response pair.
func StreamLoggingInterceptor(logger logging.Logger, collector metrics.Collector) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		opLogger := logging.LogOperation(logger, info.FullMethod)
		collector.RecordCall(info.FullMethod)

		err := handler(srv, ss)

		if err != nil {
			logging.LogError(opLogger, err, info.FullMethod)
			collector.RecordError(info.FullMethod, err)
		} else {
			collector.RecordResult(info.FullMethod, 0, time.Since(start))
		}
		logging.LogDuration(opLogger, start, info.FullMethod)
		return err
	}
}
