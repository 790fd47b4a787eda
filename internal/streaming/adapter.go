// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package streaming bridges a bounded channel of query results to an
// outbound RPC stream, the same select-loop shape as an SSE
// event-channel forwarder, generalized from an HTTP/SSE writer to any
// transport exposing a single send function.
package streaming

import (
	"context"

	"github.com/jontk/reservation/internal/manager"
	"github.com/jontk/reservation/internal/rsvp"
	rsvperrors "github.com/jontk/reservation/pkg/errors"
)

// Adapt drains results, calling send for each successfully scanned
// reservation. A result carrying an error is translated via
// rsvperrors.ToGRPCStatus and returned immediately. A closed channel
// ends the stream cleanly (nil error). If ctx is done before the
// channel closes, Adapt returns ctx.Err(). If send itself fails (the
// transport reports the client is gone), Adapt returns that error
// without reading further from results — the producer goroutine on the
// other end of the channel is expected to observe ctx cancellation (the
// same ctx given to Manager.Query) and exit within one pending send.
func Adapt(ctx context.Context, results <-chan manager.QueryResult, send func(rsvp.Reservation) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				return rsvperrors.ToGRPCStatus(res.Err)
			}
			if err := send(res.Reservation); err != nil {
				return err
			}
		}
	}
}
