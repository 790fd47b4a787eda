// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

// Package listen subscribes to the database's reservation_update
// asynchronous-notify channel and republishes each payload to every
// attached subscriber, the same subscriber fan-out shape as a
// ticker-driven poller publishing to a buffered channel, generalized
// from poll-based to push-based delivery and backed by
// github.com/lib/pq's pq.Listener.
package listen

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/jontk/reservation/internal/rsvp"
	"github.com/jontk/reservation/pkg/logging"
	"github.com/jontk/reservation/pkg/metrics"
	"github.com/jontk/reservation/pkg/retry"
)

// ChannelName is the Postgres NOTIFY channel the reservations trigger
// publishes to.
const ChannelName = "reservation_update"

const subscriberBuffer = 64

// minReconnectInterval and maxReconnectInterval bound pq.Listener's
// own internal reconnect backoff.
const (
	minReconnectInterval = 100 * time.Millisecond
	maxReconnectInterval = 5 * time.Second
)

// payload is the JSON body carried by each NOTIFY reservation_update
// message, written by the reservations trigger.
type payload struct {
	Kind       string    `json:"kind"`
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	Note       string    `json:"note"`
}

func (p payload) toEvent() rsvp.ReservationEvent {
	kind := rsvp.UpdateUnknown
	switch p.Kind {
	case "create":
		kind = rsvp.UpdateCreate
	case "update":
		kind = rsvp.UpdateUpdate
	case "delete":
		kind = rsvp.UpdateDelete
	}
	return rsvp.ReservationEvent{
		Kind: kind,
		Reservation: rsvp.Reservation{
			ID:         p.ID,
			UserID:     p.UserID,
			ResourceID: p.ResourceID,
			Timespan:   rsvp.ToTimespan(p.Start, p.End),
			Status:     rsvp.ParseStatus(p.Status),
			Note:       p.Note,
		},
	}
}

// Listener subscribes to ChannelName and fans each decoded event out
// to every currently attached subscriber. A subscriber that joins after
// an event never sees it — there is no replay.
type Listener struct {
	dsn     string
	logger  logging.Logger
	metrics metrics.Collector

	pqListener *pq.Listener

	mu          sync.Mutex
	subscribers map[chan rsvp.ReservationEvent]struct{}
	healthy     bool
}

// New builds a Listener over the given data source name. A nil logger
// or collector defaults to no-ops.
func New(dsn string, logger logging.Logger, collector metrics.Collector) *Listener {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if collector == nil {
		collector = metrics.NewInMemoryCollector()
	}
	return &Listener{
		dsn:         dsn,
		logger:      logger,
		metrics:     collector,
		subscribers: make(map[chan rsvp.ReservationEvent]struct{}),
	}
}

// Start opens the underlying pq.Listener and begins fanning out
// notifications until ctx is canceled. The initial connection attempt
// is retried with exponential backoff (matching pq.Listener's own
// reconnect bounds of 100ms/5s) so a database that is briefly
// unreachable at startup does not fail the whole service.
func (l *Listener) Start(ctx context.Context) error {
	backoff := &retry.ExponentialBackoff{
		InitialDelay: minReconnectInterval,
		MaxDelay:     maxReconnectInterval,
		Multiplier:   2.0,
		Jitter:       0.1,
		MaxAttempts:  1 << 30,
	}

	pqListener, err := retry.RetryWithResult(ctx, backoff, func() (*pq.Listener, error) {
		ln := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, l.eventCallback)
		if err := ln.Listen(ChannelName); err != nil {
			ln.Close()
			return nil, err
		}
		return ln, nil
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.pqListener = pqListener
	l.healthy = true
	l.mu.Unlock()

	go l.fanOut(ctx)
	return nil
}

// Healthy reports whether the listener believes its database
// connection is currently live.
func (l *Listener) Healthy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.healthy
}

// Subscribe attaches a new receiver of future events. The returned
// cancel func must be called when the caller is done listening.
func (l *Listener) Subscribe() (<-chan rsvp.ReservationEvent, func()) {
	ch := make(chan rsvp.ReservationEvent, subscriberBuffer)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		if _, ok := l.subscribers[ch]; ok {
			delete(l.subscribers, ch)
			close(ch)
		}
		l.mu.Unlock()
	}
	return ch, cancel
}

// Close stops the listener and releases its database connection.
func (l *Listener) Close() error {
	l.mu.Lock()
	ln := l.pqListener
	l.mu.Unlock()
	if ln == nil {
		return nil
	}
	return ln.Close()
}

func (l *Listener) fanOut(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-l.pqListener.Notify:
			if !ok {
				return
			}
			if n == nil {
				// pq.Listener sends a nil notification after a
				// reconnect to signal that events may have been missed.
				continue
			}
			l.publish(n.Extra)
		}
	}
}

func (l *Listener) publish(raw string) {
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		l.logger.Warn("failed to decode reservation_update payload", "error", err)
		return
	}
	ev := p.toEvent()

	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.subscribers {
		select {
		case ch <- ev:
		default:
			l.logger.Warn("dropping reservation_update event: subscriber buffer full")
		}
	}
}

func (l *Listener) eventCallback(event pq.ListenerEventType, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch event {
	case pq.ListenerEventConnected:
		l.healthy = true
	case pq.ListenerEventDisconnected:
		l.healthy = false
	case pq.ListenerEventReconnected:
		l.healthy = true
		l.metrics.RecordReconnect()
	case pq.ListenerEventConnectionAttemptFailed:
		l.healthy = false
	}
	if err != nil {
		l.logger.Warn("pq listener event", "event", int(event), "error", err)
	}
}
