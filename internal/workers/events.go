// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-face-lock/models"
)

// DefaultProgressInterval spaces out countdown, distance and no-face events.
const DefaultProgressInterval = 100 * time.Millisecond

// Emitter publishes events of one session to an observer channel.
//
// Progress events are rate limited and dropped when the channel is full.
// State transitions, accepted samples and file results are never limited;
// they block until the observer receives them or ctx is done.
type Emitter struct {
	ch        chan<- models.Event
	sessionID string
	limiter   *rate.Limiter
	dropped   atomic.Int64
}

// NewEmitter returns an emitter for ch. A nil ch discards everything. A
// non-positive every disables rate limiting.
func NewEmitter(ch chan<- models.Event, sessionID string, every time.Duration) *Emitter {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Emitter{ch: ch, sessionID: sessionID, limiter: rate.NewLimiter(limit, 1)}
}

// Emit stamps ev with the session id and delivers it.
func (e *Emitter) Emit(ctx context.Context, ev models.Event) {
	if e == nil || e.ch == nil {
		return
	}
	ev.SessionID = e.sessionID

	if !isProgress(ev.Kind) {
		select {
		case e.ch <- ev:
		case <-ctx.Done():
		}
		return
	}

	if !e.limiter.Allow() {
		e.dropped.Add(1)
		return
	}
	select {
	case e.ch <- ev:
	default:
		e.dropped.Add(1)
	}
}

// Dropped reports how many progress events were not delivered.
func (e *Emitter) Dropped() int64 {
	if e == nil {
		return 0
	}
	return e.dropped.Load()
}

func isProgress(kind models.EventKind) bool {
	switch kind {
	case models.EventCountdown, models.EventDistance, models.EventNoFace:
		return true
	}
	return false
}
