// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-face-lock/models"
)

func TestEmitter_StampsSession(t *testing.T) {
	ch := make(chan models.Event, 1)
	e := NewEmitter(ch, "sess-1", 0)

	e.Emit(context.Background(), models.Event{Kind: models.EventState, State: models.EnrollmentCapturing})

	ev := <-ch
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, models.EnrollmentCapturing, ev.State)
}

// TestEmitter_RateLimitsProgress verifies that a burst of progress events
// is thinned out while state events all get through.
func TestEmitter_RateLimitsProgress(t *testing.T) {
	ch := make(chan models.Event, 100)
	e := NewEmitter(ch, "s", time.Hour)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		e.Emit(ctx, models.Event{Kind: models.EventDistance, Distance: float64(i)})
	}
	for i := 0; i < 3; i++ {
		e.Emit(ctx, models.Event{Kind: models.EventState})
	}
	close(ch)

	var progress, states int
	for ev := range ch {
		switch ev.Kind {
		case models.EventDistance:
			progress++
		case models.EventState:
			states++
		}
	}
	assert.Equal(t, 1, progress)
	assert.Equal(t, 3, states)
	assert.Equal(t, int64(9), e.Dropped())
}

func TestEmitter_DropsProgressWhenFull(t *testing.T) {
	ch := make(chan models.Event)
	e := NewEmitter(ch, "s", 0)

	done := make(chan struct{})
	go func() {
		e.Emit(context.Background(), models.Event{Kind: models.EventCountdown})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("progress event blocked on a full channel")
	}
	assert.Equal(t, int64(1), e.Dropped())
}

func TestEmitter_StateEventHonoursContext(t *testing.T) {
	ch := make(chan models.Event)
	e := NewEmitter(ch, "s", 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	e.Emit(ctx, models.Event{Kind: models.EventState})
	assert.Less(t, time.Since(start), time.Second)
}

func TestEmitter_NilSafe(t *testing.T) {
	var e *Emitter
	e.Emit(context.Background(), models.Event{Kind: models.EventState})
	assert.Zero(t, e.Dropped())

	quiet := NewEmitter(nil, "s", 0)
	quiet.Emit(context.Background(), models.Event{Kind: models.EventState})
	require.Zero(t, quiet.Dropped())
}
