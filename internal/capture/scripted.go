// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-face-lock/models"
)

// ScriptedFrame is one step of a [ScriptedCamera] script.
type ScriptedFrame struct {
	// Frame is returned after Delay unless Err is set.
	Frame models.Frame
	// Delay is waited before the step completes.
	Delay time.Duration
	// Err is returned instead of the frame.
	Err error
}

// ScriptedCamera is an in-memory camera for tests and demos. After the last
// step the source either starts over (Loop) or stalls until its context is
// done, which models a camera that stopped delivering frames.
type ScriptedCamera struct {
	Steps   []ScriptedFrame
	Loop    bool
	OpenErr error

	opens  atomic.Int32
	closes atomic.Int32
	reads  atomic.Int32
}

// NewScriptedCamera returns a camera replaying frames without delays.
func NewScriptedCamera(loop bool, frames ...models.Frame) *ScriptedCamera {
	steps := make([]ScriptedFrame, len(frames))
	for i, f := range frames {
		steps[i] = ScriptedFrame{Frame: f}
	}
	return &ScriptedCamera{Steps: steps, Loop: loop}
}

func (c *ScriptedCamera) Open(ctx context.Context) (FrameSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.OpenErr != nil {
		return nil, c.OpenErr
	}
	c.opens.Add(1)
	return &scriptedSource{cam: c, done: make(chan struct{})}, nil
}

// Opens reports how many sources were opened.
func (c *ScriptedCamera) Opens() int { return int(c.opens.Load()) }

// Closes reports how many sources were closed.
func (c *ScriptedCamera) Closes() int { return int(c.closes.Load()) }

// Reads reports how many reads completed.
func (c *ScriptedCamera) Reads() int { return int(c.reads.Load()) }

type scriptedSource struct {
	cam       *ScriptedCamera
	mu        sync.Mutex
	pos       int
	closeOnce sync.Once
	done      chan struct{}
}

func (s *scriptedSource) Read(ctx context.Context) (models.Frame, error) {
	select {
	case <-s.done:
		return models.Frame{}, ErrSourceClosed
	default:
	}

	s.mu.Lock()
	if s.pos >= len(s.cam.Steps) && s.cam.Loop && len(s.cam.Steps) > 0 {
		s.pos = 0
	}
	if s.pos >= len(s.cam.Steps) {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return models.Frame{}, ctx.Err()
		case <-s.done:
			return models.Frame{}, ErrSourceClosed
		}
	}
	step := s.cam.Steps[s.pos]
	s.pos++
	s.mu.Unlock()

	if step.Delay > 0 {
		timer := time.NewTimer(step.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.Frame{}, ctx.Err()
		case <-s.done:
			return models.Frame{}, ErrSourceClosed
		case <-timer.C:
		}
	}

	s.cam.reads.Add(1)
	if step.Err != nil {
		return models.Frame{}, step.Err
	}
	return step.Frame, nil
}

func (s *scriptedSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cam.closes.Add(1)
	})
	return nil
}
