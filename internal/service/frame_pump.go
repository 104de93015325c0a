// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/models"
)

// DefaultPollInterval bounds how often the capture loops read a frame.
const DefaultPollInterval = 30 * time.Millisecond

// framePump reads frames from src on its own goroutine so the capture loops
// can select on frames, deadlines and cancellation together. Reads are
// spaced at least poll apart; failed reads are retried after the next slot.
type framePump struct {
	frames chan models.Frame
	done   chan struct{}
}

func startFramePump(ctx context.Context, src capture.FrameSource, poll time.Duration, log *logger.Logger) *framePump {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	p := &framePump{
		frames: make(chan models.Frame),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		defer close(p.frames)

		limiter := rate.NewLimiter(rate.Every(poll), 1)
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			frame, err := src.Read(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, capture.ErrSourceClosed) {
					return
				}
				if !errors.Is(err, capture.ErrNoFrame) {
					log.Debug().Err(err).Msg("frame read failed, retrying")
				}
				continue
			}
			select {
			case p.frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

// Frames is closed when the pump stops.
func (p *framePump) Frames() <-chan models.Frame {
	return p.frames
}

// Wait blocks until the pump goroutine has exited.
func (p *framePump) Wait() {
	<-p.done
}

// firstFace returns the landmarks of the first detected face that has any.
// Detector failures and empty results are detection gaps, not errors.
func firstFace(ctx context.Context, detector capture.LandmarkDetector, frame models.Frame, log *logger.Logger) models.LandmarkSample {
	faces, err := detector.Detect(ctx, frame)
	if err != nil {
		if ctx.Err() == nil {
			log.Debug().Err(err).Int("frame", frame.Index).Msg("detection gap")
		}
		return nil
	}
	for _, f := range faces {
		if len(f.Landmarks) > 0 {
			return f.Landmarks
		}
	}
	return nil
}

// closeSource stops the pump and releases the frame source. The pump's
// context must already be cancelled.
func closeSource(src capture.FrameSource, pump *framePump, log *logger.Logger) {
	if err := src.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close frame source")
	}
	if pump != nil {
		pump.Wait()
	}
}
