// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/MKhiriev/go-face-lock/internal/biometric"
	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/store"
	"github.com/MKhiriev/go-face-lock/internal/utils"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

type matchingService struct {
	camera   capture.Camera
	detector capture.LandmarkDetector
	repo     store.FingerprintRepository
	poll     time.Duration
	ids      *utils.UUIDGenerator
	logger   *logger.Logger
}

// NewMatchingService returns a matcher reading frames at most once per poll.
func NewMatchingService(camera capture.Camera, detector capture.LandmarkDetector, repo store.FingerprintRepository, poll time.Duration, logger *logger.Logger) MatchingService {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &matchingService{
		camera:   camera,
		detector: detector,
		repo:     repo,
		poll:     poll,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
	}
}

func (s *matchingService) Verify(ctx context.Context, tolerance float64, timeout time.Duration, events chan<- models.Event) (models.Outcome, error) {
	if tolerance <= 0 || math.IsNaN(tolerance) || timeout <= 0 {
		return models.Outcome{}, fmt.Errorf("%w: tolerance %v, timeout %s", ErrInvalidDataProvided, tolerance, timeout)
	}

	ctx, sessionID := sessionContext(ctx, s.ids)
	log := s.logger.WithSession(sessionID)
	emitter := workers.NewEmitter(events, sessionID, workers.DefaultProgressInterval)

	record, ok, err := s.repo.LoadActive(ctx)
	if err != nil {
		if errors.Is(err, store.ErrStorageCorrupt) {
			log.Error().Err(err).Msg("stored enrollment is corrupt")
		}
		return models.Outcome{}, fmt.Errorf("load enrollment: %w", err)
	}
	if !ok {
		log.Info().Msg("no biometric data enrolled")
		return models.Outcome{Kind: models.OutcomeNoBiometricData, Distance: -1}, nil
	}

	if ctx.Err() != nil {
		return models.Outcome{Kind: models.OutcomeCancelled, Distance: -1}, nil
	}
	src, err := s.camera.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return models.Outcome{Kind: models.OutcomeCancelled, Distance: -1}, nil
		}
		log.Warn().Err(err).Msg("camera unavailable")
		return models.Outcome{Kind: models.OutcomeCameraUnavailable, Distance: -1}, nil
	}

	// The deadline is wall-clock from here, whatever the frame rate.
	loopCtx, cancel := context.WithTimeout(ctx, timeout)
	pump := startFramePump(loopCtx, src, s.poll, log)
	defer func() {
		cancel()
		closeSource(src, pump, log)
	}()

	best := -1.0
	outcome := func(kind models.OutcomeKind) models.Outcome {
		return models.Outcome{Kind: kind, Distance: best}
	}
	stopped := func() models.Outcome {
		if ctx.Err() != nil {
			log.Info().Msg("verification cancelled")
			return outcome(models.OutcomeCancelled)
		}
		log.Info().Float64("best", best).Dur("timeout", timeout).Msg("verification timed out")
		return outcome(models.OutcomeTimedOut)
	}

	for {
		var frame models.Frame
		var ok bool
		select {
		case <-loopCtx.Done():
			return stopped(), nil
		case frame, ok = <-pump.Frames():
		}
		if !ok {
			if loopCtx.Err() != nil {
				return stopped(), nil
			}
			// the source gave out; keep waiting for the deadline so the
			// outcome stays a timeout rather than a hardware error
			log.Warn().Err(ErrSourceStopped).Msg("no more frames")
			<-loopCtx.Done()
			return stopped(), nil
		}

		landmarks := firstFace(loopCtx, s.detector, frame, log)
		if landmarks == nil {
			continue
		}
		live, err := biometric.Extract(landmarks)
		if err != nil {
			log.Debug().Err(err).Int("frame", frame.Index).Msg("live sample rejected")
			continue
		}
		d := biometric.MinDistance(live, record.Fingerprints)
		if math.IsInf(d, 1) {
			continue
		}
		if best < 0 || d < best {
			best = d
		}
		emitter.Emit(loopCtx, models.Event{Kind: models.EventDistance, Vector: live, Distance: d})

		if biometric.Within(d, tolerance) {
			log.Info().Float64("distance", d).Msg("face matched")
			return models.Outcome{Kind: models.OutcomeMatched, Secret: record.Secret, Distance: d}, nil
		}
	}
}
