// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-face-lock/internal/biometric"
	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/store"
	"github.com/MKhiriev/go-face-lock/internal/utils"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

const (
	DefaultEnrollCount = 4

	// finalEventTimeout bounds how long a terminal state event waits for the
	// observer after the session context is gone.
	finalEventTimeout = 100 * time.Millisecond
)

// EnrollOptions configures one enrollment session.
type EnrollOptions struct {
	// Count is the number of samples to collect.
	Count int
	// StabilityWindow is how long a face must stay in view before its
	// sample is accepted. Zero accepts the first face-bearing frame.
	StabilityWindow time.Duration
	// SecretPolicy selects the scan the secret is derived from:
	// config.SecretPolicyFirst or config.SecretPolicyMedian.
	SecretPolicy string
	PollInterval time.Duration
	// Events receives state transitions and progress. May be nil.
	Events chan<- models.Event
}

// EnrollOptionsFromConfig builds options from the enroll and match config
// groups. The caller sets Events.
func EnrollOptionsFromConfig(enroll config.Enroll, match config.Match) EnrollOptions {
	return EnrollOptions{
		Count:           enroll.Count,
		StabilityWindow: enroll.StabilityWindow,
		SecretPolicy:    enroll.SecretPolicy,
		PollInterval:    match.PollInterval,
	}
}

type enrollmentService struct {
	camera   capture.Camera
	detector capture.LandmarkDetector
	repo     store.FingerprintRepository
	ids      *utils.UUIDGenerator
	logger   *logger.Logger
	now      func() time.Time
}

func NewEnrollmentService(camera capture.Camera, detector capture.LandmarkDetector, repo store.FingerprintRepository, logger *logger.Logger) EnrollmentService {
	return &enrollmentService{
		camera:   camera,
		detector: detector,
		repo:     repo,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *enrollmentService) Enrolled(ctx context.Context) (bool, error) {
	ok, err := s.repo.HasActive(ctx)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}

// enrollRun is the state of one session.
type enrollRun struct {
	opts    EnrollOptions
	emitter *workers.Emitter
	log     *logger.Logger

	state       models.EnrollmentState
	samples     []models.FingerprintVector
	windowStart time.Time
	lastFace    models.LandmarkSample
}

func (s *enrollmentService) Enroll(ctx context.Context, opts EnrollOptions) (models.EnrollmentResult, error) {
	opts = normalizeEnrollOptions(opts)
	ctx, sessionID := sessionContext(ctx, s.ids)
	run := &enrollRun{
		opts:    opts,
		emitter: workers.NewEmitter(opts.Events, sessionID, workers.DefaultProgressInterval),
		log:     s.logger.WithSession(sessionID),
		samples: make([]models.FingerprintVector, 0, opts.Count),
	}
	run.log.Info().Int("count", opts.Count).Dur("window", opts.StabilityWindow).Msg("enrollment started")

	src, err := s.camera.Open(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return run.abandon(ctx), nil
		}
		run.log.Warn().Err(err).Msg("camera unavailable")
		run.finish(ctx, models.EnrollmentAbandoned)
		return models.EnrollmentResult{Status: models.EnrollmentStatusCameraUnavailable}, nil
	}

	loopCtx, cancel := context.WithCancel(ctx)
	pump := startFramePump(loopCtx, src, opts.PollInterval, run.log)
	released := false
	release := func() {
		if !released {
			released = true
			cancel()
			closeSource(src, pump, run.log)
		}
	}
	defer release()

	run.transition(loopCtx, models.EnrollmentCapturing)

	for len(run.samples) < opts.Count {
		var frame models.Frame
		var ok bool
		select {
		case <-ctx.Done():
			return run.abandon(ctx), nil
		case frame, ok = <-pump.Frames():
		}
		if !ok {
			if ctx.Err() != nil {
				return run.abandon(ctx), nil
			}
			run.log.Warn().Msg("frame source closed during enrollment")
			run.finish(ctx, models.EnrollmentAbandoned)
			return models.EnrollmentResult{Status: models.EnrollmentStatusCameraUnavailable}, nil
		}

		run.step(loopCtx, firstFace(loopCtx, s.detector, frame, run.log), s.now())
	}

	// The camera is not needed for the commit.
	release()
	if ctx.Err() != nil {
		return run.abandon(ctx), nil
	}

	secret, err := deriveEnrollmentSecret(run.samples, opts.SecretPolicy)
	if err != nil {
		run.finish(ctx, models.EnrollmentAbandoned)
		return models.EnrollmentResult{}, err
	}
	if err = s.repo.ReplaceAll(ctx, run.samples, secret); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return run.abandon(ctx), nil
		}
		run.log.Error().Err(err).Msg("failed to commit enrollment")
		run.finish(ctx, models.EnrollmentAbandoned)
		return models.EnrollmentResult{}, fmt.Errorf("commit enrollment: %w", err)
	}

	run.finish(ctx, models.EnrollmentCommitted)
	run.log.Info().Int("samples", len(run.samples)).Msg("enrollment committed")
	return models.EnrollmentResult{
		Status:       models.EnrollmentStatusCommitted,
		Fingerprints: run.samples,
		Secret:       secret,
	}, nil
}

// step advances the state machine by one frame. face is nil when the frame
// had no usable face.
func (r *enrollRun) step(ctx context.Context, face models.LandmarkSample, now time.Time) {
	if face == nil {
		if r.state == models.EnrollmentStabilityWindow {
			// continuous detection was broken, the window starts over
			r.windowStart = time.Time{}
			r.lastFace = nil
			r.transition(ctx, models.EnrollmentCapturing)
		}
		r.emit(ctx, models.Event{Kind: models.EventNoFace})
		return
	}

	if r.state != models.EnrollmentStabilityWindow {
		r.windowStart = now
		r.transition(ctx, models.EnrollmentStabilityWindow)
	}
	r.lastFace = face

	if remaining := r.opts.StabilityWindow - now.Sub(r.windowStart); remaining > 0 {
		r.emit(ctx, models.Event{Kind: models.EventCountdown, Remaining: remaining})
		return
	}

	vector, err := biometric.Extract(r.lastFace)
	r.windowStart = time.Time{}
	r.lastFace = nil
	if err != nil {
		r.log.Debug().Err(err).Int("sample", r.sampleIndex()).Msg("sample rejected by quality gate")
		r.transition(ctx, models.EnrollmentCapturing)
		return
	}

	r.samples = append(r.samples, vector)
	r.emit(ctx, models.Event{Kind: models.EventSampleAccepted, Vector: vector})
	r.transition(ctx, models.EnrollmentSampleAccepted)
	r.log.Debug().Int("sample", len(r.samples)).Floats64("vector", vector).Msg("sample accepted")

	if len(r.samples) < r.opts.Count {
		r.transition(ctx, models.EnrollmentCapturing)
	}
}

// sampleIndex is the 1-based index of the sample being captured.
func (r *enrollRun) sampleIndex() int {
	return min(len(r.samples)+1, r.opts.Count)
}

func (r *enrollRun) transition(ctx context.Context, state models.EnrollmentState) {
	r.state = state
	r.emit(ctx, models.Event{Kind: models.EventState, State: state})
}

func (r *enrollRun) emit(ctx context.Context, ev models.Event) {
	ev.Sample = r.sampleIndex()
	if ev.Kind == models.EventSampleAccepted {
		ev.Sample = len(r.samples)
	}
	ev.Total = r.opts.Count
	r.emitter.Emit(ctx, ev)
}

// finish publishes a terminal state even when ctx is already done.
func (r *enrollRun) finish(ctx context.Context, state models.EnrollmentState) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalEventTimeout)
	defer cancel()
	r.transition(ctx, state)
}

func (r *enrollRun) abandon(ctx context.Context) models.EnrollmentResult {
	r.log.Info().Int("samples", len(r.samples)).Msg("enrollment abandoned")
	r.samples = nil
	r.finish(ctx, models.EnrollmentAbandoned)
	return models.EnrollmentResult{Status: models.EnrollmentStatusAbandoned}
}

func deriveEnrollmentSecret(samples []models.FingerprintVector, policy string) (models.BiometricSecret, error) {
	if len(samples) == 0 {
		return "", ErrInvalidDataProvided
	}
	switch policy {
	case config.SecretPolicyMedian:
		median := biometric.Median(samples)
		if median == nil {
			return "", fmt.Errorf("%w: samples disagree on length", ErrInvalidDataProvided)
		}
		return biometric.DeriveSecret(median), nil
	default:
		return biometric.DeriveSecret(samples[0]), nil
	}
}

func normalizeEnrollOptions(opts EnrollOptions) EnrollOptions {
	if opts.Count <= 0 {
		opts.Count = DefaultEnrollCount
	}
	if opts.StabilityWindow < 0 {
		opts.StabilityWindow = 0
	}
	if opts.SecretPolicy == "" {
		opts.SecretPolicy = config.SecretPolicyFirst
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return opts
}

// sessionContext returns ctx carrying a session id, reusing one already set
// by the caller.
func sessionContext(ctx context.Context, ids *utils.UUIDGenerator) (context.Context, string) {
	if id, ok := utils.GetSessionIDFromContext(ctx); ok {
		return ctx, id
	}
	id := ids.Generate()
	return utils.WithSessionID(ctx, id), id
}
