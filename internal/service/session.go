// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

// maxIdleCheckInterval caps how often the auto-lock job looks at the session.
const maxIdleCheckInterval = 5 * time.Second

type session struct {
	matcher  MatchingService
	keyChain crypto.KeyChain
	files    *workers.FileBatch
	match    config.Match
	idleLock time.Duration
	logger   *logger.Logger
	now      func() time.Time

	mu         sync.Mutex
	key        models.CipherKey
	unlocked   bool
	lastActive time.Time
}

// NewSession returns a locked session. A non-positive idleLock disables the
// auto-lock.
func NewSession(matcher MatchingService, keyChain crypto.KeyChain, files *workers.FileBatch, match config.Match, idleLock time.Duration, logger *logger.Logger) SessionService {
	return &session{
		matcher:  matcher,
		keyChain: keyChain,
		files:    files,
		match:    match,
		idleLock: idleLock,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *session) Unlock(ctx context.Context, events chan<- models.Event) (models.Outcome, error) {
	outcome, err := s.matcher.Verify(ctx, s.match.Tolerance, s.match.Timeout, events)
	if err != nil || !outcome.Matched() {
		return outcome, err
	}

	key, err := s.keyChain.DeriveCipherKey(outcome.Secret)
	if err != nil {
		return outcome, fmt.Errorf("derive cipher key: %w", err)
	}

	s.mu.Lock()
	s.key = key
	s.unlocked = true
	s.lastActive = s.now()
	s.mu.Unlock()
	key.Zero()

	s.logger.Info().Msg("session unlocked")
	return outcome, nil
}

func (s *session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockLocked()
}

// lockLocked requires s.mu.
func (s *session) lockLocked() {
	s.key.Zero()
	if s.unlocked {
		s.logger.Info().Msg("session locked")
	}
	s.unlocked = false
}

func (s *session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}

// ProcessFiles works on a copy of the key, so a lock during the batch does
// not stop files already submitted.
func (s *session) ProcessFiles(ctx context.Context, paths []string, mode models.FileMode, observe func(models.FileResult)) ([]models.FileResult, error) {
	s.mu.Lock()
	if !s.unlocked {
		s.mu.Unlock()
		return nil, ErrLocked
	}
	key := s.key
	s.lastActive = s.now()
	s.mu.Unlock()
	defer key.Zero()

	results := s.files.Run(ctx, paths, key, mode, observe)

	s.mu.Lock()
	if s.unlocked {
		s.lastActive = s.now()
	}
	s.mu.Unlock()
	return results, nil
}

func (s *session) LockIfIdle(now time.Time) bool {
	if s.idleLock <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked || now.Sub(s.lastActive) < s.idleLock {
		return false
	}
	s.lockLocked()
	return true
}

// NewAutoLockJob returns the background job locking sess after idleLock
// without activity, or nil when auto-lock is disabled. onLock runs after
// every automatic lock and may be nil.
func NewAutoLockJob(sess SessionService, idleLock time.Duration, onLock func()) *workers.IntervalJob {
	if idleLock <= 0 {
		return nil
	}
	return workers.NewIntervalJob(min(idleLock, maxIdleCheckInterval), func(context.Context) {
		if sess.LockIfIdle(time.Now()) && onLock != nil {
			onLock()
		}
	})
}
