// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-face-lock/internal/biometric"
	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/internal/workers"
	"github.com/MKhiriev/go-face-lock/models"
)

// stubMatcher returns a fixed verification result.
type stubMatcher struct {
	outcome models.Outcome
	err     error

	calls     atomic.Int32
	tolerance float64
	timeout   time.Duration
}

func (m *stubMatcher) Verify(_ context.Context, tolerance float64, timeout time.Duration, _ chan<- models.Event) (models.Outcome, error) {
	m.calls.Add(1)
	m.tolerance, m.timeout = tolerance, timeout
	return m.outcome, m.err
}

func matchedOutcome() models.Outcome {
	return models.Outcome{
		Kind:     models.OutcomeMatched,
		Secret:   biometric.DeriveSecret(models.FingerprintVector{1.5, 0.95}),
		Distance: 0.01,
	}
}

func newTestSession(matcher MatchingService, idleLock time.Duration) *session {
	keyChain := crypto.NewKeyChain()
	batch := workers.NewFileBatch(NewFileCipherService(keyChain, logger.Nop()), 2, logger.Nop())
	return NewSession(matcher, keyChain, batch, config.Defaults().Match, idleLock, logger.Nop()).(*session)
}

func TestSession_LockedByDefault(t *testing.T) {
	sess := newTestSession(&stubMatcher{}, time.Minute)
	assert.False(t, sess.Unlocked())

	results, err := sess.ProcessFiles(context.Background(), []string{"a.txt"}, models.FileModeAuto, nil)
	assert.ErrorIs(t, err, ErrLocked)
	assert.Nil(t, results)
}

func TestSession_UnlockUsesMatchConfig(t *testing.T) {
	matcher := &stubMatcher{outcome: matchedOutcome()}
	sess := newTestSession(matcher, time.Minute)

	out, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, out.Matched())
	assert.True(t, sess.Unlocked())

	defaults := config.Defaults().Match
	assert.Equal(t, defaults.Tolerance, matcher.tolerance)
	assert.Equal(t, defaults.Timeout, matcher.timeout)

	want, err := crypto.NewKeyChain().DeriveCipherKey(matchedOutcome().Secret)
	require.NoError(t, err)
	assert.Equal(t, want, sess.key)
}

func TestSession_UnlockFailuresStayLocked(t *testing.T) {
	tests := []struct {
		name    string
		matcher *stubMatcher
		wantErr bool
	}{
		{name: "timed out", matcher: &stubMatcher{outcome: models.Outcome{Kind: models.OutcomeTimedOut, Distance: 0.2}}},
		{name: "no data", matcher: &stubMatcher{outcome: models.Outcome{Kind: models.OutcomeNoBiometricData, Distance: -1}}},
		{name: "storage error", matcher: &stubMatcher{err: assert.AnError}, wantErr: true},
		{
			name:    "malformed secret",
			matcher: &stubMatcher{outcome: models.Outcome{Kind: models.OutcomeMatched, Secret: "xyz"}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newTestSession(tt.matcher, time.Minute)
			out, err := sess.Unlock(context.Background(), nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.matcher.outcome, out)
			}
			assert.False(t, sess.Unlocked())
			assert.Equal(t, models.CipherKey{}, sess.key)
		})
	}
}

func TestSession_LockZeroesKey(t *testing.T) {
	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, time.Minute)
	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)
	require.NotEqual(t, models.CipherKey{}, sess.key)

	sess.Lock()
	assert.False(t, sess.Unlocked())
	assert.Equal(t, models.CipherKey{}, sess.key)

	assert.NotPanics(t, sess.Lock)
}

func TestSession_ProcessFilesBatch(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(good, []byte("payload"), 0o644))
	bogus := filepath.Join(dir, "b.txt.enc")
	require.NoError(t, os.WriteFile(bogus, []byte("not really encrypted at all......"), 0o644))
	missing := filepath.Join(dir, "missing.txt")

	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, time.Minute)
	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)

	var observed atomic.Int32
	results, err := sess.ProcessFiles(context.Background(), []string{good, bogus, missing}, models.FileModeAuto,
		func(models.FileResult) { observed.Add(1) })
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.EqualValues(t, 3, observed.Load())

	assert.True(t, results[0].OK())
	assert.Equal(t, good+".enc", results[0].Output)
	assert.ErrorIs(t, results[1].Err, ErrAuthenticationFailed)
	assert.Error(t, results[2].Err)
	for i, res := range results {
		assert.Equal(t, i, res.Index)
	}

	// a round trip through the session works with the same key after a relock
	sess.Lock()
	_, err = sess.Unlock(context.Background(), nil)
	require.NoError(t, err)
	results, err = sess.ProcessFiles(context.Background(), []string{good + ".enc"}, models.FileModeAuto, nil)
	require.NoError(t, err)
	require.True(t, results[0].OK(), "%v", results[0].Err)
	got, err := os.ReadFile(results[0].Output)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestSession_LockIfIdle(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, 5*time.Minute)
	sess.now = func() time.Time { return base }

	assert.False(t, sess.LockIfIdle(base.Add(time.Hour)), "locked session")

	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, sess.LockIfIdle(base.Add(4*time.Minute)))
	assert.True(t, sess.Unlocked())

	assert.True(t, sess.LockIfIdle(base.Add(5*time.Minute)))
	assert.False(t, sess.Unlocked())
	assert.Equal(t, models.CipherKey{}, sess.key)
}

func TestSession_FileActivityResetsIdleTimer(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, 5*time.Minute)
	sess.now = func() time.Time { return now }

	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)

	now = base.Add(4 * time.Minute)
	_, err = sess.ProcessFiles(context.Background(), nil, models.FileModeAuto, nil)
	require.NoError(t, err)

	assert.False(t, sess.LockIfIdle(base.Add(6*time.Minute)))
	assert.True(t, sess.LockIfIdle(base.Add(9*time.Minute)))
}

func TestSession_IdleLockDisabled(t *testing.T) {
	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, -1)
	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, sess.LockIfIdle(time.Now().Add(24*time.Hour)))
	assert.True(t, sess.Unlocked())
	assert.Nil(t, NewAutoLockJob(sess, -1, nil))
}

func TestAutoLockJob_LocksIdleSession(t *testing.T) {
	sess := newTestSession(&stubMatcher{outcome: matchedOutcome()}, 20*time.Millisecond)
	_, err := sess.Unlock(context.Background(), nil)
	require.NoError(t, err)

	var locked atomic.Int32
	job := NewAutoLockJob(sess, 20*time.Millisecond, func() { locked.Add(1) })
	require.NotNil(t, job)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = job.Run(ctx) }()

	assert.Eventually(t, func() bool { return locked.Load() == 1 }, 500*time.Millisecond, 5*time.Millisecond)
	assert.False(t, sess.Unlocked())
}
